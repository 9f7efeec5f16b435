package royalty

import "errors"

var (
	// ErrNoEntries indicates an empty split.
	ErrNoEntries = errors.New("royalty: no entries")

	// ErrZeroShare indicates an entry with zero basis points.
	ErrZeroShare = errors.New("royalty: zero share")

	// ErrShareOverflow indicates the shares add up to more than 100%.
	ErrShareOverflow = errors.New("royalty: shares exceed 10000 basis points")

	// ErrTooManyEntries indicates more entries than a token record accepts.
	ErrTooManyEntries = errors.New("royalty: too many entries")
)
