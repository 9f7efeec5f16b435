package allowlist

import "errors"

var (
	// ErrUnknownTier indicates a tier name that does not parse.
	ErrUnknownTier = errors.New("allowlist: unknown tier")

	// ErrNoList indicates the tier has no eligibility list (the public tier).
	ErrNoList = errors.New("allowlist: tier has no list")

	// ErrIndexOutOfRange indicates a removal index beyond the list length.
	ErrIndexOutOfRange = errors.New("allowlist: index out of range")
)
