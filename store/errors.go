package store

import "errors"

var (
	// ErrDuplicateToken indicates an insert hit an existing token id.
	ErrDuplicateToken = errors.New("store: duplicate token id")

	// ErrTokenNotFound indicates the token id does not exist.
	ErrTokenNotFound = errors.New("store: token not found")

	// ErrMetadataNotFound indicates no metadata is stored for the token id.
	ErrMetadataNotFound = errors.New("store: metadata not found")

	// ErrReadOnly indicates a write attempted inside View.
	ErrReadOnly = errors.New("store: read-only transaction")

	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("store: nil parameter")
)
