package token

import "errors"

var (
	// ErrInvalidID indicates a token id that is zero or not a decimal integer.
	ErrInvalidID = errors.New("token: invalid token id")

	// ErrInvalidTemplate indicates a metadata template missing a required field.
	ErrInvalidTemplate = errors.New("token: invalid metadata template")

	// ErrInvalidContractMetadata indicates contract metadata missing a required field.
	ErrInvalidContractMetadata = errors.New("token: invalid contract metadata")
)
