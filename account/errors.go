package account

import "errors"

var (
	// ErrEmptyID indicates an empty account identifier.
	ErrEmptyID = errors.New("account: empty account id")

	// ErrInvalidLength indicates the identifier is outside the accepted length range.
	ErrInvalidLength = errors.New("account: invalid account id length")

	// ErrInvalidSyntax indicates the identifier contains characters or separators
	// that are not accepted.
	ErrInvalidSyntax = errors.New("account: invalid account id syntax")
)
