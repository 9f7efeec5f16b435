package settlement

import "errors"

var (
	// ErrNoDestination indicates neither the payment nor the dispatcher
	// names a destination.
	ErrNoDestination = errors.New("settlement: no destination")

	// ErrZeroAmount indicates a payment of zero.
	ErrZeroAmount = errors.New("settlement: zero amount")

	// ErrNilParam indicates a required collaborator is nil.
	ErrNilParam = errors.New("settlement: required parameter is nil")
)
