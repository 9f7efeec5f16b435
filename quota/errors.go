package quota

import "errors"

var (
	// ErrZeroCap indicates a tier cap of zero, which would admit nobody.
	ErrZeroCap = errors.New("quota: cap must be positive")
)
