package phase

import "errors"

var (
	// ErrUnorderedSchedule indicates the phase boundaries are not strictly increasing.
	ErrUnorderedSchedule = errors.New("phase: boundaries must be strictly increasing")

	// ErrUnknownPhase indicates a phase name that does not parse.
	ErrUnknownPhase = errors.New("phase: unknown phase")
)
