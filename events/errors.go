package events

import "errors"

var (
	// ErrMissingPrefix indicates a log line without the event prefix.
	ErrMissingPrefix = errors.New("events: missing EVENT_JSON prefix")

	// ErrPublish indicates a sink failed to deliver an event.
	ErrPublish = errors.New("events: publish failed")
)
