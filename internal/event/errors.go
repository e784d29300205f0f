package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilHandler is returned when a nil handler is provided to On.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrEmptySpec is returned when an event specification contains no
	// event name and no namespace.
	ErrEmptySpec = errors.New("empty event specification")
)
