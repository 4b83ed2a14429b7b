package errors

import "errors"

var (
	ErrNotFound = errors.New("event not found")

	ErrInvalidID = errors.New("invalid event ID format")

	ErrCapacityExceeded = errors.New("event capacity exceeded")

	// ErrCounterUnderflow means a seat release found no reserved place to give back.
	ErrCounterUnderflow = errors.New("event reserved places already at zero")

	// ErrUpdateConflict means a guarded update matched the event but its guard did not hold.
	ErrUpdateConflict = errors.New("event changed concurrently")
)
