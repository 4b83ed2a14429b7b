package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrDuplicate means the store already holds an active reservation for the same user and event.
	ErrDuplicate = errors.New("active reservation already exists")

	// ErrStatusConflict means the reservation left the expected status before the write landed.
	ErrStatusConflict = errors.New("reservation status changed concurrently")
)
