package store

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist or
	// is not visible to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrRideUnavailable is returned when a guarded status transition
	// matches zero rows: the ride never existed, was already taken, or
	// is not in the state the transition requires.
	ErrRideUnavailable = errors.New("ride not available")
)
