package checkin

import "errors"

var (
	// ErrOutOfWindow means the current time is outside the window for the
	// requested check-in type.
	ErrOutOfWindow = errors.New("check-in time not available")
	// ErrAlreadyCheckedIn means a check-in already exists for the user,
	// type and day window.
	ErrAlreadyCheckedIn = errors.New("already checked in")
	// ErrInvalidType means the check-in type is neither morning nor evening.
	ErrInvalidType = errors.New("invalid check-in type")
	// ErrNotFound is returned by lookups with no matching rows on paths
	// where the API contract is a 404 rather than an empty list.
	ErrNotFound = errors.New("not found")
)
