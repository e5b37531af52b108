package domain

import "errors"

// The error kinds every operation surfaces. Context packages wrap these with
// descriptive sentinels so callers can match on either the specific failure
// or the kind (errors.Is works on both).
var (
	// ErrValidation indicates malformed input; the caller must correct it.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller is not entitled to act on the record.
	ErrUnauthorized = errors.New("not authorized")

	// ErrInvalidState indicates the record exists but its current status
	// forbids the requested transition.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict indicates a conditional update lost a race with a concurrent
	// operation. Expected under load; callers may re-fetch and retry.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrInconsistentState indicates a cross-record invariant was found
	// violated at read time. Always logged, never silently repaired.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrTimeout indicates the unit of work did not commit in time.
	// Callers must not assume any partial effect occurred.
	ErrTimeout = errors.New("transaction timed out")
)
