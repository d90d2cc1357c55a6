package floor

import "errors"

// Failure taxonomy for coordinator operations. Callers wrap these with
// fmt.Errorf("...: %w", Err...) so the human-readable reason travels with
// the class; handlers map the class to an HTTP status.
var (
	ErrNotFound           = errors.New("not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)
