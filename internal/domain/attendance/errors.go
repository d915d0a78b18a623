package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrInvalidInput = errors.New("invalid attendance input")

	// Check-in / check-out errors
	ErrOutsideOffice       = errors.New("location is outside office bounds")
	ErrCheckInWindowClosed = errors.New("check-in is not allowed at this time")
	ErrCheckOutTooEarly    = errors.New("check-out is not allowed before the minimum check-out time")
	ErrAlreadyCheckedIn    = errors.New("already checked in today")
	ErrNotCheckedIn        = errors.New("must check in before checking out")
	ErrAlreadyCheckedOut   = errors.New("already checked out today")

	ErrNothingToArchive = errors.New("no attendance records older than the cutoff")
)

// InvalidInputError reports an event whose action is neither check-in nor check-out.
type InvalidInputError struct {
	EventID string
	Action  Action
}

func (e *InvalidInputError) Error() string {
	if e.EventID != "" {
		return fmt.Sprintf("event %s: unrecognized attendance action %q", e.EventID, e.Action)
	}
	return fmt.Sprintf("unrecognized attendance action %q", e.Action)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
