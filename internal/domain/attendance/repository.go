package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores raw events. Range arguments are half-open:
// from is inclusive and to is exclusive. Lists are ordered by event time.
type AttendanceRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	ListByEmployee(ctx context.Context, email string, from, to time.Time) ([]Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	ListBefore(ctx context.Context, cutoff time.Time) ([]Event, error)
	// CheckedInEmails returns the distinct employees with a check-in in [from, to).
	CheckedInEmails(ctx context.Context, from, to time.Time) ([]string, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
