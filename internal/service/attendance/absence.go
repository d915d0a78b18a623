package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MarkAbsentees adds a leave day for every stored non-HR employee without a
// check-in on day. It returns how many were marked.
func (a *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, day time.Time) (int, error) {
	from, to := a.dayBounds(day)

	present, err := a.AttendanceRepository.CheckedInEmails(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to get check-ins: %w", err)
	}
	checkedIn := make(map[string]bool, len(present))
	for _, email := range present {
		checkedIn[email] = true
	}

	employees, err := a.EmployeeRepository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	marked := 0
	for _, e := range employees {
		if e.IsHR() || checkedIn[e.Email] {
			continue
		}
		if err := a.EmployeeRepository.IncrementLeave(ctx, e.Email); err != nil {
			slog.Error("Failed to mark employee absent", "email", e.Email, "error", err)
			continue
		}
		slog.Info("Employee marked absent", "email", e.Email, "day", from.Format("2006-01-02"))
		marked++
	}

	return marked, nil
}
