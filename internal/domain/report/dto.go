package report

import (
	"fmt"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

// MonthlyReportRequest selects a calendar month. A zero value means the month
// before the current one.
type MonthlyReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyReportRequest) Validate() error {
	if r.Month == 0 && r.Year == 0 {
		return nil
	}

	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2020 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2020 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PreviousMonth returns the calendar month before the one containing now.
func PreviousMonth(now time.Time) (year int, month time.Month) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastOfPrevious := firstOfMonth.AddDate(0, 0, -1)
	return lastOfPrevious.Year(), lastOfPrevious.Month()
}

type MonthlyReportResult struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Rows       int    `json:"rows"`
	Filename   string `json:"filename"`
	StoredAt   string `json:"stored_at,omitempty"`
	Recipients int    `json:"recipients"`
}

// ========================================
// PERIOD WORKBOOK
// ========================================

type EmployeePeriodRow struct {
	Name               string
	Email              string
	WorkingDays        int
	TotalWorkedSeconds int64
	TotalLeave         int
}
