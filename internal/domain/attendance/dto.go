package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckRequest is a geofenced check-in or check-out submitted by the caller.
type CheckRequest struct {
	Action    string   `json:"action"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	}

	if r.Latitude == nil || r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "invalid location data, please enable location services",
		})
	} else {
		if !validator.IsValidLatitude(*r.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(*r.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualAttendanceRequest is an HR-entered record for an employee.
type ManualAttendanceRequest struct {
	EmployeeEmail string `json:"employee_email"`
	Date          string `json:"attendance_date"`
	Time          string `json:"attendance_time"`
	Action        string `json:"action"`
}

func (r *ManualAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeEmail = strings.TrimSpace(r.EmployeeEmail)
	if !validator.IsValidEmail(r.EmployeeEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_email",
			Message: "employee_email must be a valid email",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_date",
			Message: "attendance_date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidClock(r.Time); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_time",
			Message: "attendance_time must be in HH:MM format",
		})
	}

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Timestamp combines the request date and time in loc.
func (r *ManualAttendanceRequest) Timestamp(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+ClockLayout, r.Date+" "+r.Time, loc)
}

type EventResponse struct {
	ID            string   `json:"id"`
	EmployeeEmail string   `json:"employee_email"`
	Action        string   `json:"action"`
	EventTime     string   `json:"event_time"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	LocationText  *string  `json:"location_text,omitempty"`
	Source        string   `json:"source"`
}

func NewEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		EmployeeEmail: e.EmployeeEmail,
		Action:        string(e.Action),
		EventTime:     e.Timestamp.Format(time.RFC3339),
		Latitude:      e.Latitude,
		Longitude:     e.Longitude,
		LocationText:  e.LocationText,
		Source:        string(e.Source),
	}
}

type DaySummaryResponse struct {
	Day           string `json:"day"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	WorkedSeconds int64  `json:"worked_seconds"`
	TotalHours    string `json:"total_hours"`
}

type PeriodReportResponse struct {
	PeriodStart        string               `json:"period_start"`
	PeriodEnd          string               `json:"period_end"`
	Days               []DaySummaryResponse `json:"days"`
	TotalWorkedSeconds int64                `json:"total_worked_seconds"`
	TotalWorkingHours  string               `json:"total_working_hours"`
	WorkingDayCount    int                  `json:"working_day_count"`
}

func NewPeriodReportResponse(r PeriodReport) PeriodReportResponse {
	days := make([]DaySummaryResponse, 0, len(r.Days))
	for _, d := range r.Days {
		days = append(days, DaySummaryResponse{
			Day:           d.Day.Format(DateLayout),
			CheckIn:       FormatClock(d.FirstCheckIn),
			CheckOut:      FormatClock(d.LastCheckOut),
			WorkedSeconds: d.WorkedSeconds,
			TotalHours:    FormatWorked(d.WorkedSeconds),
		})
	}

	return PeriodReportResponse{
		PeriodStart:        r.Period.StartDate.Format(DateLayout),
		PeriodEnd:          r.Period.EndDate.Format(DateLayout),
		Days:               days,
		TotalWorkedSeconds: r.TotalWorkedSeconds,
		TotalWorkingHours:  fmt.Sprintf("%.2f", float64(r.TotalWorkedSeconds)/3600),
		WorkingDayCount:    r.WorkingDayCount,
	}
}

// FormatClock renders a time as "03:04 PM", or "-" when absent.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DisplayLayout)
}

// FormatWorked renders seconds as "9h 25m", or "-" for zero.
func FormatWorked(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// ArchiveResult describes one archive run.
type ArchiveResult struct {
	Cutoff    time.Time `json:"cutoff"`
	Archived  int64     `json:"archived"`
	ObjectKey string    `json:"object_key"`
}
