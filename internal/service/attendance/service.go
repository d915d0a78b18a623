package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/geo"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/storage"
)

const (
	defaultRecentDays = 30
	maxRecentDays     = 366
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	roster     employee.RosterSource
	calculator *PeriodCalculator
	fence      geo.Fence
	policy     attendance.WindowPolicy
	storage    storage.FileStorage
	loc        *time.Location
	now        func() time.Time

	// serializes the same-day duplicate check with the insert
	recordMu sync.Mutex
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	roster employee.RosterSource,
	fence geo.Fence,
	policy attendance.WindowPolicy,
	fileStorage storage.FileStorage,
	loc *time.Location,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		roster:               roster,
		calculator:           NewPeriodCalculator(),
		fence:                fence,
		policy:               policy,
		storage:              fileStorage,
		loc:                  loc,
		now:                  time.Now,
	}
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// WithClock replaces the service clock.
func (a *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	a.now = now
	return a
}

func (a *AttendanceServiceImpl) localNow() time.Time {
	return a.now().In(a.loc)
}

func (a *AttendanceServiceImpl) dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.In(a.loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, a.loc)
	return from, from.AddDate(0, 0, 1)
}

// localize moves stored timestamps into the office time zone so events group
// by local calendar date.
func (a *AttendanceServiceImpl) localize(events []attendance.Event) []attendance.Event {
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(a.loc)
	}
	return events
}

// Record implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Record(ctx context.Context, req attendance.CheckRequest) (attendance.EventResponse, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	action := attendance.Action(req.Action)
	if !action.IsValid() {
		return attendance.EventResponse{}, &attendance.InvalidInputError{Action: action}
	}

	lat, lon := *req.Latitude, *req.Longitude
	if !a.fence.Contains(lat, lon) {
		slog.Info("Attendance rejected outside office",
			"email", claims.Email,
			"distance_m", a.fence.Distance(lat, lon),
		)
		return attendance.EventResponse{}, attendance.ErrOutsideOffice
	}

	now := a.localNow()
	switch action {
	case attendance.ActionCheckIn:
		if !a.policy.CheckInAllowed(now) {
			return attendance.EventResponse{}, attendance.ErrCheckInWindowClosed
		}
	case attendance.ActionCheckOut:
		if !a.policy.CheckOutAllowed(now) {
			return attendance.EventResponse{}, attendance.ErrCheckOutTooEarly
		}
	}

	location := fmt.Sprintf("%.6f, %.6f", lat, lon)
	created, err := a.insert(ctx, attendance.Event{
		EmployeeEmail: claims.Email,
		Action:        action,
		Timestamp:     now,
		Latitude:      &lat,
		Longitude:     &lon,
		LocationText:  &location,
		Source:        attendance.SourceGeofence,
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	slog.Info("Attendance recorded", "email", claims.Email, "action", action)
	return attendance.NewEventResponse(created), nil
}

// AddManual implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AddManual(ctx context.Context, req attendance.ManualAttendanceRequest) (attendance.EventResponse, error) {
	hr, err := jwt.RequireHR(ctx)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	action := attendance.Action(req.Action)
	if !action.IsValid() {
		return attendance.EventResponse{}, &attendance.InvalidInputError{Action: action}
	}

	if err := a.ensureEmployee(ctx, req.EmployeeEmail); err != nil {
		return attendance.EventResponse{}, err
	}

	ts, err := req.Timestamp(a.loc)
	if err != nil {
		return attendance.EventResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidInput, err)
	}

	location := attendance.ManualLocationText
	created, err := a.insert(ctx, attendance.Event{
		EmployeeEmail: req.EmployeeEmail,
		Action:        action,
		Timestamp:     ts,
		LocationText:  &location,
		Source:        attendance.SourceManual,
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	slog.Info("Manual attendance added", "by", hr.Email, "email", created.EmployeeEmail, "action", action, "event_time", ts)
	return attendance.NewEventResponse(created), nil
}

func (a *AttendanceServiceImpl) ensureEmployee(ctx context.Context, email string) error {
	if _, ok := a.roster.Lookup(email); ok {
		return nil
	}
	exists, err := a.EmployeeRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// insert applies the same-day rules for ev's calendar date, stores it and
// refreshes the employee's working-day count after a check-in.
func (a *AttendanceServiceImpl) insert(ctx context.Context, ev attendance.Event) (attendance.Event, error) {
	a.recordMu.Lock()
	defer a.recordMu.Unlock()

	from, to := a.dayBounds(ev.Timestamp)
	sameDay, err := a.AttendanceRepository.ListByEmployee(ctx, ev.EmployeeEmail, from, to)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	var checkedIn, checkedOut bool
	for _, e := range sameDay {
		switch e.Action {
		case attendance.ActionCheckIn:
			checkedIn = true
		case attendance.ActionCheckOut:
			checkedOut = true
		}
	}

	switch ev.Action {
	case attendance.ActionCheckIn:
		if checkedIn {
			return attendance.Event{}, attendance.ErrAlreadyCheckedIn
		}
	case attendance.ActionCheckOut:
		if !checkedIn {
			return attendance.Event{}, attendance.ErrNotCheckedIn
		}
		if checkedOut {
			return attendance.Event{}, attendance.ErrAlreadyCheckedOut
		}
	}

	if ev.ID == "" {
		ev.ID = uuid.Must(uuid.NewV7()).String()
	}
	created, err := a.AttendanceRepository.Create(ctx, ev)
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to record attendance: %w", err)
	}
	created.Timestamp = created.Timestamp.In(a.loc)

	if ev.Action == attendance.ActionCheckIn {
		if err := a.refreshWorkingDays(ctx, ev.EmployeeEmail); err != nil {
			// the event is stored; the counter catches up on the next check-in
			slog.Error("Failed to refresh working days", "email", ev.EmployeeEmail, "error", err)
		}
	}

	return created, nil
}

// refreshWorkingDays stores the current period's working-day count on the employee.
func (a *AttendanceServiceImpl) refreshWorkingDays(ctx context.Context, email string) error {
	report, err := a.periodReport(ctx, email, a.localNow())
	if err != nil {
		return err
	}

	err = a.EmployeeRepository.SetTotalWorking(ctx, email, report.WorkingDayCount)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil
	}
	return err
}

func (a *AttendanceServiceImpl) periodReport(ctx context.Context, email string, ref time.Time) (attendance.PeriodReport, error) {
	period := a.calculator.PeriodFor(ref.In(a.loc))
	from, to := period.Bounds()

	events, err := a.AttendanceRepository.ListByEmployee(ctx, email, from, to)
	if err != nil {
		return attendance.PeriodReport{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return a.calculator.Summarize(a.localize(events), period)
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) ([]attendance.EventResponse, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return nil, err
	}

	from, to := a.dayBounds(a.localNow())
	events, err := a.AttendanceRepository.ListByEmployee(ctx, claims.Email, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	responses := make([]attendance.EventResponse, 0, len(events))
	for _, e := range a.localize(events) {
		responses = append(responses, attendance.NewEventResponse(e))
	}
	return responses, nil
}

// MyReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyReport(ctx context.Context, ref time.Time) (attendance.PeriodReportResponse, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return attendance.PeriodReportResponse{}, err
	}

	report, err := a.periodReport(ctx, claims.Email, ref)
	if err != nil {
		return attendance.PeriodReportResponse{}, err
	}
	return attendance.NewPeriodReportResponse(report), nil
}

// RecentReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecentReport(ctx context.Context, days int) (attendance.PeriodReportResponse, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return attendance.PeriodReportResponse{}, err
	}

	if days <= 0 {
		days = defaultRecentDays
	}
	if days > maxRecentDays {
		days = maxRecentDays
	}

	period := attendance.LastDays(a.localNow(), days)
	from, to := period.Bounds()

	events, err := a.AttendanceRepository.ListByEmployee(ctx, claims.Email, from, to)
	if err != nil {
		return attendance.PeriodReportResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	report, err := a.calculator.Summarize(a.localize(events), period)
	if err != nil {
		return attendance.PeriodReportResponse{}, err
	}
	return attendance.NewPeriodReportResponse(report), nil
}

// ExportCSV implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ExportCSV(ctx context.Context, ref time.Time) ([]byte, string, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return nil, "", err
	}

	report, err := a.periodReport(ctx, claims.Email, ref)
	if err != nil {
		return nil, "", err
	}

	data, err := EncodeReportCSV(report)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode report: %w", err)
	}

	filename := fmt.Sprintf("attendance_report_%s_%s.csv",
		report.Period.StartDate.Format(attendance.DateLayout),
		report.Period.EndDate.Format(attendance.DateLayout),
	)
	return data, filename, nil
}

// ResetTotals implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ResetTotals(ctx context.Context) error {
	if err := a.EmployeeRepository.ResetTotals(ctx); err != nil {
		return fmt.Errorf("failed to reset totals: %w", err)
	}
	slog.Info("Employee totals reset for new period")
	return nil
}

// Archive implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Archive(ctx context.Context, cutoff time.Time) (attendance.ArchiveResult, error) {
	events, err := a.AttendanceRepository.ListBefore(ctx, cutoff)
	if err != nil {
		return attendance.ArchiveResult{}, fmt.Errorf("failed to list old attendance: %w", err)
	}
	if len(events) == 0 {
		return attendance.ArchiveResult{Cutoff: cutoff}, attendance.ErrNothingToArchive
	}

	data, err := EncodeEventsCSV(a.localize(events))
	if err != nil {
		return attendance.ArchiveResult{}, fmt.Errorf("failed to encode archive: %w", err)
	}

	path := fmt.Sprintf("archive/attendance_before_%s_%s.csv",
		cutoff.In(a.loc).Format(attendance.DateLayout), uuid.Must(uuid.NewV7()).String())
	key, err := a.storage.Upload(ctx, bytes.NewReader(data), path, "text/csv")
	if err != nil {
		return attendance.ArchiveResult{}, fmt.Errorf("failed to store archive: %w", err)
	}

	deleted, err := a.AttendanceRepository.DeleteBefore(ctx, cutoff)
	if err != nil {
		return attendance.ArchiveResult{}, fmt.Errorf("failed to delete archived attendance: %w", err)
	}

	slog.Info("Attendance archived", "cutoff", cutoff, "archived", deleted, "key", key)
	return attendance.ArchiveResult{Cutoff: cutoff, Archived: deleted, ObjectKey: key}, nil
}
