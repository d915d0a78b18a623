package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/email"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/storage"
	attendanceService "github.com/zugo-hr/attendance-backend-go/internal/service/attendance"
)

// Recipients are the addresses the monthly report goes to.
type Recipients struct {
	HR string
	MD string
}

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	roster     employee.RosterSource
	email      email.EmailService
	storage    storage.FileStorage
	calculator *attendanceService.PeriodCalculator
	recipients Recipients
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	roster employee.RosterSource,
	emailService email.EmailService,
	fileStorage storage.FileStorage,
	recipients Recipients,
	loc *time.Location,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		roster:               roster,
		email:                emailService,
		storage:              fileStorage,
		calculator:           attendanceService.NewPeriodCalculator(),
		recipients:           recipients,
		loc:                  loc,
		now:                  time.Now,
	}
}

var _ report.ReportService = (*ReportServiceImpl)(nil)

// WithClock replaces the service clock.
func (s *ReportServiceImpl) WithClock(now func() time.Time) *ReportServiceImpl {
	s.now = now
	return s
}

// SendMonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) SendMonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReportResult, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyReportResult{}, err
	}

	year, month := req.Year, time.Month(req.Month)
	if req.Month == 0 {
		year, month = report.PreviousMonth(s.now().In(s.loc))
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	events, err := s.AttendanceRepository.ListBetween(ctx, from, to)
	if err != nil {
		return report.MonthlyReportResult{}, fmt.Errorf("failed to get attendance data: %w", err)
	}
	if len(events) == 0 {
		slog.Info("No attendance data for monthly report", "year", year, "month", int(month))
		return report.MonthlyReportResult{}, report.ErrNoDataFound
	}

	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(s.loc)
	}

	data, err := attendanceService.EncodeEventsCSV(events)
	if err != nil {
		return report.MonthlyReportResult{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	result := report.MonthlyReportResult{
		Year:     year,
		Month:    int(month),
		Rows:     len(events),
		Filename: fmt.Sprintf("attendance_%d_%02d.csv", year, int(month)),
	}

	// the stored copy is best effort; the email is what HR relies on
	key, err := s.storage.Upload(ctx, bytes.NewReader(data), "reports/"+result.Filename, "text/csv")
	if err != nil {
		slog.Error("Failed to store monthly report copy", "filename", result.Filename, "error", err)
	} else {
		result.StoredAt = key
	}

	mail := email.MonthlyReportMail{
		To:         []string{s.recipients.HR},
		Period:     from.Format("2006-01"),
		MonthLabel: from.Format("January 2006"),
		Rows:       len(events),
		Employees:  countEmployees(events),
		Attachment: email.Attachment{
			Filename:    result.Filename,
			ContentType: "text/csv",
			Content:     data,
		},
	}
	if s.recipients.MD != "" && s.recipients.MD != s.recipients.HR {
		mail.Cc = []string{s.recipients.MD}
	}
	result.Recipients = len(mail.To) + len(mail.Cc)

	if err := s.email.SendMonthlyReport(ctx, mail); err != nil {
		return report.MonthlyReportResult{}, fmt.Errorf("failed to send monthly report: %w", err)
	}

	slog.Info("Monthly report sent", "period", mail.Period, "rows", result.Rows, "recipients", result.Recipients)
	return result, nil
}

func countEmployees(events []attendance.Event) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		seen[e.EmployeeEmail] = struct{}{}
	}
	return len(seen)
}

// PeriodWorkbook implements report.ReportService.
func (s *ReportServiceImpl) PeriodWorkbook(ctx context.Context, ref time.Time) ([]byte, string, error) {
	period := s.calculator.PeriodFor(ref.In(s.loc))
	from, to := period.Bounds()

	people, err := s.people(ctx)
	if err != nil {
		return nil, "", err
	}

	events, err := s.AttendanceRepository.ListBetween(ctx, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get attendance data: %w", err)
	}

	byEmployee := make(map[string][]attendance.Event)
	for _, e := range events {
		e.Timestamp = e.Timestamp.In(s.loc)
		byEmployee[e.EmployeeEmail] = append(byEmployee[e.EmployeeEmail], e)
	}

	rows := make([]employeePeriod, 0, len(people))
	for _, p := range people {
		summary, err := s.calculator.Summarize(byEmployee[p.Email], period)
		if err != nil {
			return nil, "", fmt.Errorf("failed to summarize attendance for %s: %w", p.Email, err)
		}
		rows = append(rows, employeePeriod{
			EmployeePeriodRow: report.EmployeePeriodRow{
				Name:               p.Name,
				Email:              p.Email,
				WorkingDays:        summary.WorkingDayCount,
				TotalWorkedSeconds: summary.TotalWorkedSeconds,
				TotalLeave:         p.TotalLeave,
			},
			Days: summary.Days,
		})
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	filename := fmt.Sprintf("attendance_period_%s_%s.xlsx",
		period.StartDate.Format(attendance.DateLayout),
		period.EndDate.Format(attendance.DateLayout),
	)
	return data, filename, nil
}

// people returns stored non-HR employees, or the roster when none are stored.
func (s *ReportServiceImpl) people(ctx context.Context) ([]employee.Employee, error) {
	stored, err := s.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var result []employee.Employee
	for _, e := range stored {
		if !e.IsHR() {
			result = append(result, e)
		}
	}
	if len(result) > 0 {
		return result, nil
	}

	for _, entry := range s.roster.All() {
		resolved, err := employee.Resolve(nil, &entry)
		if err != nil {
			return nil, err
		}
		result = append(result, resolved)
	}
	return result, nil
}
