package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zugo-hr/attendance-backend-go/internal/config"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakeAttendanceService struct {
	attendance.AttendanceService

	markedDays []time.Time
	resets     int
	cutoffs    []time.Time
	archiveErr error
	markErr    error
}

func (f *fakeAttendanceService) MarkAbsentees(_ context.Context, day time.Time) (int, error) {
	f.markedDays = append(f.markedDays, day)
	return 3, f.markErr
}

func (f *fakeAttendanceService) ResetTotals(context.Context) error {
	f.resets++
	return nil
}

func (f *fakeAttendanceService) Archive(_ context.Context, cutoff time.Time) (attendance.ArchiveResult, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.archiveErr != nil {
		return attendance.ArchiveResult{Cutoff: cutoff}, f.archiveErr
	}
	return attendance.ArchiveResult{Cutoff: cutoff, Archived: 10, ObjectKey: "archive/x.csv"}, nil
}

type fakeReportService struct {
	report.ReportService

	calls int
	err   error
}

func (f *fakeReportService) SendMonthlyReport(context.Context, report.MonthlyReportRequest) (report.MonthlyReportResult, error) {
	f.calls++
	if f.err != nil {
		return report.MonthlyReportResult{}, f.err
	}
	return report.MonthlyReportResult{Year: 2024, Month: 3, Rows: 42}, nil
}

type recordingNotifier struct {
	infos  []string
	errors []string
}

func (r *recordingNotifier) Info(_ context.Context, message string) error {
	r.infos = append(r.infos, message)
	return nil
}

func (r *recordingNotifier) Error(_ context.Context, message string) error {
	r.errors = append(r.errors, message)
	return nil
}

type jobsFixture struct {
	jobs     *AttendanceJobs
	att      *fakeAttendanceService
	reports  *fakeReportService
	notifier *recordingNotifier
	clock    time.Time
}

func newJobsFixture() *jobsFixture {
	f := &jobsFixture{
		att:      &fakeAttendanceService{},
		reports:  &fakeReportService{},
		notifier: &recordingNotifier{},
	}
	cfg := config.JobsConfig{
		Enabled:          true,
		LeaveMarkingHour: 20,
		MonthlyReportDay: 20,
		ReportHour:       9,
		ArchiveHour:      2,
		ArchiveAfterDays: 365,
	}
	f.jobs = NewAttendanceJobs(f.att, f.reports, f.notifier, cfg, ist).
		WithClock(func() time.Time { return f.clock })
	return f
}

func TestMarkAbsentEmployees_Gating(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()

	f.clock = time.Date(2024, 3, 5, 19, 59, 0, 0, ist)
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	assert.Empty(t, f.att.markedDays)

	f.clock = time.Date(2024, 3, 5, 20, 0, 0, 0, ist)
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	f.clock = time.Date(2024, 3, 5, 20, 45, 0, 0, ist)
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	assert.Len(t, f.att.markedDays, 1, "runs once per day")

	f.clock = time.Date(2024, 3, 6, 20, 15, 0, 0, ist)
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	assert.Len(t, f.att.markedDays, 2)

	assert.Equal(t, []string{
		"Marked 3 employees absent for 2024-03-05",
		"Marked 3 employees absent for 2024-03-06",
	}, f.notifier.infos)
}

func TestMarkAbsentEmployees_UsesOfficeTimezone(t *testing.T) {
	f := newJobsFixture()

	// 14:30 UTC is 20:00 IST
	f.clock = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))
	require.Len(t, f.att.markedDays, 1)
	assert.Equal(t, 20, f.att.markedDays[0].Hour())
}

func TestMarkAbsentEmployees_FailureRetries(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()
	f.att.markErr = errors.New("db down")
	f.clock = time.Date(2024, 3, 5, 20, 0, 0, 0, ist)

	assert.Error(t, f.jobs.MarkAbsentEmployees(ctx))
	require.Len(t, f.notifier.errors, 1)
	assert.Contains(t, f.notifier.errors[0], "db down")

	f.att.markErr = nil
	f.clock = time.Date(2024, 3, 5, 20, 15, 0, 0, ist)
	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))
	assert.Len(t, f.att.markedDays, 2)
}

func TestSendMonthlyReport(t *testing.T) {
	tests := []struct {
		name      string
		clock     time.Time
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"wrong day", time.Date(2024, 4, 19, 9, 0, 0, 0, ist), nil, 0, false},
		{"wrong hour", time.Date(2024, 4, 20, 10, 0, 0, 0, ist), nil, 0, false},
		{"due", time.Date(2024, 4, 20, 9, 10, 0, 0, ist), nil, 1, false},
		{"no data is not a failure", time.Date(2024, 4, 20, 9, 10, 0, 0, ist), report.ErrNoDataFound, 1, false},
		{"send failure", time.Date(2024, 4, 20, 9, 10, 0, 0, ist), errors.New("smtp down"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newJobsFixture()
			f.clock = tt.clock
			f.reports.err = tt.err

			err := f.jobs.SendMonthlyReport(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Len(t, f.notifier.errors, 1)
			} else {
				assert.NoError(t, err)
				assert.Empty(t, f.notifier.errors)
			}
			assert.Equal(t, tt.wantCalls, f.reports.calls)
		})
	}
}

func TestResetPeriodTotals(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()

	f.clock = time.Date(2024, 3, 20, 23, 30, 0, 0, ist)
	require.NoError(t, f.jobs.ResetPeriodTotals(ctx))
	assert.Equal(t, 0, f.att.resets)

	f.clock = time.Date(2024, 3, 21, 0, 5, 0, 0, ist)
	require.NoError(t, f.jobs.ResetPeriodTotals(ctx))
	require.NoError(t, f.jobs.ResetPeriodTotals(ctx))
	assert.Equal(t, 1, f.att.resets)
}

func TestArchiveOldAttendance(t *testing.T) {
	f := newJobsFixture()
	ctx := context.Background()

	f.clock = time.Date(2025, 3, 5, 2, 0, 0, 0, ist)
	require.NoError(t, f.jobs.ArchiveOldAttendance(ctx))
	require.Len(t, f.att.cutoffs, 1)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, ist), f.att.cutoffs[0])
	assert.Contains(t, f.notifier.infos[0], "Archived 10 attendance records")

	f.clock = time.Date(2025, 3, 6, 2, 0, 0, 0, ist)
	f.att.archiveErr = attendance.ErrNothingToArchive
	require.NoError(t, f.jobs.ArchiveOldAttendance(ctx))
	assert.Len(t, f.notifier.infos, 1)
	assert.Empty(t, f.notifier.errors)
}

func TestRegisterJobs(t *testing.T) {
	f := newJobsFixture()
	s := NewScheduler(context.Background())
	f.jobs.RegisterJobs(s)

	assert.Equal(t, []string{JobMarkAbsent, JobMonthlyReport, JobResetTotals, JobArchive}, s.Jobs())

	f.jobs.cfg.ArchiveAfterDays = 0
	s = NewScheduler(context.Background())
	f.jobs.RegisterJobs(s)
	assert.NotContains(t, s.Jobs(), JobArchive)
}
