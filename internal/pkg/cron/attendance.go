package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/config"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/notify"
)

const (
	JobMarkAbsent    = "mark_absent_employees"
	JobMonthlyReport = "send_monthly_report"
	JobResetTotals   = "reset_period_totals"
	JobArchive       = "archive_old_attendance"

	// checkInterval is shorter than an hour so ticker drift never skips a gated hour
	checkInterval = 15 * time.Minute

	periodStartDay = 21
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	reportSvc     report.ReportService
	notifier      notify.Notifier
	cfg           config.JobsConfig
	loc           *time.Location
	now           func() time.Time

	mu      sync.Mutex
	lastRun map[string]string
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	reportSvc report.ReportService,
	notifier notify.Notifier,
	cfg config.JobsConfig,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		reportSvc:     reportSvc,
		notifier:      notifier,
		cfg:           cfg,
		loc:           loc,
		now:           time.Now,
		lastRun:       make(map[string]string),
	}
}

// WithClock replaces the clock used for gating.
func (j *AttendanceJobs) WithClock(now func() time.Time) *AttendanceJobs {
	j.now = now
	return j
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobMarkAbsent, checkInterval, j.MarkAbsentEmployees)
	scheduler.AddJob(JobMonthlyReport, checkInterval, j.SendMonthlyReport)
	scheduler.AddJob(JobResetTotals, checkInterval, j.ResetPeriodTotals)
	if j.cfg.ArchiveAfterDays > 0 {
		scheduler.AddJob(JobArchive, checkInterval, j.ArchiveOldAttendance)
	}
}

// claim reports whether job may run for key and records the run.
func (j *AttendanceJobs) claim(job, key string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.lastRun[job] == key {
		return false
	}
	j.lastRun[job] = key
	return true
}

// release lets a failed job retry on the next tick.
func (j *AttendanceJobs) release(job string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.lastRun, job)
}

func (j *AttendanceJobs) localNow() time.Time {
	return j.now().In(j.loc)
}

func (j *AttendanceJobs) report(ctx context.Context, job string, err error, success string) error {
	if err != nil {
		j.release(job)
		if nerr := j.notifier.Error(ctx, fmt.Sprintf("Cron %s failed: %v", job, err)); nerr != nil {
			slog.Error("Cron: Failed to send notification", "job", job, "error", nerr)
		}
		return err
	}
	if nerr := j.notifier.Info(ctx, success); nerr != nil {
		slog.Error("Cron: Failed to send notification", "job", job, "error", nerr)
	}
	return nil
}

func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.localNow()
	if now.Hour() != j.cfg.LeaveMarkingHour {
		return nil
	}
	day := now.Format(attendance.DateLayout)
	if !j.claim(JobMarkAbsent, day) {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job", "day", day)

	marked, err := j.attendanceSvc.MarkAbsentees(ctx, now)
	if err == nil {
		slog.Info("Cron: Marked absent employees", "count", marked, "day", day)
	}
	return j.report(ctx, JobMarkAbsent, err, fmt.Sprintf("Marked %d employees absent for %s", marked, day))
}

func (j *AttendanceJobs) SendMonthlyReport(ctx context.Context) error {
	now := j.localNow()
	if now.Day() != j.cfg.MonthlyReportDay || now.Hour() != j.cfg.ReportHour {
		return nil
	}
	if !j.claim(JobMonthlyReport, now.Format(attendance.DateLayout)) {
		return nil
	}

	slog.Info("Cron: Starting monthly report job")

	result, err := j.reportSvc.SendMonthlyReport(ctx, report.MonthlyReportRequest{})
	if errors.Is(err, report.ErrNoDataFound) {
		slog.Info("Cron: No attendance data for monthly report, skipping")
		return nil
	}
	return j.report(ctx, JobMonthlyReport, err, fmt.Sprintf(
		"Monthly attendance report %d-%02d sent (%d rows)", result.Year, result.Month, result.Rows))
}

func (j *AttendanceJobs) ResetPeriodTotals(ctx context.Context) error {
	now := j.localNow()
	if now.Day() != periodStartDay || now.Hour() != 0 {
		return nil
	}
	day := now.Format(attendance.DateLayout)
	if !j.claim(JobResetTotals, day) {
		return nil
	}

	slog.Info("Cron: Resetting employee totals for new period", "day", day)

	err := j.attendanceSvc.ResetTotals(ctx)
	return j.report(ctx, JobResetTotals, err, fmt.Sprintf("Employee totals reset for period starting %s", day))
}

func (j *AttendanceJobs) ArchiveOldAttendance(ctx context.Context) error {
	now := j.localNow()
	if j.cfg.ArchiveAfterDays <= 0 || now.Hour() != j.cfg.ArchiveHour {
		return nil
	}
	if !j.claim(JobArchive, now.Format(attendance.DateLayout)) {
		return nil
	}

	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc).AddDate(0, 0, -j.cfg.ArchiveAfterDays)
	slog.Info("Cron: Starting archive job", "cutoff", cutoff)

	result, err := j.attendanceSvc.Archive(ctx, cutoff)
	if errors.Is(err, attendance.ErrNothingToArchive) {
		slog.Info("Cron: Nothing to archive", "cutoff", cutoff)
		return nil
	}
	return j.report(ctx, JobArchive, err, fmt.Sprintf(
		"Archived %d attendance records older than %s to %s",
		result.Archived, cutoff.Format(attendance.DateLayout), result.ObjectKey))
}
