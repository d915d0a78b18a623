package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// Record stores a geofenced check-in or check-out for the caller.
	Record(ctx context.Context, req CheckRequest) (EventResponse, error)
	// AddManual stores an HR-entered record, bypassing geofence and windows.
	AddManual(ctx context.Context, req ManualAttendanceRequest) (EventResponse, error)
	Today(ctx context.Context) ([]EventResponse, error)
	MyReport(ctx context.Context, ref time.Time) (PeriodReportResponse, error)
	RecentReport(ctx context.Context, days int) (PeriodReportResponse, error)
	// ExportCSV returns the caller's period report as CSV plus a file name.
	ExportCSV(ctx context.Context, ref time.Time) ([]byte, string, error)

	MarkAbsentees(ctx context.Context, day time.Time) (int, error)
	ResetTotals(ctx context.Context) error
	Archive(ctx context.Context, cutoff time.Time) (ArchiveResult, error)
}
