package report

import (
	"context"
	"time"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// SendMonthlyReport emails the raw attendance of one calendar month to HR and MD.
	SendMonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReportResult, error)

	// PeriodWorkbook builds an XLSX summary of the period containing ref.
	PeriodWorkbook(ctx context.Context, ref time.Time) ([]byte, string, error)
}
