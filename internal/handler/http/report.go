package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
	"github.com/zugo-hr/attendance-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	PeriodWorkbook(w http.ResponseWriter, r *http.Request)
	SendMonthly(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	loc           *time.Location
}

func NewReportHandler(reportService report.ReportService, loc *time.Location) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
		loc:           loc,
	}
}

// PeriodWorkbook implements ReportHandler.
func (h *reportHandlerImpl) PeriodWorkbook(w http.ResponseWriter, r *http.Request) {
	ref, err := referenceDate(r, h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, filename, err := h.reportService.PeriodWorkbook(r.Context(), ref)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, xlsxContentType, filename, data)
}

// SendMonthly implements ReportHandler. An empty body sends the previous month.
func (h *reportHandlerImpl) SendMonthly(w http.ResponseWriter, r *http.Request) {
	var req report.MonthlyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Send monthly report decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.SendMonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly report sent", result)
}
