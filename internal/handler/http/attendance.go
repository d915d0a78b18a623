package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	AddManual(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	RecentReport(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// referenceDate reads the optional ?date=YYYY-MM-DD query in loc, defaulting to now.
func referenceDate(r *http.Request, loc *time.Location) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().In(loc), nil
	}
	ref, err := time.ParseInLocation(attendance.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return ref, nil
}

// Record implements AttendanceHandler.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Record attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Checked in successfully"
	if result.Action == string(attendance.ActionCheckOut) {
		message = "Checked out successfully"
	}
	response.Created(w, message, result)
}

// AddManual implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddManual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Manual attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.AddManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance added successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	results, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Report implements AttendanceHandler.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	ref, err := referenceDate(r, h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MyReport(r.Context(), ref)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecentReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecentReport(w http.ResponseWriter, r *http.Request) {
	days := 0
	if d := r.URL.Query().Get("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "days must be a positive number", nil)
			return
		}
		days = parsed
	}

	result, err := h.attendanceService.RecentReport(r.Context(), days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCSV implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ref, err := referenceDate(r, h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, filename, err := h.attendanceService.ExportCSV(r.Context(), ref)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, "text/csv", filename, data)
}
