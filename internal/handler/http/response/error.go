package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/auth"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/report"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var invalidInput *attendance.InvalidInputError
	if errors.As(err, &invalidInput) {
		BadRequest(w, invalidInput.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrNotAuthorized):
		Forbidden(w, "Email not authorized. Please contact HR")
	case errors.Is(err, auth.ErrHRAccessRequired):
		Forbidden(w, "HR access required")
	case errors.Is(err, auth.ErrAlreadyRegistered):
		Conflict(w, "Email already registered. Please log in")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already exists")
	case errors.Is(err, employee.ErrNameExists):
		Conflict(w, "Employee name already exists")
	case errors.Is(err, employee.ErrCannotDeleteHR):
		Forbidden(w, "Cannot delete HR account")
	case errors.Is(err, employee.ErrInvalidPhoneNumber),
		errors.Is(err, employee.ErrInvalidGender):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutsideOffice):
		Forbidden(w, "You are not within the office location")
	case errors.Is(err, attendance.ErrCheckInWindowClosed),
		errors.Is(err, attendance.ErrCheckOutTooEarly):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidInput):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrNothingToArchive):
		NotFound(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())
	case errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidYear):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
