package employee

import (
	"strings"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/pkg/validator"
)

// CreateEmployeeRequest is submitted by HR to add an employee.
type CreateEmployeeRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	EmployeeNumber string `json:"employee_number"`
	JobRole        string `json:"job_role"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	Aadhar         string `json:"aadhar"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email"})
	}
	if len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	errs = append(errs, validateProfile(r.Phone, r.DOB, r.Gender, r.Aadhar)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEmployeeRequest edits an employee. An empty password keeps the current one.
type UpdateEmployeeRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	EmployeeNumber string `json:"employee_number"`
	JobRole        string `json:"job_role"`
	DOB            string `json:"dob"`
	Gender         string `json:"gender"`
	Aadhar         string `json:"aadhar"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email"})
	}
	if r.Password != "" && len(r.Password) < 6 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 6 characters"})
	}
	errs = append(errs, validateProfile(r.Phone, r.DOB, r.Gender, r.Aadhar)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfile(phone, dob, gender, aadhar string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if phone != "" && !validator.IsValidPhoneNumber(phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: ErrInvalidPhoneNumber.Error()})
	}
	if dob != "" {
		if _, ok := validator.IsValidDate(dob); !ok {
			errs = append(errs, validator.ValidationError{Field: "dob", Message: "dob must be in YYYY-MM-DD format"})
		}
	}
	if gender != "" && !validator.IsInSlice(gender, []string{string(Male), string(Female)}) {
		errs = append(errs, validator.ValidationError{Field: "gender", Message: ErrInvalidGender.Error()})
	}
	if aadhar != "" && !validator.IsValidAadhar(aadhar) {
		errs = append(errs, validator.ValidationError{Field: "aadhar", Message: "aadhar must be 12 digits"})
	}
	return errs
}

// ParseOptionalDate parses a validated "YYYY-MM-DD" value; empty yields nil.
func ParseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := validator.IsValidDate(s)
	if !ok {
		return nil
	}
	return &t
}

type EmployeeResponse struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	Photo          string  `json:"photo"`
	JobRole        string  `json:"job_role"`
	Phone          string  `json:"phone,omitempty"`
	ParentPhone    string  `json:"parent_phone,omitempty"`
	DOB            *string `json:"dob,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	EmployeeNumber string  `json:"employee_number,omitempty"`
	Aadhar         string  `json:"aadhar,omitempty"`
	JoiningDate    *string `json:"joining_date,omitempty"`
	Native         string  `json:"native,omitempty"`
	Address        string  `json:"address,omitempty"`
	PanCard        string  `json:"pan_card,omitempty"`
	BankDetails    string  `json:"bank_details,omitempty"`
	TotalLeave     int     `json:"total_leave"`
	TotalWorking   int     `json:"total_working"`
	PresentToday   *bool   `json:"present_today,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		Name:           e.Name,
		Email:          e.Email,
		Role:           string(e.Role),
		Photo:          e.Photo,
		JobRole:        e.JobRole,
		Phone:          e.Phone,
		ParentPhone:    e.ParentPhone,
		DOB:            formatDate(e.DOB),
		Gender:         string(e.Gender),
		EmployeeNumber: e.EmployeeNumber,
		Aadhar:         e.Aadhar,
		JoiningDate:    formatDate(e.JoiningDate),
		Native:         e.Native,
		Address:        e.Address,
		PanCard:        e.PanCard,
		BankDetails:    e.BankDetails,
		TotalLeave:     e.TotalLeave,
		TotalWorking:   e.TotalWorking,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
