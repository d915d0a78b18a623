package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// HRAccount is the account created by Seed.
type HRAccount struct {
	Name     string
	Email    string
	Password string
}

type EmployeeServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	roster         employee.RosterSource
	hr             HRAccount
	loc            *time.Location
	now            func() time.Time
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	roster employee.RosterSource,
	hr HRAccount,
	loc *time.Location,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		roster:         roster,
		hr:             hr,
		loc:            loc,
		now:            time.Now,
	}
}

var _ employee.EmployeeService = (*EmployeeServiceImpl)(nil)

// WithClock replaces the service clock.
func (s *EmployeeServiceImpl) WithClock(now func() time.Time) *EmployeeServiceImpl {
	s.now = now
	return s
}

// resolve merges the stored record and roster entry for email.
func (s *EmployeeServiceImpl) resolve(ctx context.Context, email string) (employee.Employee, error) {
	var stored *employee.Employee
	found, err := s.employeeRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		stored = &found
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	var fallback *employee.RosterEntry
	if entry, ok := s.roster.Lookup(email); ok {
		fallback = &entry
	}

	return employee.Resolve(stored, fallback)
}

func (s *EmployeeServiceImpl) presentToday(ctx context.Context) (map[string]bool, error) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	emails, err := s.attendanceRepo.CheckedInEmails(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's check-ins: %w", err)
	}

	present := make(map[string]bool, len(emails))
	for _, e := range emails {
		present[e] = true
	}
	return present, nil
}

func withPresence(e employee.Employee, present map[string]bool) employee.EmployeeResponse {
	resp := employee.NewEmployeeResponse(e)
	p := present[e.Email]
	resp.PresentToday = &p
	return resp
}

// Me implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Me(ctx context.Context) (employee.EmployeeResponse, error) {
	claims, err := jwt.Caller(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.resolve(ctx, claims.Email)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// GetByEmail implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetByEmail(ctx context.Context, email string) (employee.EmployeeResponse, error) {
	if _, err := jwt.RequireHR(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e, err := s.resolve(ctx, email)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	present, err := s.presentToday(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return withPresence(e, present), nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	if _, err := jwt.RequireHR(ctx); err != nil {
		return nil, err
	}

	stored, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var employees []employee.Employee
	for _, st := range stored {
		if st.IsHR() {
			continue
		}
		var fallback *employee.RosterEntry
		if entry, ok := s.roster.Lookup(st.Email); ok {
			fallback = &entry
		}
		merged, err := employee.Resolve(&st, fallback)
		if err != nil {
			return nil, err
		}
		employees = append(employees, merged)
	}

	if len(employees) == 0 {
		for _, entry := range s.roster.All() {
			merged, err := employee.Resolve(nil, &entry)
			if err != nil {
				return nil, err
			}
			employees = append(employees, merged)
		}
	}

	present, err := s.presentToday(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, withPresence(e, present))
	}
	return responses, nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := jwt.RequireHR(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.checkUnique(ctx, req.Email, req.Name, ""); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	jobRole := req.JobRole
	if jobRole == "" {
		jobRole = employee.DefaultJobRole
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   string(hash),
		Role:           employee.RoleEmployee,
		Photo:          employee.DefaultPhoto,
		JobRole:        jobRole,
		Phone:          req.Phone,
		DOB:            employee.ParseOptionalDate(req.DOB),
		Gender:         employee.Gender(req.Gender),
		EmployeeNumber: req.EmployeeNumber,
		Aadhar:         req.Aadhar,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee created", "email", created.Email)
	return employee.NewEmployeeResponse(created), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, email string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := jwt.RequireHR(ctx); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.checkUnique(ctx, req.Email, req.Name, current.Email); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var hash string
	if req.Password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(b)
	}

	changes := current
	changes.Name = req.Name
	changes.Email = req.Email
	changes.PasswordHash = hash
	changes.Phone = req.Phone
	changes.EmployeeNumber = req.EmployeeNumber
	changes.Aadhar = req.Aadhar
	changes.DOB = employee.ParseOptionalDate(req.DOB)
	changes.Gender = employee.Gender(req.Gender)
	if req.JobRole != "" {
		changes.JobRole = req.JobRole
	}

	updated, err := s.employeeRepo.Update(ctx, current.Email, changes)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	slog.Info("Employee updated", "email", current.Email, "new_email", updated.Email)
	return employee.NewEmployeeResponse(updated), nil
}

// checkUnique rejects an email or case-insensitive name already used by
// someone other than self.
func (s *EmployeeServiceImpl) checkUnique(ctx context.Context, email, name, self string) error {
	if email != self {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return employee.ErrEmailExists
		}
	}

	exists, err := s.employeeRepo.ExistsByName(ctx, name, self)
	if err != nil {
		return fmt.Errorf("failed to check name: %w", err)
	}
	if exists {
		return employee.ErrNameExists
	}
	return nil
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, email string) error {
	if _, err := jwt.RequireHR(ctx); err != nil {
		return err
	}

	target, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if target.IsHR() {
		return employee.ErrCannotDeleteHR
	}

	if err := s.employeeRepo.Delete(ctx, target.Email); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	slog.Info("Employee deleted", "email", target.Email)
	return nil
}

// Seed implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Seed(ctx context.Context) error {
	if s.hr.Email == "" {
		return nil
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, s.hr.Email)
	if err != nil {
		return fmt.Errorf("failed to check HR account: %w", err)
	}
	if exists {
		return nil
	}
	if s.hr.Password == "" {
		slog.Warn("HR account missing and HR_PASSWORD is empty, skipping seed", "email", s.hr.Email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.hr.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash HR password: %w", err)
	}

	name := s.hr.Name
	if name == "" {
		name = "HR"
	}

	_, err = s.employeeRepo.Create(ctx, employee.Employee{
		Name:         name,
		Email:        s.hr.Email,
		PasswordHash: string(hash),
		Role:         employee.RoleHR,
		Photo:        employee.DefaultPhoto,
		JobRole:      "HR",
	})
	if err != nil {
		return fmt.Errorf("failed to create HR account: %w", err)
	}

	slog.Info("HR account seeded", "email", s.hr.Email)
	return nil
}
