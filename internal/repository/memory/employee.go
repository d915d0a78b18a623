// Package memory holds in-process repositories used by tests and local runs
// without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
)

type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	events    *AttendanceStore
	now       func() time.Time
}

func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{
		employees: make(map[string]employee.Employee),
		now:       time.Now,
	}
}

var _ employee.EmployeeRepository = (*EmployeeStore)(nil)

// LinkAttendance makes email changes carry the employee's events along.
func (s *EmployeeStore) LinkAttendance(events *AttendanceStore) *EmployeeStore {
	s.events = events
	return s
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *EmployeeStore) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[key(email)]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *EmployeeStore) List(ctx context.Context) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *EmployeeStore) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Email = key(e.Email)
	if _, ok := s.employees[e.Email]; ok {
		return employee.Employee{}, employee.ErrEmailExists
	}
	if s.nameTaken(e.Name, "") {
		return employee.Employee{}, employee.ErrNameExists
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = s.now()
	e.UpdatedAt = e.CreatedAt
	s.employees[e.Email] = e
	return e, nil
}

func (s *EmployeeStore) Update(ctx context.Context, currentEmail string, e employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.employees[key(currentEmail)]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	e.Email = key(e.Email)
	if e.Email != current.Email {
		if _, taken := s.employees[e.Email]; taken {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}
	if s.nameTaken(e.Name, current.Email) {
		return employee.Employee{}, employee.ErrNameExists
	}

	current.Name = e.Name
	current.Email = e.Email
	if e.PasswordHash != "" {
		current.PasswordHash = e.PasswordHash
	}
	current.Photo = e.Photo
	current.JobRole = e.JobRole
	current.Phone = e.Phone
	current.ParentPhone = e.ParentPhone
	current.DOB = e.DOB
	current.Gender = e.Gender
	current.EmployeeNumber = e.EmployeeNumber
	current.Aadhar = e.Aadhar
	current.UpdatedAt = s.now()

	delete(s.employees, key(currentEmail))
	s.employees[current.Email] = current
	if s.events != nil && key(currentEmail) != current.Email {
		s.events.Rename(currentEmail, current.Email)
	}
	return current, nil
}

func (s *EmployeeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[key(email)]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(s.employees, key(email))
	return nil
}

func (s *EmployeeStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.employees[key(email)]
	return ok, nil
}

func (s *EmployeeStore) ExistsByName(ctx context.Context, name string, excludeEmail string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nameTaken(name, key(excludeEmail)), nil
}

// nameTaken must be called with the lock held.
func (s *EmployeeStore) nameTaken(name, excludeEmail string) bool {
	for email, e := range s.employees {
		if email != excludeEmail && strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func (s *EmployeeStore) SetTotalWorking(ctx context.Context, email string, days int) error {
	return s.modify(email, func(e *employee.Employee) { e.TotalWorking = days })
}

func (s *EmployeeStore) IncrementLeave(ctx context.Context, email string) error {
	return s.modify(email, func(e *employee.Employee) { e.TotalLeave++ })
}

func (s *EmployeeStore) ResetTotals(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, e := range s.employees {
		e.TotalLeave = 0
		e.TotalWorking = 0
		s.employees[k] = e
	}
	return nil
}

func (s *EmployeeStore) modify(email string, fn func(e *employee.Employee)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[key(email)]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	fn(&e)
	e.UpdatedAt = s.now()
	s.employees[key(email)] = e
	return nil
}
