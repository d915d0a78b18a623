package employee

import "context"

type EmployeeService interface {
	// Me returns the caller's resolved profile.
	Me(ctx context.Context) (EmployeeResponse, error)
	GetByEmail(ctx context.Context, email string) (EmployeeResponse, error)
	// List returns non-HR employees with today's presence flag.
	List(ctx context.Context) ([]EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, email string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, email string) error
	// Seed creates the HR account when it does not exist yet.
	Seed(ctx context.Context) error
}
