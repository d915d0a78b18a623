package employee

import "context"

type EmployeeRepository interface {
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// List returns every stored employee ordered by name.
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	// Update replaces the profile of the employee stored under currentEmail.
	// An empty PasswordHash keeps the stored hash.
	Update(ctx context.Context, currentEmail string, e Employee) (Employee, error)
	Delete(ctx context.Context, email string) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByName matches case-insensitively, ignoring the employee at excludeEmail.
	ExistsByName(ctx context.Context, name string, excludeEmail string) (bool, error)

	SetTotalWorking(ctx context.Context, email string, days int) error
	IncrementLeave(ctx context.Context, email string) error
	ResetTotals(ctx context.Context) error
}
