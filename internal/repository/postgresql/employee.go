package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/employee"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/database"
)

const employeeColumns = `
	id, name, email, password_hash, role, photo, job_role, phone, parent_phone, dob, gender,
	employee_number, aadhar, joining_date, native, address, pan_card, bank_details,
	total_leave, total_working, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Role, &emp.Photo, &emp.JobRole,
		&emp.Phone, &emp.ParentPhone, &emp.DOB, &emp.Gender,
		&emp.EmployeeNumber, &emp.Aadhar, &emp.JoiningDate, &emp.Native, &emp.Address, &emp.PanCard, &emp.BankDetails,
		&emp.TotalLeave, &emp.TotalWorking, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func mapEmployeeWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		if pgErr.ConstraintName == "idx_employees_name_lower" {
			return employee.ErrNameExists
		}
		return employee.ErrEmailExists
	}
	return err
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email = LOWER($1)`

	emp, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", email, err)
	}
	return emp, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		newEmployee.ID = uuid.New().String()
	}

	query := `
		INSERT INTO employees (
			id, name, email, password_hash, role, photo, job_role, phone, parent_phone, dob, gender,
			employee_number, aadhar, joining_date, native, address, pan_card, bank_details,
			total_leave, total_working
		) VALUES (
			$1, $2, LOWER($3), $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18,
			$19, $20
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.Name, newEmployee.Email, newEmployee.PasswordHash, newEmployee.Role,
		newEmployee.Photo, newEmployee.JobRole, newEmployee.Phone, newEmployee.ParentPhone, newEmployee.DOB, newEmployee.Gender,
		newEmployee.EmployeeNumber, newEmployee.Aadhar, newEmployee.JoiningDate, newEmployee.Native,
		newEmployee.Address, newEmployee.PanCard, newEmployee.BankDetails,
		newEmployee.TotalLeave, newEmployee.TotalWorking,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapEmployeeWriteError(err))
	}

	return created, nil
}

// Update implements employee.EmployeeRepository. Attendance rows follow an
// email change so the employee keeps their history.
func (r *employeeRepositoryImpl) Update(ctx context.Context, currentEmail string, e employee.Employee) (employee.Employee, error) {
	var updated employee.Employee

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			UPDATE employees SET
				name = $2,
				email = LOWER($3),
				password_hash = COALESCE(NULLIF($4, ''), password_hash),
				photo = $5,
				job_role = $6,
				phone = $7,
				parent_phone = $8,
				dob = $9,
				gender = $10,
				employee_number = $11,
				aadhar = $12,
				updated_at = NOW()
			WHERE email = LOWER($1)
			RETURNING ` + employeeColumns

		var err error
		updated, err = scanEmployee(q.QueryRow(ctx, query,
			currentEmail, e.Name, e.Email, e.PasswordHash, e.Photo, e.JobRole,
			e.Phone, e.ParentPhone, e.DOB, e.Gender, e.EmployeeNumber, e.Aadhar,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to update employee %s: %w", currentEmail, mapEmployeeWriteError(err))
		}

		if updated.Email != currentEmail {
			_, err = q.Exec(ctx, `UPDATE attendance_events SET employee_email = $2 WHERE employee_email = $1`, currentEmail, updated.Email)
			if err != nil {
				return fmt.Errorf("failed to move attendance to %s: %w", updated.Email, err)
			}
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, email string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE email = LOWER($1)`, email)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE email = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// ExistsByName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeEmail string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(name) = LOWER($1) AND email <> LOWER($2))`

	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee name: %w", err)
	}
	return exists, nil
}

// SetTotalWorking implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetTotalWorking(ctx context.Context, email string, days int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET total_working = $2, updated_at = NOW() WHERE email = LOWER($1)`, email, days)
	if err != nil {
		return fmt.Errorf("failed to set total working for %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// IncrementLeave implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) IncrementLeave(ctx context.Context, email string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE employees SET total_leave = total_leave + 1, updated_at = NOW() WHERE email = LOWER($1)`, email)
	if err != nil {
		return fmt.Errorf("failed to increment leave for %s: %w", email, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ResetTotals implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ResetTotals(ctx context.Context) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE employees SET total_leave = 0, total_working = 0, updated_at = NOW()`); err != nil {
		return fmt.Errorf("failed to reset totals: %w", err)
	}
	return nil
}
