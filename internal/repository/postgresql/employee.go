package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const employeeColumns = `id, employee_code, name, email, password_hash, role, department, created_at, updated_at`

// Codes are compared by length first so EMP1000 sorts after EMP999.
const employeeCodeOrder = `length(employee_code), employee_code`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.getOne(ctx, "email", email)
}

// GetByEmployeeCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return e.getOne(ctx, "employee_code", employeeCode)
}

// column is always one of the constants above, never user input.
func (e *employeeRepositoryImpl) getOne(ctx context.Context, column, value string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE ` + column + ` = $1`

	found, err := scanEmployee(q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by %s: %w", column, err)
	}
	return found, nil
}

// Create implements employee.EmployeeRepository.
//
// Code assignment is serialized with a transaction-scoped advisory lock so two
// registrations never compute the same next code.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	var created employee.Employee

	// A zero CreatedAt means "now"; backfilled accounts pass their join time.
	var createdAt *time.Time
	if !newEmployee.CreatedAt.IsZero() {
		createdAt = &newEmployee.CreatedAt
	}

	err := WithTransaction(ctx, e.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, e.db)

		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('employees.employee_code'))`); err != nil {
			return fmt.Errorf("failed to lock employee codes: %w", err)
		}

		var lastCode string
		err := q.QueryRow(ctx, `
			SELECT employee_code
			FROM employees
			WHERE role = $1
			ORDER BY `+employeeCodeOrder+` DESC
			LIMIT 1
		`, string(newEmployee.Role)).Scan(&lastCode)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to get last employee code: %w", err)
		}
		newEmployee.EmployeeCode = employee.NextEmployeeCode(newEmployee.Role, lastCode)

		query := `
			INSERT INTO employees (id, employee_code, name, email, password_hash, role, department, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
			RETURNING ` + employeeColumns

		created, err = scanEmployee(q.QueryRow(ctx, query,
			newEmployee.ID,
			newEmployee.EmployeeCode,
			newEmployee.Name,
			newEmployee.Email,
			newEmployee.PasswordHash,
			string(newEmployee.Role),
			newEmployee.Department,
			createdAt,
		))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				if pgErr.ConstraintName == "employees_email_key" {
					return employee.ErrEmailExists
				}
				return employee.ErrEmployeeCodeExists
			}
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return employee.Employee{}, err
	}

	return created, nil
}

// ListByRole implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByRole(ctx context.Context, role user.Role) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE role = $1
		ORDER BY ` + employeeCodeOrder

	rows, err := q.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp  employee.Employee
		role string
	)
	err := row.Scan(
		&emp.ID,
		&emp.EmployeeCode,
		&emp.Name,
		&emp.Email,
		&emp.PasswordHash,
		&role,
		&emp.Department,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	emp.Role = user.Role(role)
	return emp, nil
}
