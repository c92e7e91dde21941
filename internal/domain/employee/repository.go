package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// Create assigns the next employee code of the role and inserts the employee.
	Create(ctx context.Context, newEmployee Employee) (Employee, error)

	// ListByRole returns employees of a role ordered by employee code.
	ListByRole(ctx context.Context, role user.Role) ([]Employee, error)
}
