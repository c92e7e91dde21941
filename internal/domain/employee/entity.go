package employee

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// Employee is a person who can sign in. Employees check in and out, managers
// oversee them.
type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	PasswordHash string
	Role         user.Role
	Department   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member converts the employee into an aggregation roster entry. The join
// day is the creation time read in loc.
func (e Employee) Member(loc *time.Location) attendance.Member {
	m := attendance.Member{
		EmployeeID:   e.ID,
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Email:        e.Email,
		Department:   e.Department,
	}
	if !e.CreatedAt.IsZero() {
		joined := e.CreatedAt
		if loc != nil {
			joined = joined.In(loc)
		}
		m.JoinedOn = attendance.DateOf(joined)
	}
	return m
}

func Roster(employees []Employee, loc *time.Location) []attendance.Member {
	members := make([]attendance.Member, 0, len(employees))
	for _, e := range employees {
		members = append(members, e.Member(loc))
	}
	return members
}

// NextEmployeeCode returns the code following lastCode for the role, e.g.
// EMP007 after EMP006. An empty or malformed lastCode starts at 001.
func NextEmployeeCode(role user.Role, lastCode string) string {
	prefix := role.CodePrefix()
	next := 1
	if digits := strings.TrimPrefix(lastCode, prefix); digits != lastCode {
		if n, err := strconv.Atoi(digits); err == nil && n >= 0 {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next)
}
