package fixtures

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
)

// ==========================================
// EMPLOYEES
// ==========================================

// MemoryEmployeeRepository is an in-process employee.EmployeeRepository.
type MemoryEmployeeRepository struct {
	mu        sync.Mutex
	employees []employee.Employee
	Err       error            // returned by every call when set
	Now       func() time.Time // creation time of new employees, time.Now when nil
}

func NewMemoryEmployeeRepository(seed ...employee.Employee) *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: append([]employee.Employee(nil), seed...)}
}

func (m *MemoryEmployeeRepository) find(match func(employee.Employee) bool) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return employee.Employee{}, m.Err
	}
	for _, e := range m.employees {
		if match(e) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *MemoryEmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	return m.find(func(e employee.Employee) bool { return e.ID == id })
}

func (m *MemoryEmployeeRepository) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	return m.find(func(e employee.Employee) bool { return strings.EqualFold(e.Email, email) })
}

func (m *MemoryEmployeeRepository) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	return m.find(func(e employee.Employee) bool { return e.EmployeeCode == code })
}

func (m *MemoryEmployeeRepository) Create(_ context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return employee.Employee{}, m.Err
	}

	last := ""
	for _, e := range m.employees {
		if strings.EqualFold(e.Email, newEmployee.Email) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		if e.Role == newEmployee.Role && codeLess(last, e.EmployeeCode) {
			last = e.EmployeeCode
		}
	}

	newEmployee.EmployeeCode = employee.NextEmployeeCode(newEmployee.Role, last)
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	if newEmployee.CreatedAt.IsZero() {
		newEmployee.CreatedAt = now
	}
	newEmployee.UpdatedAt = now
	m.employees = append(m.employees, newEmployee)
	return newEmployee, nil
}

func (m *MemoryEmployeeRepository) ListByRole(_ context.Context, role user.Role) ([]employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]employee.Employee, 0)
	for _, e := range m.employees {
		if e.Role == role {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b employee.Employee) int {
		if codeLess(a.EmployeeCode, b.EmployeeCode) {
			return -1
		}
		if codeLess(b.EmployeeCode, a.EmployeeCode) {
			return 1
		}
		return 0
	})
	return out, nil
}

func codeLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// ==========================================
// ATTENDANCE
// ==========================================

// MemoryAttendanceRepository is an in-process attendance.AttendanceRepository
// with the same conflict rules as the PostgreSQL one.
type MemoryAttendanceRepository struct {
	mu        sync.Mutex
	records   []attendance.Record
	employees *MemoryEmployeeRepository
	now       func() time.Time
	Err       error // returned by every call when set
}

// NewMemoryAttendanceRepository joins employee fields from employees when it is not nil.
func NewMemoryAttendanceRepository(employees *MemoryEmployeeRepository, seed ...attendance.Record) *MemoryAttendanceRepository {
	return &MemoryAttendanceRepository{
		records:   append([]attendance.Record(nil), seed...),
		employees: employees,
		now:       time.Now,
	}
}

func (m *MemoryAttendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if i := m.index(employeeID, date); i >= 0 {
		r := m.records[i]
		return &r, nil
	}
	return nil, nil
}

func (m *MemoryAttendanceRepository) UpsertCheckIn(_ context.Context, record attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return attendance.Record{}, m.Err
	}

	now := m.now()
	record.Date = attendance.DateOf(record.Date)
	if i := m.index(record.EmployeeID, record.Date); i >= 0 {
		existing := m.records[i]
		if existing.CheckIn != nil {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = record.CheckIn
		existing.Status = record.Status
		existing.UpdatedAt = now
		m.records[i] = existing
		return existing, nil
	}

	record.TotalHours = 0
	record.CheckOut = nil
	record.CreatedAt, record.UpdatedAt = now, now
	m.records = append(m.records, record)
	return record, nil
}

func (m *MemoryAttendanceRepository) CompleteCheckOut(_ context.Context, record attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return attendance.Record{}, m.Err
	}
	for i, existing := range m.records {
		if existing.ID != record.ID {
			continue
		}
		if existing.CheckIn == nil || existing.CheckOut != nil {
			return attendance.Record{}, attendance.ErrAlreadyCheckedOut
		}
		existing.CheckOut = record.CheckOut
		existing.TotalHours = record.TotalHours
		existing.Status = record.Status
		existing.UpdatedAt = m.now()
		m.records[i] = existing
		return existing, nil
	}
	return attendance.Record{}, attendance.ErrAlreadyCheckedOut
}

func (m *MemoryAttendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]attendance.Record, 0)
	for _, r := range m.records {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && r.Date.Before(attendance.DateOf(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && r.Date.After(attendance.DateOf(*filter.EndDate)) {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, m.join(ctx, r))
	}

	attendance.SortForDisplay(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *MemoryAttendanceRepository) CountOpen(_ context.Context, date time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	key := attendance.DateKey(date)
	count := 0
	for _, r := range m.records {
		if attendance.DateKey(r.Date) == key && r.IsOpen() {
			count++
		}
	}
	return count, nil
}

// Records returns a copy of everything stored.
func (m *MemoryAttendanceRepository) Records() []attendance.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]attendance.Record(nil), m.records...)
}

func (m *MemoryAttendanceRepository) index(employeeID string, date time.Time) int {
	key := attendance.DateKey(date)
	for i, r := range m.records {
		if r.EmployeeID == employeeID && attendance.DateKey(r.Date) == key {
			return i
		}
	}
	return -1
}

func (m *MemoryAttendanceRepository) join(ctx context.Context, r attendance.Record) attendance.Record {
	if m.employees == nil {
		return r
	}
	e, err := m.employees.GetByID(ctx, r.EmployeeID)
	if err != nil {
		return r
	}
	r.EmployeeCode = &e.EmployeeCode
	r.EmployeeName = &e.Name
	r.EmployeeEmail = &e.Email
	r.EmployeeDepartment = &e.Department
	return r
}
