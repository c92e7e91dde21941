package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

const (
	EventCheckedIn  = "attendance.checked_in"
	EventCheckedOut = "attendance.checked_out"
)

// Listener is told about every successful check-in and check-out. Listeners
// must not block and cannot fail the mutation.
type Listener func(ctx context.Context, event string, record attendance.AttendanceResponse)

// Options tune the service. Zero limits mean unlimited.
type Options struct {
	Policy       attendance.Policy
	Aggregator   attendance.Aggregator
	HistoryLimit int
	ListLimit    int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	opts      Options
	clock     clock.Clock
	listeners []Listener
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	today := attendance.DateOf(now)
	checkIn := attendance.NewTimeOfDay(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	// A racing check-in is decided by the store, which answers ErrAlreadyCheckedIn.
	saved, err := a.AttendanceRepository.UpsertCheckIn(ctx, attendance.Record{
		ID:         id.String(),
		EmployeeID: emp.ID,
		Date:       today,
		CheckIn:    &checkIn,
		Status:     a.opts.Policy.ClassifyCheckIn(checkIn),
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	resp := withEmployee(saved, emp)
	a.notify(ctx, EventCheckedIn, resp)
	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	checkOut := attendance.NewTimeOfDay(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, attendance.DateOf(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	switch {
	case existing == nil:
		return attendance.AttendanceResponse{}, attendance.ErrNoCheckInRecord
	case existing.CheckIn == nil:
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedInYet
	case existing.CheckOut != nil:
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	totalHours, status, err := a.opts.Policy.ResolveCheckout(existing.CheckIn, &checkOut, existing.Status)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := *existing
	record.CheckOut = &checkOut
	record.TotalHours = totalHours
	record.Status = status

	saved, err := a.AttendanceRepository.CompleteCheckOut(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	resp := withEmployee(saved, emp)
	a.notify(ctx, EventCheckedOut, resp)
	return resp, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (*attendance.AttendanceResponse, error) {
	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return nil, err
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, attendance.DateOf(a.clock.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	resp := withEmployee(*record, emp)
	return &resp, nil
}

// GetMyHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyHistory(ctx context.Context, query attendance.MonthQuery) (attendance.ListAttendanceResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	period := query.Period(a.clock.Now())
	filter := attendance.Filter{EmployeeID: &emp.ID, Limit: a.opts.HistoryLimit}.WithPeriod(period)

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}

	return attendance.ListAttendanceResponse{
		Count:       len(records),
		Attendances: attendance.ToResponses(records),
	}, nil
}

// GetMySummary implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMySummary(ctx context.Context, query attendance.MonthQuery) (attendance.SummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	emp, err := a.currentEmployee(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	today := a.clock.Now()
	period := query.Period(today)

	records, err := a.AttendanceRepository.List(ctx, attendance.Filter{EmployeeID: &emp.ID}.WithPeriod(period))
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendances for summary: %w", err)
	}

	summary := a.opts.Aggregator.Summarize(records, []attendance.Member{emp.Member(today.Location())}, period, today)
	return attendance.ToSummaryResponse(summary), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, query attendance.ListQuery) (attendance.ListAttendanceResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter := attendance.Filter{Limit: a.opts.ListLimit}
	if period, ok := query.Period(); ok {
		filter = filter.WithPeriod(period)
	}
	if query.Status != nil && *query.Status != "" {
		status := attendance.Status(*query.Status)
		filter.Status = &status
	}
	if query.EmployeeCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*query.EmployeeCode))
		if !validator.IsValidEmployeeCode(code) {
			return attendance.ListAttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		emp, err := a.EmployeeRepository.GetByEmployeeCode(ctx, code)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return attendance.ListAttendanceResponse{}, employee.ErrEmployeeNotFound
			}
			return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get employee by code: %w", err)
		}
		filter.EmployeeID = &emp.ID
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return attendance.ListAttendanceResponse{
		Count:       len(records),
		Attendances: attendance.ToResponses(records),
	}, nil
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, query attendance.RangeQuery) (attendance.EmployeeAttendanceResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	if !validator.IsValidUUID(employeeID) {
		return attendance.EmployeeAttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.EmployeeAttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	filter := attendance.Filter{EmployeeID: &emp.ID}
	if period, ok := query.Period(); ok {
		filter = filter.WithPeriod(period)
	}

	records, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to list employee attendances: %w", err)
	}

	return attendance.EmployeeAttendanceResponse{
		Employee:    attendance.ToMemberResponses([]attendance.Member{emp.Member(nil)})[0],
		Count:       len(records),
		Attendances: attendance.ToResponses(records),
	}, nil
}

// GetTeamSummary implements attendance.AttendanceService.
// Without a date or range the summary covers today.
func (a *AttendanceServiceImpl) GetTeamSummary(ctx context.Context, query attendance.RangeQuery) (attendance.SummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	today := a.clock.Now()
	period, ok := query.Period()
	if !ok {
		period = attendance.SingleDay(today)
	}

	roster, err := a.roster(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.AttendanceRepository.List(ctx, attendance.Filter{}.WithPeriod(period))
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendances for summary: %w", err)
	}

	summary := a.opts.Aggregator.Summarize(records, roster, period, today)
	return attendance.ToSummaryResponse(summary), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	today := attendance.DateOf(a.clock.Now())

	roster, err := a.roster(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	records, err := a.AttendanceRepository.List(ctx, attendance.Filter{}.WithPeriod(attendance.SingleDay(today)))
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to list today's attendances: %w", err)
	}

	b := a.opts.Aggregator.Day(today, records, roster)
	return attendance.TodayStatusResponse{
		Date:             attendance.DateKey(today),
		Present:          b.Present,
		Absent:           b.Absent,
		Late:             b.Late,
		HalfDay:          b.HalfDay,
		PresentEmployees: attendance.ToMemberResponses(b.Attended),
		AbsentEmployees:  attendance.ToMemberResponses(b.Missing),
	}, nil
}

func (a *AttendanceServiceImpl) currentEmployee(ctx context.Context) (employee.Employee, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (a *AttendanceServiceImpl) roster(ctx context.Context) ([]attendance.Member, error) {
	employees, err := a.EmployeeRepository.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employee.Roster(employees, a.clock.Now().Location()), nil
}

func (a *AttendanceServiceImpl) notify(ctx context.Context, event string, resp attendance.AttendanceResponse) {
	for _, l := range a.listeners {
		l(ctx, event, resp)
	}
}

func withEmployee(r attendance.Record, e employee.Employee) attendance.AttendanceResponse {
	r.EmployeeCode = &e.EmployeeCode
	r.EmployeeName = &e.Name
	r.EmployeeEmail = &e.Email
	r.EmployeeDepartment = &e.Department
	return attendance.ToResponse(r)
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	opts Options,
	clk clock.Clock,
	listeners ...Listener,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		opts:                 opts,
		clock:                clk,
		listeners:            listeners,
	}
}
