package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the authenticated employee's arrival for today
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes the authenticated employee's day
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// GetToday returns today's record of the authenticated employee, nil when none
	GetToday(ctx context.Context) (*AttendanceResponse, error)

	// GetMyHistory lists the authenticated employee's records of one month
	GetMyHistory(ctx context.Context, query MonthQuery) (ListAttendanceResponse, error)

	// GetMySummary summarizes the authenticated employee's month
	GetMySummary(ctx context.Context, query MonthQuery) (SummaryResponse, error)

	// ListAttendance lists records of all employees (manager)
	ListAttendance(ctx context.Context, query ListQuery) (ListAttendanceResponse, error)

	// GetEmployeeAttendance returns one employee with their records (manager)
	GetEmployeeAttendance(ctx context.Context, employeeID string, query RangeQuery) (EmployeeAttendanceResponse, error)

	// GetTeamSummary summarizes the whole roster over a period (manager)
	GetTeamSummary(ctx context.Context, query RangeQuery) (SummaryResponse, error)

	// GetTodayStatus lists who is in and who is missing today (manager)
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)
}
