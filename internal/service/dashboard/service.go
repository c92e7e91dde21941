package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// recentDays is how far back the employee dashboard lists records, today included.
const recentDays = 7

// versionTTL outlives every overview cached under the version.
const versionTTL = 48 * time.Hour

type DashboardServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	aggregator attendance.Aggregator
	cache      cache.Cache
	cacheTTL   time.Duration
	clock      clock.Clock
}

func NewDashboardService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator attendance.Aggregator,
	c cache.Cache,
	cacheTTL time.Duration,
	clk clock.Clock,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		aggregator:           aggregator,
		cache:                c,
		cacheTTL:             cacheTTL,
		clock:                clk,
	}
}

func managerKey(date time.Time, version string) string {
	return "dashboard:manager:" + attendance.DateKey(date) + ":v" + version
}

func versionKey(date time.Time) string {
	return "dashboard:manager:" + attendance.DateKey(date) + ":version"
}

// version returns the current generation of the day's overview. A missing or
// unreadable version is "0".
func (s *DashboardServiceImpl) version(ctx context.Context, date time.Time) string {
	raw, err := s.cache.Get(ctx, versionKey(date))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("Dashboard cache version read failed", "key", versionKey(date), "error", err)
		}
		return "0"
	}
	return string(raw)
}

// GetEmployeeDashboard fans out three reads: today's record, the month so far
// and the last seven days.
func (s *DashboardServiceImpl) GetEmployeeDashboard(ctx context.Context) (*dashboard.EmployeeDashboardResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	now := s.clock.Now()
	today := attendance.DateOf(now)
	month := attendance.MonthPeriod(today.Year(), today.Month())
	recent := attendance.Period{Start: today.AddDate(0, 0, -(recentDays - 1)), End: today}

	var (
		todayRecord   *attendance.Record
		monthRecords  []attendance.Record
		recentRecords []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.AttendanceRepository.GetByEmployeeAndDate(gCtx, emp.ID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		todayRecord = r
		return nil
	})

	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Filter{EmployeeID: &emp.ID}.WithPeriod(month))
		if err != nil {
			return fmt.Errorf("failed to list month attendances: %w", err)
		}
		monthRecords = records
		return nil
	})

	g.Go(func() error {
		records, err := s.AttendanceRepository.List(gCtx, attendance.Filter{EmployeeID: &emp.ID}.WithPeriod(recent))
		if err != nil {
			return fmt.Errorf("failed to list recent attendances: %w", err)
		}
		recentRecords = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := s.aggregator.Summarize(monthRecords, []attendance.Member{emp.Member(now.Location())}, month, now)
	resp := &dashboard.EmployeeDashboardResponse{
		Date:             attendance.DateKey(today),
		MonthSummary:     attendance.ToSummaryResponse(summary),
		RecentAttendance: attendance.ToResponses(recentRecords),
	}

	if todayRecord != nil {
		status := todayRecord.Status
		resp.TodayStatus = &status
		resp.IsCheckedIn = todayRecord.CheckIn != nil
		resp.IsCheckedOut = todayRecord.CheckOut != nil
		if todayRecord.CheckIn != nil {
			t := todayRecord.CheckIn.String()
			resp.CheckInTime = &t
		}
		if todayRecord.CheckOut != nil {
			t := todayRecord.CheckOut.String()
			resp.CheckOutTime = &t
		}
	}

	return resp, nil
}

// GetManagerDashboard serves today's overview from the cache when present.
// Cache failures are logged and fall through to the store. The overview is
// stored under the version read before loading, so an Invalidate racing the
// load leaves it under a key no later call reads.
func (s *DashboardServiceImpl) GetManagerDashboard(ctx context.Context) (*dashboard.ManagerDashboardResponse, error) {
	now := s.clock.Now()
	today := attendance.DateOf(now)
	key := managerKey(today, s.version(ctx, today))

	cached, err := cache.GetJSON[dashboard.ManagerDashboardResponse](ctx, s.cache, key)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("Dashboard cache read failed", "key", key, "error", err)
	}

	week := attendance.WeekOf(today)

	var (
		roster  []attendance.Member
		records []attendance.Record
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		employees, err := s.EmployeeRepository.ListByRole(gCtx, user.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		roster = employee.Roster(employees, now.Location())
		return nil
	})

	g.Go(func() error {
		period := attendance.Period{Start: week[0], End: week[len(week)-1]}
		list, err := s.AttendanceRepository.List(gCtx, attendance.Filter{}.WithPeriod(period))
		if err != nil {
			return fmt.Errorf("failed to list week attendances: %w", err)
		}
		records = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := s.aggregator.Day(today, records, roster)
	resp := &dashboard.ManagerDashboardResponse{
		Date:            attendance.DateKey(today),
		TotalEmployees:  len(roster),
		PresentToday:    len(b.Attended),
		AbsentToday:     b.Absent,
		LateToday:       b.Late,
		HalfDayToday:    b.HalfDay,
		WeeklyTrend:     make([]dashboard.TrendPoint, 0, len(week)),
		DepartmentStats: make([]dashboard.DepartmentStat, 0),
		AbsentEmployees: attendance.ToMemberResponses(b.Missing),
		GeneratedAt:     now.Format(time.RFC3339),
	}

	for _, day := range s.aggregator.Trend(week, records, roster) {
		resp.WeeklyTrend = append(resp.WeeklyTrend, dashboard.TrendPoint{
			Day:     day.Date.Format("Mon"),
			Date:    attendance.DateKey(day.Date),
			Present: day.Present,
			Late:    day.Late,
			HalfDay: day.HalfDay,
			Absent:  day.Absent,
		})
	}

	for _, d := range s.aggregator.Departments(today, records, roster) {
		resp.DepartmentStats = append(resp.DepartmentStats, dashboard.DepartmentStat{
			Department: d.Department,
			Present:    d.Present,
			Total:      d.Total,
		})
	}

	if err := cache.SetJSON(ctx, s.cache, key, resp, s.cacheTTL); err != nil {
		slog.Warn("Dashboard cache write failed", "key", key, "error", err)
	}

	return resp, nil
}

// Invalidate implements dashboard.DashboardService by moving today's overview
// to a new version. Entries under older versions expire on their own TTL.
func (s *DashboardServiceImpl) Invalidate(ctx context.Context) {
	today := attendance.DateOf(s.clock.Now())
	key := versionKey(today)
	if err := s.cache.Set(ctx, key, []byte(uuid.NewString()), versionTTL); err != nil {
		slog.Warn("Dashboard cache invalidation failed", "key", key, "error", err)
		// Fall back to dropping the current entry.
		_ = s.cache.Delete(ctx, managerKey(today, s.version(ctx, today)))
	}
}
