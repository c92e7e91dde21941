package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
)

// Digest is the logged breakdown of one finished day.
type Digest struct {
	Date     time.Time
	Present  int
	Late     int
	HalfDay  int
	Absent   int
	OpenDays int
	Workday  bool
}

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	aggregator     attendance.Aggregator
	clock          clock.Clock

	mu       sync.Mutex
	lastDate string
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	aggregator attendance.Aggregator,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		aggregator:     aggregator,
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("daily_attendance_digest", 1*time.Hour, j.DailyDigest)
}

// DailyDigest logs yesterday's team breakdown once, during the first hour of
// the day. Days without a record are reported as absent but never written.
func (j *AttendanceJobs) DailyDigest(ctx context.Context) error {
	now := j.clock.Now()
	if now.Hour() != 0 {
		return nil
	}

	yesterday := attendance.DateOf(now).AddDate(0, 0, -1)
	key := attendance.DateKey(yesterday)

	j.mu.Lock()
	done := j.lastDate == key
	j.mu.Unlock()
	if done {
		return nil
	}

	slog.Info("Cron: Starting daily attendance digest", "date", key)

	digest, err := j.Digest(ctx, yesterday)
	if err != nil {
		return err
	}

	slog.Info("Cron: Daily attendance digest",
		"date", key,
		"workday", digest.Workday,
		"present", digest.Present,
		"late", digest.Late,
		"half_day", digest.HalfDay,
		"absent", digest.Absent,
		"open_days", digest.OpenDays,
	)

	j.mu.Lock()
	j.lastDate = key
	j.mu.Unlock()
	return nil
}

// Digest computes the breakdown of date for the employee roster.
func (j *AttendanceJobs) Digest(ctx context.Context, date time.Time) (Digest, error) {
	employees, err := j.employeeRepo.ListByRole(ctx, user.RoleEmployee)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to load roster: %w", err)
	}

	records, err := j.attendanceRepo.List(ctx, attendance.Filter{}.WithPeriod(attendance.SingleDay(date)))
	if err != nil {
		return Digest{}, fmt.Errorf("failed to load attendances: %w", err)
	}

	open, err := j.attendanceRepo.CountOpen(ctx, date)
	if err != nil {
		return Digest{}, fmt.Errorf("failed to count open days: %w", err)
	}

	b := j.aggregator.Day(date, records, employee.Roster(employees, j.clock.Now().Location()))
	return Digest{
		Date:     b.Date,
		Present:  b.Present,
		Late:     b.Late,
		HalfDay:  b.HalfDay,
		Absent:   b.Absent,
		OpenDays: open,
		Workday:  j.aggregator.IsWorkday(date),
	}, nil
}
