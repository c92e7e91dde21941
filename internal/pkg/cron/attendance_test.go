package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func setupJobs(now time.Time) (*AttendanceJobs, *fixtures.MemoryAttendanceRepository) {
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	employees := fixtures.NewMemoryEmployeeRepository(
		employee.Employee{ID: "e1", EmployeeCode: "EMP001", Name: "John", Role: user.RoleEmployee, Department: "Engineering"},
		employee.Employee{ID: "e2", EmployeeCode: "EMP002", Name: "Mike", Role: user.RoleEmployee, Department: "Design"},
		employee.Employee{ID: "e3", EmployeeCode: "EMP003", Name: "Emily", Role: user.RoleEmployee, Department: "Marketing"},
		employee.Employee{ID: "m1", EmployeeCode: "MGR001", Name: "Sarah", Role: user.RoleManager, Department: "Engineering"},
	)
	records := fixtures.NewMemoryAttendanceRepository(employees,
		attendance.Record{ID: "r1", EmployeeID: "e1", Date: monday, CheckIn: &attendance.TimeOfDay{Hour: 8}, CheckOut: &attendance.TimeOfDay{Hour: 17}, Status: attendance.StatusPresent, TotalHours: 9},
		attendance.Record{ID: "r2", EmployeeID: "e2", Date: monday, CheckIn: &attendance.TimeOfDay{Hour: 9, Minute: 30}, Status: attendance.StatusLate},
	)
	jobs := NewAttendanceJobs(records, employees, attendance.NewAggregator(weekdays), clock.Fixed(now))
	return jobs, records
}

func TestDigest(t *testing.T) {
	jobs, _ := setupJobs(time.Now())
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	digest, err := jobs.Digest(context.Background(), monday)
	require.NoError(t, err)
	assert.True(t, digest.Workday)
	assert.Equal(t, 1, digest.Present)
	assert.Equal(t, 1, digest.Late)
	assert.Equal(t, 0, digest.HalfDay)
	assert.Equal(t, 1, digest.Absent) // e3; the manager is not on the roster
	assert.Equal(t, 1, digest.OpenDays)
}

func TestDigest_DoesNotWriteAbsences(t *testing.T) {
	jobs, records := setupJobs(time.Date(2024, time.March, 5, 0, 10, 0, 0, time.UTC))

	require.NoError(t, jobs.DailyDigest(context.Background()))
	assert.Len(t, records.Records(), 2)
	assert.Equal(t, "2024-03-04", jobs.lastDate)
}

func TestDailyDigest_SkipsOutsideFirstHour(t *testing.T) {
	jobs, _ := setupJobs(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC))

	require.NoError(t, jobs.DailyDigest(context.Background()))
	assert.Empty(t, jobs.lastDate)
}

func TestDailyDigest_PropagatesStoreErrors(t *testing.T) {
	jobs, records := setupJobs(time.Date(2024, time.March, 5, 0, 10, 0, 0, time.UTC))
	records.Err = attendance.ErrStoreUnavailable

	err := jobs.DailyDigest(context.Background())
	assert.True(t, errors.Is(err, attendance.ErrStoreUnavailable))
	assert.Empty(t, jobs.lastDate)
}

func TestScheduler_RunOnceRecoversPanics(t *testing.T) {
	s := NewScheduler(context.Background())
	calls := 0
	s.AddJob("ok", time.Hour, func(ctx context.Context) error { calls++; return nil })
	s.AddJob("boom", time.Hour, func(ctx context.Context) error { panic("boom") })

	err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ElementsMatch(t, []string{"ok", "boom"}, s.Jobs())
}
