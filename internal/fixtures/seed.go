package fixtures

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

// ==========================================
// DEMO DATA
// ==========================================

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

// DemoEmployee is one account created by the seeder.
type DemoEmployee struct {
	Name       string
	Email      string
	Role       user.Role
	Department string
}

// DemoEmployees returns the demo roster: one manager and four employees.
func DemoEmployees() []DemoEmployee {
	return []DemoEmployee{
		{Name: "John Smith", Email: "john@company.com", Role: user.RoleEmployee, Department: "Engineering"},
		{Name: "Sarah Johnson", Email: "sarah@company.com", Role: user.RoleManager, Department: "Engineering"},
		{Name: "Mike Wilson", Email: "mike@company.com", Role: user.RoleEmployee, Department: "Design"},
		{Name: "Emily Davis", Email: "emily@company.com", Role: user.RoleEmployee, Department: "Marketing"},
		{Name: "David Brown", Email: "david@company.com", Role: user.RoleEmployee, Department: "Engineering"},
	}
}

// DemoDay is a generated check-in/check-out pair. Absent days are not generated.
type DemoDay struct {
	Date     time.Time
	CheckIn  attendance.TimeOfDay
	CheckOut attendance.TimeOfDay
}

// GenerateDemoDays produces roughly 80% on-time, 10% late, 5% short and 5%
// missing days over the working days of period before today.
func GenerateDemoDays(rng *rand.Rand, agg attendance.Aggregator, period attendance.Period, today time.Time) []DemoDay {
	var days []DemoDay
	last := attendance.DateOf(today).AddDate(0, 0, -1)

	for d := attendance.DateOf(period.Start); !d.After(attendance.DateOf(period.End)) && !d.After(last); d = d.AddDate(0, 0, 1) {
		if !agg.IsWorkday(d) {
			continue
		}

		var in, out attendance.TimeOfDay
		switch p := rng.Float64(); {
		case p < 0.05:
			continue
		case p < 0.15:
			in = attendance.TimeOfDay{Hour: 9 + rng.IntN(2), Minute: rng.IntN(60)}
			out = attendance.TimeOfDay{Hour: 17 + rng.IntN(2), Minute: rng.IntN(60)}
		case p < 0.20:
			in = attendance.TimeOfDay{Hour: 8, Minute: rng.IntN(60)}
			out = attendance.TimeOfDay{Hour: 12 + rng.IntN(2), Minute: rng.IntN(60)}
		default:
			in = attendance.TimeOfDay{Hour: 8, Minute: rng.IntN(60)}
			out = attendance.TimeOfDay{Hour: 17 + rng.IntN(2), Minute: rng.IntN(60)}
		}
		days = append(days, DemoDay{Date: d, CheckIn: in, CheckOut: out})
	}
	return days
}

// ==========================================
// SEEDER
// ==========================================

// PasswordHasher hashes plain passwords for storage.
type PasswordHasher func(password string) (string, error)

type SeedResult struct {
	Employees []employee.Employee
	Records   int
}

// Seed creates the demo roster and two months of attendance through the
// regular repository operations, so stored rows obey the same rules as live ones.
func Seed(
	ctx context.Context,
	employees employee.EmployeeRepository,
	records attendance.AttendanceRepository,
	hash PasswordHasher,
	policy attendance.Policy,
	agg attendance.Aggregator,
	today time.Time,
	rng *rand.Rand,
) (SeedResult, error) {
	var result SeedResult

	hashed, err := hash(DemoPassword)
	if err != nil {
		return result, fmt.Errorf("hash demo password: %w", err)
	}

	thisMonth := attendance.MonthPeriod(today.Year(), today.Month())
	period := attendance.Period{Start: thisMonth.Start.AddDate(0, -1, 0), End: thisMonth.End}

	for _, demo := range DemoEmployees() {
		id, err := uuid.NewV7()
		if err != nil {
			return result, fmt.Errorf("generate employee id: %w", err)
		}
		created, err := employees.Create(ctx, employee.Employee{
			ID:           id.String(),
			Name:         demo.Name,
			Email:        demo.Email,
			PasswordHash: hashed,
			Role:         demo.Role,
			Department:   demo.Department,
			CreatedAt:    period.Start,
		})
		if err != nil {
			return result, fmt.Errorf("create %s: %w", demo.Email, err)
		}
		result.Employees = append(result.Employees, created)

		if created.Role != user.RoleEmployee {
			continue
		}

		for _, day := range GenerateDemoDays(rng, agg, period, today) {
			if err := seedDay(ctx, records, policy, created.ID, day); err != nil {
				return result, err
			}
			result.Records++
		}
	}

	return result, nil
}

func seedDay(ctx context.Context, records attendance.AttendanceRepository, policy attendance.Policy, employeeID string, day DemoDay) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate attendance id: %w", err)
	}

	in, out := day.CheckIn, day.CheckOut
	saved, err := records.UpsertCheckIn(ctx, attendance.Record{
		ID:         id.String(),
		EmployeeID: employeeID,
		Date:       day.Date,
		CheckIn:    &in,
		Status:     policy.ClassifyCheckIn(in),
	})
	if err != nil {
		return fmt.Errorf("seed check-in %s: %w", attendance.DateKey(day.Date), err)
	}

	hours, status, err := policy.ResolveCheckout(saved.CheckIn, &out, saved.Status)
	if err != nil {
		return fmt.Errorf("seed check-out %s: %w", attendance.DateKey(day.Date), err)
	}
	saved.CheckOut = &out
	saved.TotalHours = hours
	saved.Status = status
	if _, err := records.CompleteCheckOut(ctx, saved); err != nil {
		return fmt.Errorf("seed check-out %s: %w", attendance.DateKey(day.Date), err)
	}
	return nil
}
