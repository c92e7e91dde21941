// Command seed loads demo employees and two months of attendance history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
)

func main() {
	reset := flag.Bool("reset", false, "truncate employees and attendances before seeding")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for generated history")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *reset {
		if _, err := db.Exec(ctx, "TRUNCATE attendances, employees"); err != nil {
			slog.Error("Failed to reset tables", "error", err)
			os.Exit(1)
		}
		slog.Info("Tables truncated")
	}

	policy := attendance.Policy{LateThreshold: cfg.Attendance.LateThreshold, HalfDayHours: cfg.Attendance.HalfDayHours}
	today := attendance.DateOf(clock.New(cfg.Location()).Now())

	result, err := fixtures.Seed(
		ctx,
		postgresql.NewEmployeeRepository(db),
		postgresql.NewAttendanceRepository(db),
		serviceAuth.HashPassword,
		policy,
		attendance.NewAggregator(cfg.Attendance.Workdays),
		today,
		rand.New(rand.NewPCG(*seed, *seed>>1)),
	)
	if err != nil {
		slog.Error("Seeding failed", "error", err, "employees_created", len(result.Employees))
		os.Exit(1)
	}

	for _, e := range result.Employees {
		slog.Info("Seeded employee", "employee_code", e.EmployeeCode, "email", e.Email, "role", e.Role)
	}
	slog.Info("Seed complete", "employees", len(result.Employees), "records", result.Records, "password", fixtures.DemoPassword)
}
