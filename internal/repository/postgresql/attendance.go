package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	attendanceColumns = `a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
		a.status, a.total_hours, a.created_at, a.updated_at`
	attendanceEmployeeColumns = `e.employee_code, e.name, e.email, e.department`
)

type attendanceRepository struct {
	db *database.DB
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
	`

	record, err := scanRecord(q.QueryRow(ctx, query, employeeID, attendance.DateOf(date)), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError("get attendance by employee and date", err)
	}

	return &record, nil
}

// UpsertCheckIn implements attendance.AttendanceRepository.
//
// The insert and the conflict branch run as one statement, so the unique
// (employee_id, date) constraint decides races. The conflict branch only
// fires for a row without a check-in; otherwise nothing is returned.
func (a *attendanceRepository) UpsertCheckIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances AS a (id, employee_id, date, check_in_time, status, total_hours)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			status = EXCLUDED.status,
			updated_at = now()
		WHERE a.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		attendance.DateOf(record.Date),
		toPgTime(record.CheckIn),
		string(record.Status),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, storeError("upsert check-in", err)
	}

	return saved, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances AS a
		SET check_out_time = $2,
			total_hours = $3,
			status = $4,
			updated_at = now()
		WHERE a.id = $1
		  AND a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		record.ID,
		toPgTime(record.CheckOut),
		record.TotalHours,
		string(record.Status),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Record{}, storeError("complete check-out", err)
	}

	return saved, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, attendance.DateOf(*filter.StartDate))
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, attendance.DateOf(*filter.EndDate))
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query := `
		SELECT ` + attendanceColumns + `, ` + attendanceEmployeeColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY a.date DESC, a.created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf("\n\t\tLIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError("list attendances", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows, true)
		if err != nil {
			return nil, storeError("scan attendance", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("iterate attendances", err)
	}

	return records, nil
}

// CountOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountOpen(ctx context.Context, date time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE date = $1
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NULL
	`

	var count int
	if err := q.QueryRow(ctx, query, attendance.DateOf(date)).Scan(&count); err != nil {
		return 0, storeError("count open attendances", err)
	}
	return count, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row, withEmployee bool) (attendance.Record, error) {
	var (
		r       attendance.Record
		in, out pgtype.Time
		status  string
	)
	dest := []any{&r.ID, &r.EmployeeID, &r.Date, &in, &out, &status, &r.TotalHours, &r.CreatedAt, &r.UpdatedAt}
	if withEmployee {
		dest = append(dest, &r.EmployeeCode, &r.EmployeeName, &r.EmployeeEmail, &r.EmployeeDepartment)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Record{}, err
	}

	r.Status = attendance.Status(status)
	r.CheckIn = fromPgTime(in)
	r.CheckOut = fromPgTime(out)
	return r, nil
}

const microsecondsPerMinute = int64(time.Minute / time.Microsecond)

func toPgTime(t *attendance.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: int64(t.Minutes()) * microsecondsPerMinute, Valid: true}
}

func fromPgTime(t pgtype.Time) *attendance.TimeOfDay {
	if !t.Valid {
		return nil
	}
	minutes := int(t.Microseconds / microsecondsPerMinute)
	return &attendance.TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}

// storeError keeps driver errors out of the domain: unique violations become
// ErrDuplicateRecord, everything else ErrStoreUnavailable.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("failed to %s: %w", op, attendance.ErrDuplicateRecord)
	}
	return fmt.Errorf("failed to %s: %w: %v", op, attendance.ErrStoreUnavailable, err)
}
