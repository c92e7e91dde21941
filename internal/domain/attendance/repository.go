package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores one record per employee per day.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee has no record that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// UpsertCheckIn creates the day's record or fills the check-in of an
	// existing one. When the day already has a check-in it returns
	// ErrAlreadyCheckedIn, so of two racing callers exactly one succeeds.
	UpsertCheckIn(ctx context.Context, record Record) (Record, error)

	// CompleteCheckOut writes check-out, hours and status only if the record is
	// still open; otherwise ErrAlreadyCheckedOut.
	CompleteCheckOut(ctx context.Context, record Record) (Record, error)

	// List returns records ordered by date then creation time, newest first.
	List(ctx context.Context, filter Filter) ([]Record, error)

	// CountOpen counts records of the given day with a check-in and no check-out.
	CountOpen(ctx context.Context, date time.Time) (int, error)
}
