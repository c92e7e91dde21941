package attendance

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// IsValid reports whether s is one of the stored attendance statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Attended reports whether the status counts as the employee showing up.
func (s Status) Attended() bool {
	return s.IsValid() && s != StatusAbsent
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.Minutes() < u.Minutes()
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *TimeOfDay
	CheckOut   *TimeOfDay
	Status     Status
	TotalHours int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeCode       *string
	EmployeeName       *string
	EmployeeEmail      *string
	EmployeeDepartment *string
}

// IsOpen reports whether the employee checked in and has not checked out yet.
func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// DateOf truncates t to its calendar day in t's location and returns it as UTC midnight,
// which is how DATE columns come back from the store.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a calendar day as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
