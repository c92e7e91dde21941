package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("already checked in today")

	// Check-out errors
	ErrNoCheckInRecord   = errors.New("no check-in record found for today")
	ErrNotCheckedInYet   = errors.New("please check in first")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrInvalidTimeOrder  = errors.New("check-out time is earlier than check-in time")

	// Store errors
	ErrDuplicateRecord  = errors.New("attendance record already exists for this employee and date")
	ErrStoreUnavailable = errors.New("attendance store unavailable")
)
