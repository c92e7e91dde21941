package attendance

// Policy holds the thresholds that turn check-in/check-out times into a status.
type Policy struct {
	LateThreshold TimeOfDay
	HalfDayHours  int
}

// DefaultPolicy: late from 09:00, half-day under 5 worked hours.
var DefaultPolicy = Policy{
	LateThreshold: TimeOfDay{Hour: 9, Minute: 0},
	HalfDayHours:  5,
}

// ClassifyCheckIn returns present for a check-in strictly before the late
// threshold and late otherwise.
func (p Policy) ClassifyCheckIn(checkIn TimeOfDay) Status {
	if checkIn.Before(p.LateThreshold) {
		return StatusPresent
	}
	return StatusLate
}

// ResolveCheckout computes worked hours and the final status of a day.
//
// Hours are the difference of the hour components only; minutes are dropped.
// A day shorter than HalfDayHours becomes half-day whatever the arrival status.
// When either time is missing the current status is returned untouched.
func (p Policy) ResolveCheckout(checkIn, checkOut *TimeOfDay, current Status) (int, Status, error) {
	if checkIn == nil || checkOut == nil {
		return 0, current, nil
	}
	if checkOut.Before(*checkIn) {
		return 0, current, ErrInvalidTimeOrder
	}

	totalHours := checkOut.Hour - checkIn.Hour
	if totalHours < p.HalfDayHours {
		return totalHours, StatusHalfDay, nil
	}
	return totalHours, current, nil
}

// ClassifyCheckIn applies DefaultPolicy.
func ClassifyCheckIn(checkIn TimeOfDay) Status {
	return DefaultPolicy.ClassifyCheckIn(checkIn)
}

// ResolveCheckout applies DefaultPolicy.
func ResolveCheckout(checkIn, checkOut *TimeOfDay, current Status) (int, Status, error) {
	return DefaultPolicy.ResolveCheckout(checkIn, checkOut, current)
}
