package attendance

import (
	"cmp"
	"slices"
	"time"
)

// Member is one employee of the roster that absences are measured against.
type Member struct {
	EmployeeID   string
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	JoinedOn     time.Time // zero means evaluated on every day
}

// expectedOn reports whether the member counts on date. A record on the day
// always counts, even one dated before the join day.
func (m Member) expectedOn(date time.Time, hasRecord bool) bool {
	return hasRecord || m.JoinedOn.IsZero() || !DateOf(m.JoinedOn).After(DateOf(date))
}

// Period is an inclusive range of calendar days.
type Period struct {
	Start time.Time
	End   time.Time
}

// SingleDay returns the period covering only date.
func SingleDay(date time.Time) Period {
	d := DateOf(date)
	return Period{Start: d, End: d}
}

// MonthPeriod returns the first through the last day of the given month.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether the calendar day of t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(p.Start)) && !d.After(DateOf(p.End))
}

// Summary is the status breakdown of a roster over a set of evaluated days.
// Present + Late + HalfDay + Absent always equals TotalEmployees * Days.
type Summary struct {
	TotalEmployees int
	Days           int
	Present        int
	Late           int
	HalfDay        int
	Absent         int
	TotalHours     int
}

// DayBreakdown is the status breakdown of a roster on one calendar day.
type DayBreakdown struct {
	Date     time.Time
	Present  int
	Late     int
	HalfDay  int
	Absent   int
	Attended []Member
	Missing  []Member
}

type DepartmentStat struct {
	Department string
	Present    int
	Total      int
}

// Aggregator derives summaries from stored records and a roster.
// Days without a record count as absent for every roster member who did not
// attend; absent rows are never written.
type Aggregator struct {
	workdays map[time.Weekday]bool
}

// NewAggregator builds an aggregator that treats the given weekdays as
// working days. With no weekdays every day is a working day.
func NewAggregator(workdays []time.Weekday) Aggregator {
	set := make(map[time.Weekday]bool, len(workdays))
	for _, d := range workdays {
		set[d] = true
	}
	return Aggregator{workdays: set}
}

func (a Aggregator) IsWorkday(date time.Time) bool {
	if len(a.workdays) == 0 {
		return true
	}
	return a.workdays[date.Weekday()]
}

// EvaluationDays returns the days of the period that are judged: every
// working day up to and including today, plus any day that has a record.
func (a Aggregator) EvaluationDays(period Period, today time.Time, records []Record) []time.Time {
	start, end := DateOf(period.Start), DateOf(period.End)
	last := end
	if t := DateOf(today); t.Before(last) {
		last = t
	}

	recorded := make(map[string]bool, len(records))
	for _, r := range records {
		if period.Contains(r.Date) {
			recorded[DateKey(r.Date)] = true
		}
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if recorded[DateKey(d)] || (!d.After(last) && a.IsWorkday(d)) {
			days = append(days, d)
		}
	}
	return days
}

// Day breaks down one calendar day. Records of employees outside the roster
// and records of other days are ignored. Members who had not joined yet and
// have no record are left out of every count.
func (a Aggregator) Day(date time.Time, records []Record, roster []Member) DayBreakdown {
	key := DateKey(date)
	byEmployee := make(map[string]Record, len(records))
	for _, r := range records {
		if DateKey(r.Date) == key {
			byEmployee[r.EmployeeID] = r
		}
	}

	b := DayBreakdown{Date: DateOf(date)}
	for _, m := range roster {
		r, ok := byEmployee[m.EmployeeID]
		if !m.expectedOn(date, ok) {
			continue
		}
		if !ok || !r.Status.Attended() {
			b.Absent++
			b.Missing = append(b.Missing, m)
			continue
		}
		switch r.Status {
		case StatusPresent:
			b.Present++
		case StatusLate:
			b.Late++
		case StatusHalfDay:
			b.HalfDay++
		}
		b.Attended = append(b.Attended, m)
	}
	return b
}

// Summarize aggregates a roster over the evaluated days of a period.
// For one employee pass a roster of one.
func (a Aggregator) Summarize(records []Record, roster []Member, period Period, today time.Time) Summary {
	days := a.EvaluationDays(period, today, records)

	inRoster := make(map[string]bool, len(roster))
	for _, m := range roster {
		inRoster[m.EmployeeID] = true
	}

	s := Summary{TotalEmployees: len(roster), Days: len(days)}
	for _, d := range days {
		b := a.Day(d, records, roster)
		s.Present += b.Present
		s.Late += b.Late
		s.HalfDay += b.HalfDay
		s.Absent += b.Absent
	}
	for _, r := range records {
		if inRoster[r.EmployeeID] && period.Contains(r.Date) {
			s.TotalHours += r.TotalHours
		}
	}
	return s
}

// Trend returns one breakdown per given day, in the given order.
func (a Aggregator) Trend(days []time.Time, records []Record, roster []Member) []DayBreakdown {
	trend := make([]DayBreakdown, 0, len(days))
	for _, d := range days {
		trend = append(trend, a.Day(d, records, roster))
	}
	return trend
}

// Departments counts attendance per department on one day, sorted by name.
func (a Aggregator) Departments(date time.Time, records []Record, roster []Member) []DepartmentStat {
	b := a.Day(date, records, roster)
	attended := make(map[string]bool, len(b.Attended))
	for _, m := range b.Attended {
		attended[m.EmployeeID] = true
	}
	missing := make(map[string]bool, len(b.Missing))
	for _, m := range b.Missing {
		missing[m.EmployeeID] = true
	}

	index := make(map[string]int)
	var stats []DepartmentStat
	for _, m := range roster {
		if !attended[m.EmployeeID] && !missing[m.EmployeeID] {
			continue
		}
		i, ok := index[m.Department]
		if !ok {
			i = len(stats)
			index[m.Department] = i
			stats = append(stats, DepartmentStat{Department: m.Department})
		}
		stats[i].Total++
		if attended[m.EmployeeID] {
			stats[i].Present++
		}
	}
	slices.SortFunc(stats, func(x, y DepartmentStat) int {
		return cmp.Compare(x.Department, y.Department)
	})
	return stats
}

// SortForDisplay orders records by date, newest first, then by creation time, newest first.
func SortForDisplay(records []Record) {
	slices.SortStableFunc(records, func(x, y Record) int {
		if c := y.Date.Compare(x.Date); c != 0 {
			return c
		}
		return y.CreatedAt.Compare(x.CreatedAt)
	})
}

// WeekOf returns Monday through Sunday of the week containing date.
func WeekOf(date time.Time) []time.Time {
	d := DateOf(date)
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	week := make([]time.Time, 7)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}
