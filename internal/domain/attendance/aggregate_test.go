package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(employeeID string, date time.Time, status Status, hours int) Record {
	return Record{
		ID:         employeeID + "-" + DateKey(date),
		EmployeeID: employeeID,
		Date:       date,
		CheckIn:    &TimeOfDay{Hour: 8},
		Status:     status,
		TotalHours: hours,
		CreatedAt:  date.Add(8 * time.Hour),
	}
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

func roster(ids ...string) []Member {
	depts := []string{"Engineering", "Sales"}
	members := make([]Member, 0, len(ids))
	for i, id := range ids {
		members = append(members, Member{EmployeeID: id, Name: "Employee " + id, Department: depts[i%len(depts)]})
	}
	return members
}

func TestAggregator_Day(t *testing.T) {
	agg := NewAggregator(weekdays)
	monday := day(2024, time.March, 4)
	team := roster("a", "b", "c", "d", "e")

	records := []Record{
		rec("a", monday, StatusPresent, 9),
		rec("b", monday, StatusLate, 8),
		rec("c", monday, StatusHalfDay, 3),
		rec("x", monday, StatusPresent, 9),                // not in roster
		rec("d", monday.AddDate(0, 0, 1), StatusLate, 8), // other day
	}

	b := agg.Day(monday, records, team)
	assert.Equal(t, 1, b.Present)
	assert.Equal(t, 1, b.Late)
	assert.Equal(t, 1, b.HalfDay)
	assert.Equal(t, 2, b.Absent)
	assert.Len(t, b.Attended, 3)
	require.Len(t, b.Missing, 2)
	assert.Equal(t, "d", b.Missing[0].EmployeeID)
	assert.Equal(t, "e", b.Missing[1].EmployeeID)
	assert.Equal(t, len(team), b.Present+b.Late+b.HalfDay+b.Absent)
}

func TestAggregator_Day_StoredAbsentCountsAsAbsent(t *testing.T) {
	agg := NewAggregator(weekdays)
	monday := day(2024, time.March, 4)

	b := agg.Day(monday, []Record{rec("a", monday, StatusAbsent, 0)}, roster("a"))
	assert.Equal(t, 1, b.Absent)
	assert.Empty(t, b.Attended)
}

func TestAggregator_Summarize_Conservation(t *testing.T) {
	agg := NewAggregator(weekdays)
	team := roster("a", "b", "c")
	// Mon 4 .. Sun 10 March 2024
	period := Period{Start: day(2024, time.March, 4), End: day(2024, time.March, 10)}
	today := day(2024, time.March, 20)

	records := []Record{
		rec("a", day(2024, time.March, 4), StatusPresent, 9),
		rec("b", day(2024, time.March, 4), StatusLate, 8),
		rec("a", day(2024, time.March, 5), StatusHalfDay, 4),
		rec("c", day(2024, time.March, 8), StatusPresent, 10),
		rec("c", day(2024, time.March, 9), StatusPresent, 6), // Saturday overtime
	}

	s := agg.Summarize(records, team, period, today)
	assert.Equal(t, 3, s.TotalEmployees)
	assert.Equal(t, 6, s.Days) // five weekdays plus the recorded Saturday
	assert.Equal(t, 3, s.Present)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.HalfDay)
	assert.Equal(t, s.TotalEmployees*s.Days, s.Present+s.Late+s.HalfDay+s.Absent)
	assert.Equal(t, 13, s.Absent)
	assert.Equal(t, 37, s.TotalHours)
}

func TestAggregator_Summarize_StopsAtToday(t *testing.T) {
	agg := NewAggregator(weekdays)
	period := MonthPeriod(2024, time.March)
	today := day(2024, time.March, 6) // Wednesday

	s := agg.Summarize(nil, roster("a"), period, today)
	// Fri 1, Mon 4, Tue 5, Wed 6
	assert.Equal(t, 4, s.Days)
	assert.Equal(t, 4, s.Absent)
}

func TestAggregator_NewHireNotAbsentBeforeJoining(t *testing.T) {
	agg := NewAggregator(weekdays)
	team := roster("a", "b")
	team[1].JoinedOn = day(2024, time.March, 20) // Wednesday

	records := []Record{rec("b", day(2024, time.March, 20), StatusPresent, 0)}

	before := agg.Day(day(2024, time.March, 19), records, team)
	assert.Equal(t, 1, before.Absent)
	require.Len(t, before.Missing, 1)
	assert.Equal(t, "a", before.Missing[0].EmployeeID)
	assert.Equal(t, 1, before.Present+before.Late+before.HalfDay+before.Absent)

	joined := agg.Day(day(2024, time.March, 20), records, team)
	assert.Equal(t, 1, joined.Present)
	assert.Equal(t, 1, joined.Absent)

	s := agg.Summarize(records, team[1:], MonthPeriod(2024, time.March), day(2024, time.March, 20))
	assert.Equal(t, 14, s.Days)
	assert.Equal(t, 1, s.Present)
	assert.Equal(t, 0, s.Absent)

	// Engineering has only "a" on the day before "b" joined.
	depts := agg.Departments(day(2024, time.March, 19), records, team)
	require.Len(t, depts, 1)
	assert.Equal(t, DepartmentStat{Department: "Engineering", Present: 0, Total: 1}, depts[0])
}

func TestAggregator_RecordBeforeJoinDayCounts(t *testing.T) {
	agg := NewAggregator(weekdays)
	team := roster("a")
	team[0].JoinedOn = day(2024, time.March, 20)

	b := agg.Day(day(2024, time.March, 18), []Record{rec("a", day(2024, time.March, 18), StatusLate, 8)}, team)
	assert.Equal(t, 1, b.Late)
	assert.Equal(t, 0, b.Absent)
}

func TestAggregator_Summarize_Idempotent(t *testing.T) {
	agg := NewAggregator(weekdays)
	team := roster("a", "b")
	period := MonthPeriod(2024, time.February)
	records := []Record{
		rec("a", day(2024, time.February, 1), StatusPresent, 9),
		rec("b", day(2024, time.February, 2), StatusLate, 7),
	}

	first := agg.Summarize(records, team, period, day(2024, time.March, 1))
	second := agg.Summarize(records, team, period, day(2024, time.March, 1))
	assert.Equal(t, first, second)
}

func TestAggregator_Summarize_IndividualMatchesTeamSlice(t *testing.T) {
	agg := NewAggregator(weekdays)
	team := roster("a", "b")
	period := MonthPeriod(2024, time.February)
	today := day(2024, time.March, 1)
	records := []Record{
		rec("a", day(2024, time.February, 1), StatusPresent, 9),
		rec("a", day(2024, time.February, 2), StatusLate, 7),
		rec("b", day(2024, time.February, 2), StatusHalfDay, 2),
	}

	var aRecords []Record
	for _, r := range records {
		if r.EmployeeID == "a" {
			aRecords = append(aRecords, r)
		}
	}
	individual := agg.Summarize(aRecords, team[:1], period, today)
	sliced := agg.Summarize(records, team[:1], period, today)

	assert.Equal(t, individual, sliced)
	assert.Equal(t, 1, individual.Present)
	assert.Equal(t, 1, individual.Late)
	assert.Equal(t, 21-2, individual.Absent) // 21 weekdays in February 2024
}

func TestAggregator_NoWorkdaysMeansEveryDay(t *testing.T) {
	agg := NewAggregator(nil)
	days := agg.EvaluationDays(Period{Start: day(2024, time.March, 4), End: day(2024, time.March, 10)}, day(2024, time.April, 1), nil)
	assert.Len(t, days, 7)
}

func TestAggregator_Trend(t *testing.T) {
	agg := NewAggregator(weekdays)
	week := WeekOf(day(2024, time.March, 6))
	require.Len(t, week, 7)
	assert.Equal(t, time.Monday, week[0].Weekday())
	assert.Equal(t, time.Sunday, week[6].Weekday())
	assert.Equal(t, day(2024, time.March, 4), week[0])

	records := []Record{
		rec("a", day(2024, time.March, 4), StatusPresent, 9),
		rec("b", day(2024, time.March, 5), StatusLate, 9),
	}
	trend := agg.Trend(week, records, roster("a", "b"))
	require.Len(t, trend, 7)
	assert.Equal(t, 1, trend[0].Present)
	assert.Equal(t, 1, trend[1].Late)
	assert.Equal(t, 2, trend[6].Absent)
}

func TestWeekOf_Sunday(t *testing.T) {
	week := WeekOf(day(2024, time.March, 10))
	assert.Equal(t, day(2024, time.March, 4), week[0])
}

func TestAggregator_Departments(t *testing.T) {
	agg := NewAggregator(weekdays)
	monday := day(2024, time.March, 4)
	team := roster("a", "b", "c") // a, c Engineering; b Sales

	stats := agg.Departments(monday, []Record{rec("c", monday, StatusLate, 8)}, team)
	require.Len(t, stats, 2)
	assert.Equal(t, DepartmentStat{Department: "Engineering", Present: 1, Total: 2}, stats[0])
	assert.Equal(t, DepartmentStat{Department: "Sales", Present: 0, Total: 1}, stats[1])
}

func TestSortForDisplay(t *testing.T) {
	d1, d2 := day(2024, time.March, 4), day(2024, time.March, 5)
	early := Record{ID: "early", Date: d1, CreatedAt: d1.Add(8 * time.Hour)}
	late := Record{ID: "late", Date: d1, CreatedAt: d1.Add(10 * time.Hour)}
	next := Record{ID: "next", Date: d2, CreatedAt: d2.Add(7 * time.Hour)}

	records := []Record{early, next, late}
	SortForDisplay(records)

	ids := []string{records[0].ID, records[1].ID, records[2].ID}
	assert.Equal(t, []string{"next", "late", "early"}, ids)
}

func TestMonthPeriod_RealMonthEnd(t *testing.T) {
	assert.Equal(t, day(2024, time.February, 29), MonthPeriod(2024, time.February).End)
	assert.Equal(t, day(2023, time.February, 28), MonthPeriod(2023, time.February).End)
	assert.Equal(t, day(2024, time.April, 30), MonthPeriod(2024, time.April).End)
}
