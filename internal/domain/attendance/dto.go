package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Department   *string `json:"department,omitempty"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       Status  `json:"status"`
	TotalHours   int     `json:"total_hours"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ToResponse converts a record to its JSON shape.
func ToResponse(r Record) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeCode: r.EmployeeCode,
		EmployeeName: r.EmployeeName,
		Email:        r.EmployeeEmail,
		Department:   r.EmployeeDepartment,
		Date:         DateKey(r.Date),
		Status:       r.Status,
		TotalHours:   r.TotalHours,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CheckIn != nil {
		s := r.CheckIn.String()
		resp.CheckInTime = &s
	}
	if r.CheckOut != nil {
		s := r.CheckOut.String()
		resp.CheckOutTime = &s
	}
	return resp
}

func ToResponses(records []Record) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToResponse(r))
	}
	return out
}

type ListAttendanceResponse struct {
	Count       int                  `json:"count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type SummaryResponse struct {
	TotalEmployees int `json:"total_employees"`
	Days           int `json:"days"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	Late           int `json:"late"`
	HalfDay        int `json:"half_day"`
	TotalHours     int `json:"total_hours"`
}

func ToSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		TotalEmployees: s.TotalEmployees,
		Days:           s.Days,
		Present:        s.Present,
		Absent:         s.Absent,
		Late:           s.Late,
		HalfDay:        s.HalfDay,
		TotalHours:     s.TotalHours,
	}
}

type MemberResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
}

func ToMemberResponses(members []Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{
			ID:           m.EmployeeID,
			EmployeeCode: m.EmployeeCode,
			Name:         m.Name,
			Email:        m.Email,
			Department:   m.Department,
		})
	}
	return out
}

type EmployeeAttendanceResponse struct {
	Employee    MemberResponse       `json:"employee"`
	Count       int                  `json:"count"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type TodayStatusResponse struct {
	Date             string           `json:"date"`
	Present          int              `json:"present"`
	Absent           int              `json:"absent"`
	Late             int              `json:"late"`
	HalfDay          int              `json:"half_day"`
	PresentEmployees []MemberResponse `json:"present_employees"`
	AbsentEmployees  []MemberResponse `json:"absent_employees"`
}

// ========================================
// QUERIES
// ========================================

// MonthQuery selects a calendar month. Zero values mean the current month.
type MonthQuery struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	if q.Month != 0 && !validator.IsValidMonth(q.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if q.Year != 0 && (q.Year < 1970 || q.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period resolves the query against today, filling in missing month or year.
func (q MonthQuery) Period(today time.Time) Period {
	year, month := today.Year(), today.Month()
	if q.Year != 0 {
		year = q.Year
	}
	if q.Month != 0 {
		month = time.Month(q.Month)
	}
	return MonthPeriod(year, month)
}

// RangeQuery selects either one date or an inclusive start/end range.
type RangeQuery struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (q *RangeQuery) Validate() error {
	errs := q.validate()
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (q *RangeQuery) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	dates := []struct {
		field string
		value *string
	}{
		{"date", q.Date},
		{"start_date", q.StartDate},
		{"end_date", q.EndDate},
	}
	for _, d := range dates {
		if d.value == nil || *d.value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*d.value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   d.field,
				Message: d.field + " must be in YYYY-MM-DD format",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	hasStart := q.StartDate != nil && *q.StartDate != ""
	hasEnd := q.EndDate != nil && *q.EndDate != ""
	if hasStart != hasEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	} else if hasStart {
		start, _ := validator.IsValidDate(*q.StartDate)
		end, _ := validator.IsValidDate(*q.EndDate)
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}
	return errs
}

// Period returns the selected period, or ok=false when the query selects none.
// Call Validate first.
func (q RangeQuery) Period() (Period, bool) {
	if q.Date != nil && *q.Date != "" {
		d, _ := validator.IsValidDate(*q.Date)
		return SingleDay(d), true
	}
	if q.StartDate != nil && *q.StartDate != "" && q.EndDate != nil && *q.EndDate != "" {
		start, _ := validator.IsValidDate(*q.StartDate)
		end, _ := validator.IsValidDate(*q.EndDate)
		return Period{Start: start, End: end}, true
	}
	return Period{}, false
}

// ListQuery is the manager's filter over all records.
type ListQuery struct {
	RangeQuery
	Status       *string `json:"status,omitempty"`
	EmployeeCode *string `json:"employee_id,omitempty"`
}

func (q *ListQuery) Validate() error {
	errs := q.RangeQuery.validate()

	if q.Status != nil && *q.Status != "" && !Status(*q.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half-day",
		})
	}
	if q.EmployeeCode != nil && validator.IsEmpty(*q.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Filter is what the store understands. Nil fields are not applied.
type Filter struct {
	EmployeeID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *Status
	Limit      int
}

// WithPeriod narrows the filter to an inclusive period.
func (f Filter) WithPeriod(p Period) Filter {
	start, end := DateOf(p.Start), DateOf(p.End)
	f.StartDate = &start
	f.EndDate = &end
	return f
}
