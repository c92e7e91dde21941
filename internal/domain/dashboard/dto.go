package dashboard

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"

// ========== EMPLOYEE DASHBOARD ==========

// EmployeeDashboardResponse is what an employee sees after signing in
type EmployeeDashboardResponse struct {
	Date             string                          `json:"date"`
	TodayStatus      *attendance.Status              `json:"today_status"`
	IsCheckedIn      bool                            `json:"is_checked_in"`
	IsCheckedOut     bool                            `json:"is_checked_out"`
	CheckInTime      *string                         `json:"check_in_time"`
	CheckOutTime     *string                         `json:"check_out_time"`
	MonthSummary     attendance.SummaryResponse      `json:"month_summary"`
	RecentAttendance []attendance.AttendanceResponse `json:"recent_attendance"` // last 7 days
}

// ========== MANAGER DASHBOARD ==========

// ManagerDashboardResponse is the team overview for today
type ManagerDashboardResponse struct {
	Date            string                      `json:"date"`
	TotalEmployees  int                         `json:"total_employees"`
	PresentToday    int                         `json:"present_today"` // present, late or half-day
	AbsentToday     int                         `json:"absent_today"`
	LateToday       int                         `json:"late_today"`
	HalfDayToday    int                         `json:"half_day_today"`
	WeeklyTrend     []TrendPoint                `json:"weekly_trend"`
	DepartmentStats []DepartmentStat            `json:"department_stats"`
	AbsentEmployees []attendance.MemberResponse `json:"absent_employees"`
	GeneratedAt     string                      `json:"generated_at"`
}

// TrendPoint is one day of the Monday to Sunday trend chart
type TrendPoint struct {
	Day     string `json:"day"`  // Mon, Tue, ...
	Date    string `json:"date"` // YYYY-MM-DD
	Present int    `json:"present"`
	Late    int    `json:"late"`
	HalfDay int    `json:"half_day"`
	Absent  int    `json:"absent"`
}

type DepartmentStat struct {
	Department string `json:"department"`
	Present    int    `json:"present"`
	Total      int    `json:"total"`
}
