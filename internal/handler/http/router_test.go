package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router  http.Handler
	records *fixtures.MemoryAttendanceRepository

	mu  sync.Mutex
	now time.Time
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

type session struct {
	Token string
	ID    string
	Code  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	// Wednesday 6 March 2024, 08:30
	app := &testApp{now: time.Date(2024, time.March, 6, 8, 30, 0, 0, time.UTC)}
	clk := clock.Func(func() time.Time {
		app.mu.Lock()
		defer app.mu.Unlock()
		return app.now
	})

	employees := fixtures.NewMemoryEmployeeRepository()
	employees.Now = clk.Now
	app.records = fixtures.NewMemoryAttendanceRepository(employees)

	jwtService := jwt.NewJWTService("router-test-secret", time.Hour)
	aggregator := attendance.NewAggregator([]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday})
	hub := sse.NewHub()

	dashboard := dashboardService.NewDashboardService(app.records, employees, aggregator, cache.NewMemoryCache(), time.Minute, clk)
	attendanceSvc := attendanceService.NewAttendanceService(app.records, employees, attendanceService.Options{
		Policy:       attendance.DefaultPolicy,
		Aggregator:   aggregator,
		HistoryLimit: 100,
		ListLimit:    500,
	}, clk,
		attendanceService.InvalidateDashboard(dashboard),
		attendanceService.PublishTo(hub),
	)

	app.router = NewRouter(RouterOptions{AllowedOrigins: []string{"*"}}, jwtService, Handlers{
		Auth:       NewAuthHandler(authService.NewAuthService(employees, jwtService)),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Dashboard:  NewDashboardHandler(dashboard),
		Report:     NewReportHandler(reportService.NewReportService(app.records, employees)),
		Stream:     NewStreamHandler(jwtService, hub, attendanceService.StreamTopic),
	})
	return app
}

func (a *testApp) setNow(hour, minute int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = time.Date(a.now.Year(), a.now.Month(), a.now.Day(), hour, minute, 0, 0, time.UTC)
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testApp) register(t *testing.T, name, email, role, department string) session {
	t.Helper()

	rec, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":       name,
		"email":      email,
		"password":   "password123",
		"role":       role,
		"department": department,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID           string `json:"id"`
			EmployeeCode string `json:"employee_code"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return session{Token: data.AccessToken, ID: data.User.ID, Code: data.User.EmployeeCode}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")
	assert.Equal(t, "EMP001", john.Code)
	assert.NotEmpty(t, john.Token)

	sarah := app.register(t, "Sarah Johnson", "sarah@company.com", "manager", "Engineering")
	assert.Equal(t, "MGR001", sarah.Code)

	t.Run("duplicate email", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Other", "email": "JOHN@company.com", "password": "password123", "department": "Design",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, env.Success)
	})

	t.Run("validation", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "bad"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "email")
		assert.Contains(t, env.Error.Details, "name")
	})

	t.Run("login", func(t *testing.T) {
		rec, env := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "john@company.com", "password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), "access_token")

		rec, _ = app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "john@company.com", "password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/auth/me", john.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"employee_code":"EMP001"`)

		rec, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec, _ = app.do(t, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAttendanceFlow(t *testing.T) {
	app := newTestApp(t)
	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")

	rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/today", john.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)

	rec, env = app.do(t, http.MethodPost, "/api/v1/attendance/checkout", john.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_CHECK_IN_RECORD", env.Error.Code)

	rec, env = app.do(t, http.MethodPost, "/api/v1/attendance/checkin", john.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var record attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, attendance.StatusPresent, record.Status)
	require.NotNil(t, record.CheckInTime)
	assert.Equal(t, "08:30", *record.CheckInTime)

	rec, env = app.do(t, http.MethodPost, "/api/v1/attendance/checkin", john.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_CHECKED_IN", env.Error.Code)

	app.setNow(17, 45)
	rec, env = app.do(t, http.MethodPost, "/api/v1/attendance/checkout", john.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, 9, record.TotalHours)
	assert.Equal(t, attendance.StatusPresent, record.Status)

	rec, env = app.do(t, http.MethodPost, "/api/v1/attendance/checkout", john.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_CHECKED_OUT", env.Error.Code)

	rec, env = app.do(t, http.MethodGet, "/api/v1/attendance/my-history?month=3&year=2024", john.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"count":1`)

	rec, env = app.do(t, http.MethodGet, "/api/v1/attendance/my-summary?month=march", john.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "month")
}

func TestRoleGuards(t *testing.T) {
	app := newTestApp(t)
	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")
	sarah := app.register(t, "Sarah Johnson", "sarah@company.com", "manager", "Engineering")

	employeeOnly := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/attendance/checkin"},
		{http.MethodGet, "/api/v1/attendance/today"},
		{http.MethodGet, "/api/v1/dashboard/employee"},
	}
	for _, tc := range employeeOnly {
		rec, _ := app.do(t, tc.method, tc.path, sarah.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.path)
	}

	managerOnly := []string{
		"/api/v1/attendance/all",
		"/api/v1/attendance/summary",
		"/api/v1/attendance/today-status",
		"/api/v1/attendance/employee/" + john.ID,
		"/api/v1/attendance/export",
		"/api/v1/attendance/stream/token",
		"/api/v1/dashboard/manager",
	}
	for _, path := range managerOnly {
		rec, _ := app.do(t, http.MethodGet, path, john.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)

		rec, _ = app.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestManagerEndpoints(t *testing.T) {
	app := newTestApp(t)
	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")
	mike := app.register(t, "Mike Wilson", "mike@company.com", "employee", "Design")
	sarah := app.register(t, "Sarah Johnson", "sarah@company.com", "manager", "Engineering")

	app.setNow(9, 15)
	rec, _ := app.do(t, http.MethodPost, "/api/v1/attendance/checkin", john.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("today status", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/today-status", sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, string(env.Data), mike.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/all?status=late&employee_id="+john.Code, sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list attendance.ListAttendanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 1, list.Count)

		rec, env = app.do(t, http.MethodGet, "/api/v1/attendance/all?status=sleeping", sarah.Token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "status")

		rec, _ = app.do(t, http.MethodGet, "/api/v1/attendance/all?employee_id=EMP999", sarah.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("employee attendance", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/employee/"+john.ID, sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"count":1`)

		rec, _ = app.do(t, http.MethodGet, "/api/v1/attendance/employee/nope", sarah.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("team summary", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/summary", sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var summary attendance.SummaryResponse
		require.NoError(t, json.Unmarshal(env.Data, &summary))
		assert.Equal(t, 2, summary.TotalEmployees)
		assert.Equal(t, 1, summary.Late)
		assert.Equal(t, 1, summary.Absent)
	})

	t.Run("manager dashboard", func(t *testing.T) {
		rec, env := app.do(t, http.MethodGet, "/api/v1/dashboard/manager", sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"late_today":1`)

		// Check-in drops the cached overview.
		rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/checkin", mike.Token, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		rec, env = app.do(t, http.MethodGet, "/api/v1/dashboard/manager", sarah.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(env.Data), `"late_today":2`)
	})
}

func TestExportAttendance(t *testing.T) {
	app := newTestApp(t)
	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")
	sarah := app.register(t, "Sarah Johnson", "sarah@company.com", "manager", "Engineering")

	rec, _ := app.do(t, http.MethodPost, "/api/v1/attendance/checkin", john.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/v1/attendance/export?date=2024-03-06&employee_id="+john.ID, sarah.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance-2024-03-06-EMP001.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rec.Header().Get("X-Total-Rows"))

	lines, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, report.ExportHeader, lines[0])
	assert.Equal(t, "08:30", lines[1][4])
	assert.Equal(t, "-", lines[1][5])

	rec, _ = app.do(t, http.MethodGet, "/api/v1/attendance/export?format=pdf", sarah.Token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStream(t *testing.T) {
	app := newTestApp(t)
	john := app.register(t, "John Smith", "john@company.com", "employee", "Engineering")
	sarah := app.register(t, "Sarah Johnson", "sarah@company.com", "manager", "Engineering")

	rec, env := app.do(t, http.MethodGet, "/api/v1/attendance/stream/token", sarah.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	assert.Equal(t, 300, tok.ExpiresIn)

	server := httptest.NewServer(app.router)
	defer server.Close()

	// An access token is not a stream token.
	resp, err := http.Get(server.URL + "/api/v1/attendance/stream?token=" + sarah.Token)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/attendance/stream?token="+tok.Token, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	name, data := readEvent(t, reader)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, sarah.ID)

	rec, _ = app.do(t, http.MethodPost, "/api/v1/attendance/checkin", john.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	name, data = readEvent(t, reader)
	assert.Equal(t, attendanceService.EventCheckedIn, name)
	assert.Contains(t, data, john.ID)
}

func readEvent(t *testing.T, r *bufio.Reader) (name, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if name != "" {
				return name, data
			}
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}
