package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
	Stream     StreamHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Total-Rows"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Authenticated by its own short-lived token
			r.Get("/stream", h.Stream.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)

				// Employee only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)
					r.Post("/checkin", h.Attendance.CheckIn)
					r.Post("/checkout", h.Attendance.CheckOut)
					r.Get("/today", h.Attendance.GetToday)
					r.Get("/my-history", h.Attendance.GetMyHistory)
					r.Get("/my-summary", h.Attendance.GetMySummary)
				})

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/all", h.Attendance.List)
					r.Get("/employee/{id}", h.Attendance.GetEmployee)
					r.Get("/summary", h.Attendance.GetTeamSummary)
					r.Get("/today-status", h.Attendance.GetTodayStatus)

					r.With(middleware.RequirePermission(user.PermissionReportsExport)).
						Get("/export", h.Report.ExportAttendance)
					r.With(middleware.RequirePermission(user.PermissionAttendanceStream)).
						Get("/stream/token", h.Stream.Token)
				})
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.With(middleware.RequireEmployee).Get("/employee", h.Dashboard.GetEmployeeDashboard)
			r.With(middleware.RequireManager).Get("/manager", h.Dashboard.GetManagerDashboard)
		})
	})

	return r
}
