package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const requestTimeout = 30 * time.Second

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	User            UserHandler
	Company         CompanyHandler
	CompanyUser     CompanyUserHandler
	Role            RoleHandler
	Shift           ShiftHandler
	OffDay          OffDayHandler
	Attendance      AttendanceHandler
	Leave           LeaveHandler
	LeaveAllocation LeaveAllocationHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	UploadDir      string
	UploadURL      string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadDir != "" {
		prefix := opts.UploadURL
		if prefix == "" {
			prefix = "/uploads"
		}
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadDir)))
		r.Get(prefix+"/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.User.Create)
			r.Get("/", h.User.List)
			r.Get("/email/{email}", h.User.GetByEmail)
			r.Get("/{id}", h.User.Get)
			r.Put("/{id}", h.User.Update)
			r.With(middleware.AdminOnly).Delete("/{id}", h.User.Delete)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.Company.List)
			r.Get("/{id}", h.Company.GetByID)
			r.Get("/{id}/users", h.Company.ListUsers)
			r.Get("/{id}/roles", h.Company.ListRoles)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", h.Company.Create)
				r.Put("/{id}", h.Company.Update)
				r.Delete("/{id}", h.Company.Delete)
			})
		})

		r.Route("/company-users", func(r chi.Router) {
			r.Post("/", h.CompanyUser.Create)
			r.Get("/", h.CompanyUser.List)
			r.Get("/company/{companyId}", h.CompanyUser.ListByCompany)
			r.Get("/user/{userId}", h.CompanyUser.ListByUser)
			r.Get("/{id}", h.CompanyUser.Get)
			r.Put("/{id}", h.CompanyUser.Update)
			r.Delete("/{id}", h.CompanyUser.Delete)
			r.Patch("/{id}/status", h.CompanyUser.UpdateStatus)
			r.Patch("/{id}/role", h.CompanyUser.AssignRole)
			r.Delete("/{id}/role", h.CompanyUser.RemoveRole)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Post("/", h.Role.Create)
			r.Get("/", h.Role.List)
			r.Get("/{id}", h.Role.Get)
			r.Put("/{id}", h.Role.Update)
			r.Delete("/{id}", h.Role.Delete)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.Shift.Create)
			r.Get("/", h.Shift.List)
			r.Post("/assign", h.Shift.Assign)
			r.Put("/attributes/{id}", h.Shift.UpdateAttribute)
			r.Delete("/attributes/{id}", h.Shift.DeleteAttribute)
			r.Get("/{id}", h.Shift.Get)
			r.Put("/{id}", h.Shift.Update)
			r.Delete("/{id}", h.Shift.Delete)
		})

		r.Route("/company-offs", func(r chi.Router) {
			r.Post("/", h.OffDay.UpsertCompanyOff)
			r.Get("/", h.OffDay.ListCompanyOffs)
			r.Get("/company/{companyId}/week-off", h.OffDay.GetWeekOff)
			r.Get("/{id}", h.OffDay.GetCompanyOff)
			r.Put("/{id}", h.OffDay.UpdateCompanyOff)
			r.Delete("/{id}", h.OffDay.DeleteCompanyOff)
		})

		r.Route("/off-days", func(r chi.Router) {
			r.Post("/", h.OffDay.CreateOffDay)
			r.Get("/company/{companyId}", h.OffDay.ListByCompany)
			r.Get("/user/{userId}", h.OffDay.ListByUser)
			r.Get("/user/{userId}/upcoming", h.OffDay.Upcoming)
			r.Get("/{id}", h.OffDay.GetOffDay)
			r.Put("/{id}", h.OffDay.UpdateOffDay)
			r.Delete("/{id}", h.OffDay.DeleteOffDay)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/punch-in", h.Attendance.PunchIn)
			r.Post("/punch-out", h.Attendance.PunchOut)
			r.Get("/", h.Attendance.List)
			r.Get("/user", h.Attendance.FindUser)
			r.Get("/status", h.Attendance.CheckStatus)
			r.Get("/shift-check", h.Attendance.CheckShift)
			r.Get("/summary/{userId}/{companyId}", h.Attendance.Summary)
			r.Get("/{id}", h.Attendance.Get)
			r.Patch("/{id}", h.Attendance.Update)
			r.Delete("/{id}", h.Attendance.Delete)
		})

		r.Route("/leave-allocations", func(r chi.Router) {
			r.Get("/", h.LeaveAllocation.ListAttributes)
			r.Get("/records", h.LeaveAllocation.ListRecords)
			r.Get("/records/{id}", h.LeaveAllocation.GetRecord)
			r.Post("/carry-forward", h.LeaveAllocation.AddCarryForward)
			r.Get("/carry-forward/record/{recordId}", h.LeaveAllocation.ListCarryForward)
			r.Delete("/carry-forward/{id}", h.LeaveAllocation.RemoveCarryForward)
			r.Get("/{id}", h.LeaveAllocation.GetAttribute)

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", h.LeaveAllocation.Create)
				r.Put("/{id}", h.LeaveAllocation.UpdateAttribute)
				r.Delete("/{id}", h.LeaveAllocation.DeleteAttribute)
			})
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.Leave.Create)
			r.Get("/", h.Leave.List)
			r.Post("/comments", h.Leave.AddComment)
			r.Get("/user/{userId}", h.Leave.ListByUser)
			r.Get("/user/{userId}/balance", h.Leave.UserBalance)
			r.Get("/company/{companyId}/stats", h.Leave.CompanyStats)
			r.Get("/{id}", h.Leave.Get)
			r.Patch("/{id}", h.Leave.Update)
			r.Delete("/{id}", h.Leave.Delete)
			r.Post("/{id}/approve", h.Leave.Approve)
			r.Post("/{id}/reject", h.Leave.Reject)
			r.Post("/{id}/cancel", h.Leave.Cancel)
			r.Post("/{id}/status", h.Leave.ChangeStatus)
		})
	})
	return r
}
