package http

import (
	"log/slog"
	"net/http"

	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/middleware"
	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth         AuthHandler
	User         UserHandler
	Company      CompanyHandler
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Team         TeamHandler
	Announcement AnnouncementHandler
	Notification NotificationHandler
	BugReport    BugReportHandler
	Audit        AuditHandler
}

func NewRouter(jwtService jwt.Service, logger *slog.Logger, frontendURL string, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get a tighter per-IP budget.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit("10-M"))
				r.Post("/register", h.Auth.Register)
				r.Post("/login", h.Auth.Login)
			})
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
				r.Post("/stream-token", h.Auth.StreamToken)
			})
		})

		// EventSource cannot send an Authorization header; the stream
		// endpoint authenticates with its own short-lived token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.RateLimit("300-M"))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.GetMe)
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.Get)
				r.Put("/{id}", h.User.Update)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionApproveUsers))
					r.Get("/pending", h.User.ListPending)
					r.Post("/{id}/approve", h.User.Approve)
					r.Post("/{id}/reject", h.User.Reject)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Delete("/{id}", h.User.Delete)
				})
			})

			r.Route("/company/settings", func(r chi.Router) {
				r.Get("/", h.Company.GetSettings)
				r.Get("/defaults", h.Company.Defaults)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionManageSettings))
					r.Post("/", h.Company.UpsertSettings)
					r.Post("/test-rules", h.Company.TestRules)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clockin", h.Attendance.ClockIn)
				r.Put("/clockout", h.Attendance.ClockOut)
				r.Post("/break/start", h.Attendance.StartBreak)
				r.Put("/break/end", h.Attendance.EndBreak)
				r.Get("/today", h.Attendance.GetToday)
				r.Get("/", h.Attendance.List)
				r.Get("/stats", h.Attendance.GetStats)
				r.Get("/history", h.Attendance.GetHistory)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionViewTeamAttendance))
					r.Get("/all", h.Attendance.ListAll)
					r.Get("/report/export", h.Attendance.Export)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.Apply)
				r.Get("/", h.Leave.List)
				r.Get("/balance", h.Leave.GetBalance)
				r.Delete("/{id}", h.Leave.Cancel)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionApproveLeave))
					r.Post("/{id}/review", h.Leave.Review)
				})
			})

			r.Route("/teams", func(r chi.Router) {
				r.Get("/", h.Team.List)
				r.Get("/my", h.Team.GetMyTeam)
				r.Get("/{id}", h.Team.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionManageTeams))
					r.Post("/", h.Team.Create)
					r.Put("/{id}", h.Team.Update)
					r.Delete("/{id}", h.Team.Delete)
					r.Post("/{id}/members/{userID}", h.Team.AddMember)
					r.Delete("/{id}/members/{userID}", h.Team.RemoveMember)
				})
			})

			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", h.Announcement.ListForMe)
				r.Post("/{id}/read", h.Announcement.MarkRead)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionManageAnnouncements))
					r.Get("/all", h.Announcement.ListAll)
					r.Post("/", h.Announcement.Create)
					r.Delete("/{id}", h.Announcement.Delete)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Post("/read", h.Notification.MarkRead)
				r.Post("/read-all", h.Notification.MarkAllRead)
				r.Delete("/{id}", h.Notification.Delete)
			})

			r.Route("/bug-reports", func(r chi.Router) {
				r.Post("/", h.BugReport.Create)
				r.Get("/", h.BugReport.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionManageBugReports))
					r.Get("/all", h.BugReport.ListAll)
					r.Put("/{id}", h.BugReport.Update)
				})
			})

			r.Route("/audit-logs", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionViewAuditLogs))
				r.Get("/", h.Audit.List)
			})
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
