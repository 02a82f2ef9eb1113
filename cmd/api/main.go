package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/config"
	appHTTP "github.com/ems-suite/ems-backend-go/internal/handler/http"
	"github.com/ems-suite/ems-backend-go/internal/pkg/cache"
	"github.com/ems-suite/ems-backend-go/internal/pkg/cron"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/ems-suite/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-suite/ems-backend-go/internal/pkg/sse"
	"github.com/ems-suite/ems-backend-go/internal/repository/postgresql"
	announcementService "github.com/ems-suite/ems-backend-go/internal/service/announcement"
	attendanceService "github.com/ems-suite/ems-backend-go/internal/service/attendance"
	authService "github.com/ems-suite/ems-backend-go/internal/service/auth"
	bugReportService "github.com/ems-suite/ems-backend-go/internal/service/bugreport"
	companyService "github.com/ems-suite/ems-backend-go/internal/service/company"
	leaveService "github.com/ems-suite/ems-backend-go/internal/service/leave"
	notificationService "github.com/ems-suite/ems-backend-go/internal/service/notification"
	reportService "github.com/ems-suite/ems-backend-go/internal/service/report"
	teamService "github.com/ems-suite/ems-backend-go/internal/service/team"
	userService "github.com/ems-suite/ems-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ems-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		logger.Error("database config error", "error", err)
		os.Exit(1)
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		logger.Error("database connect error", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, settings cache disabled", "error", err)
			redisClient = nil
		}
	}

	userRepo := postgresql.NewUserRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	teamRepo := postgresql.NewTeamRepository(db)
	announcementRepo := postgresql.NewAnnouncementRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	bugReportRepo := postgresql.NewBugReportRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	jwtRepo := postgresql.NewJWTRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	hub := sse.NewHub()

	notificator := notificationService.NewNotificationService(notificationRepo, hub, logger, notificationService.Config{})
	defer notificator.Shutdown()

	settingsService := companyService.NewSettingsService(settingsRepo, auditRepo, redisClient)
	authSvc := authService.NewAuthService(userRepo, jwtRepo, jwtService)
	userSvc := userService.NewUserService(userRepo, auditRepo, notificator)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, auditRepo, settingsService, notificator)
	leaveSvc := leaveService.NewLeaveService(leaveRepo, userRepo, auditRepo, settingsService, notificator)
	teamSvc := teamService.NewTeamService(teamRepo, userRepo)
	announcementSvc := announcementService.NewAnnouncementService(announcementRepo, userRepo, notificator)
	bugReportSvc := bugReportService.NewBugReportService(bugReportRepo, auditRepo, notificator)
	reportSvc := reportService.NewReportService(attendanceRepo, settingsService)

	scheduler := cron.NewScheduler(logger)
	cron.NewAttendanceJobs(settingsRepo, attendanceRepo, userRepo, leaveRepo, notificator).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(jwtService, logger, cfg.App.FrontendURL, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(jwtService, authSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Company:      appHTTP.NewCompanyHandler(settingsService),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc),
		Team:         appHTTP.NewTeamHandler(teamSvc),
		Announcement: appHTTP.NewAnnouncementHandler(announcementSvc),
		Notification: appHTTP.NewNotificationHandler(notificator, jwtService, hub),
		BugReport:    appHTTP.NewBugReportHandler(bugReportSvc),
		Audit:        appHTTP.NewAuditHandler(auditRepo),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
