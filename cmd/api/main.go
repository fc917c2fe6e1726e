package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrops-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hrops-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hrops-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrops-backend-go/internal/service/attendance"
	serviceCompany "github.com/cmlabs-hris/hrops-backend-go/internal/service/company"
	companyUserService "github.com/cmlabs-hris/hrops-backend-go/internal/service/companyuser"
	"github.com/cmlabs-hris/hrops-backend-go/internal/service/file"
	"github.com/cmlabs-hris/hrops-backend-go/internal/service/leave"
	offDayService "github.com/cmlabs-hris/hrops-backend-go/internal/service/offday"
	roleService "github.com/cmlabs-hris/hrops-backend-go/internal/service/role"
	shiftService "github.com/cmlabs-hris/hrops-backend-go/internal/service/shift"
	userService "github.com/cmlabs-hris/hrops-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

const (
	appName       = "hrops-backend"
	appVersion    = "v1.0.0"
	shutdownGrace = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := parseLevel(cfg.App.LogLevel)
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.App.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		slog.Info("Database schema is up to date")
	}

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	roleRepo := postgresql.NewRoleRepository(db)
	companyUserRepo := postgresql.NewCompanyUserRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	companyOffRepo := postgresql.NewCompanyOffRepository(db)
	offDayRepo := postgresql.NewOffDayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	allocationRepo := postgresql.NewAllocationRepository(db)
	attributeRepo := postgresql.NewAttributeRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	carryForwardRepo := postgresql.NewCarryForwardRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	windowEvaluator := shiftService.NewWindowEvaluator(shiftRepo, loc)
	calendar := attendanceService.NewRepositoryCalendar(leaveRepo, offDayRepo, companyOffRepo)

	companySvc := serviceCompany.NewCompanyService(db, companyRepo, roleRepo)
	userSvc := userService.NewUserService(userRepo)
	roleSvc := roleService.NewRoleService(roleRepo, companyRepo)
	companyUserSvc := companyUserService.NewCompanyUserService(companyUserRepo, userRepo, companyRepo, roleRepo)
	shiftSvc := shiftService.NewShiftService(db, shiftRepo, companyUserRepo)
	offDaySvc := offDayService.NewOffDayService(db, companyOffRepo, offDayRepo, companyUserRepo, loc)
	attendanceSvc := attendanceService.NewAttendanceService(
		db,
		attendanceRepo,
		punchRepo,
		attendanceService.NewEligibilityGate(calendar, loc),
		windowEvaluator,
		loc,
	)
	allocationSvc := leave.NewAllocationService(db, allocationRepo, attributeRepo, recordRepo, carryForwardRepo, companyRepo, companyUserRepo)
	leaveSvc := leave.NewLeaveService(
		db,
		leaveRepo,
		attributeRepo,
		recordRepo,
		carryForwardRepo,
		companyUserRepo,
		fileService,
		cfg.Storage.MaxUploadSize,
	)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		User:            appHTTP.NewUserHandler(userSvc),
		Company:         appHTTP.NewCompanyHandler(companySvc, companyUserSvc, roleSvc),
		CompanyUser:     appHTTP.NewCompanyUserHandler(companyUserSvc),
		Role:            appHTTP.NewRoleHandler(roleSvc),
		Shift:           appHTTP.NewShiftHandler(shiftSvc),
		OffDay:          appHTTP.NewOffDayHandler(offDaySvc),
		Attendance:      appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:           appHTTP.NewLeaveHandler(leaveSvc),
		LeaveAllocation: appHTTP.NewLeaveAllocationHandler(allocationSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       level,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		UploadDir:      cfg.Storage.BasePath,
		UploadURL:      cfg.Storage.BaseURL,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
