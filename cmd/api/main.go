package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/bootstrap"
	"github.com/zugo-hr/attendance-backend-go/internal/config"
	appHTTP "github.com/zugo-hr/attendance-backend-go/internal/handler/http"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/database"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/email"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/jwt"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/notify"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/zugo-hr/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/zugo-hr/attendance-backend-go/internal/service/auth"
	employeeService "github.com/zugo-hr/attendance-backend-go/internal/service/employee"
	reportService "github.com/zugo-hr/attendance-backend-go/internal/service/report"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	bootstrap.SetupLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := cfg.Window.Policy()
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	awsCfg, err := bootstrap.AWS(ctx, cfg)
	if err != nil {
		return err
	}
	roster, err := bootstrap.Roster(ctx, cfg.Roster, awsCfg)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}
	slog.Info("Roster loaded", "employees", roster.Len())

	fileStorage, err := bootstrap.Storage(cfg.Storage, awsCfg)
	if err != nil {
		return err
	}
	sender, err := bootstrap.EmailSender(cfg, awsCfg)
	if err != nil {
		return err
	}
	emailService, err := email.NewEmailService(sender, cfg.Email)
	if err != nil {
		return err
	}
	notifier := notify.New(cfg.Slack)

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(employeeRepo, roster, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, attendanceRepo, roster,
		employeeService.HRAccount{Name: cfg.HR.Name, Email: cfg.HR.Email, Password: cfg.HR.Password}, loc)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, roster,
		cfg.Office.Fence(), policy, fileStorage, loc)
	reportSvc := reportService.NewReportService(attendanceRepo, employeeRepo, roster, emailService, fileStorage,
		reportService.Recipients{HR: cfg.HR.Email, MD: cfg.HR.MDEmail}, loc)

	if err := employeeSvc.Seed(ctx); err != nil {
		return err
	}

	if cfg.Jobs.Enabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewAttendanceJobs(attendanceSvc, reportSvc, notifier, cfg.Jobs, loc).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       bootstrap.LogLevel(cfg.App.LogLevel),
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, loc),
		Report:     appHTTP.NewReportHandler(reportSvc, loc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
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

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
