// Command cleanup archives attendance events older than a retention window
// to file storage and deletes them from the database.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zugo-hr/attendance-backend-go/internal/bootstrap"
	"github.com/zugo-hr/attendance-backend-go/internal/config"
	"github.com/zugo-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/zugo-hr/attendance-backend-go/internal/pkg/database"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/postgresql"
	"github.com/zugo-hr/attendance-backend-go/internal/repository/roster"
	attendanceService "github.com/zugo-hr/attendance-backend-go/internal/service/attendance"
)

func main() {
	days := flag.Int("days", 365, "archive events older than this many days")
	flag.Parse()

	if *days <= 0 {
		log.Fatal("-days must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	bootstrap.SetupLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *days); err != nil {
		slog.Error("Cleanup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, days int) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	policy, err := cfg.Window.Policy()
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 2})
	if err != nil {
		return err
	}
	defer db.Close()

	awsCfg, err := bootstrap.AWS(ctx, cfg)
	if err != nil {
		return err
	}
	fileStorage, err := bootstrap.Storage(cfg.Storage, awsCfg)
	if err != nil {
		return err
	}

	svc := attendanceService.NewAttendanceService(
		postgresql.NewAttendanceRepository(db),
		postgresql.NewEmployeeRepository(db),
		roster.New(),
		cfg.Office.Fence(),
		policy,
		fileStorage,
		loc,
	)

	now := time.Now().In(loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -days)

	result, err := svc.Archive(ctx, cutoff)
	if errors.Is(err, attendance.ErrNothingToArchive) {
		slog.Info("Nothing to archive", "cutoff", cutoff.Format(attendance.DateLayout))
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Cleanup complete", "archived", result.Archived, "object_key", result.ObjectKey)
	return nil
}
