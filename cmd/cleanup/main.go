package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/Ochessi/tasknest/config"
	"github.com/Ochessi/tasknest/db"
	repo "github.com/Ochessi/tasknest/internal/auth/repository/postgres"
	"github.com/Ochessi/tasknest/internal/auth/service"
	"github.com/Ochessi/tasknest/internal/logger"
)

// Cleans up expired password reset tokens and old login attempts. Run
// out-of-band, e.g. from cron.
func main() {
	days := flag.Int("days", 0, "delete login attempts older than this many days (default from config)")
	dryRun := flag.Bool("dry-run", false, "report what would be deleted without deleting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync()

	retention := cfg.RetentionDays
	if *days > 0 {
		retention = *days
	}

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		zlog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	cleanup := service.NewCleanupService(repo.NewPostgresRepository(dbPool), zlog)

	report, err := cleanup.Run(ctx, retention, *dryRun)
	if err != nil {
		zlog.Fatal("cleanup failed", zap.Error(err))
	}

	zlog.Info("cleanup finished",
		zap.Bool("dry_run", report.DryRun),
		zap.Int64("login_attempts", report.AttemptsDeleted),
		zap.Int64("reset_tokens", report.ResetTokensFound))
}
