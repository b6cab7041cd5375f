package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ochessi/tasknest/internal/auth/domain"
)

// CleanupReport summarizes one retention run.
type CleanupReport struct {
	DryRun           bool
	RetentionDays    int
	AttemptsDeleted  int64
	ResetTokensFound int64
}

// CleanupService deletes login attempts older than the retention window
// and reset tokens past expiry. Runs are idempotent; deletions happen in a
// single transaction at the repository layer.
type CleanupService struct {
	repo domain.MaintenanceRepository
	log  *zap.Logger
}

func NewCleanupService(repo domain.MaintenanceRepository, log *zap.Logger) *CleanupService {
	return &CleanupService{repo: repo, log: log}
}

func (s *CleanupService) Run(ctx context.Context, retentionDays int, dryRun bool) (*CleanupReport, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	report := &CleanupReport{DryRun: dryRun, RetentionDays: retentionDays}

	if dryRun {
		attempts, tokens, err := s.repo.CountStale(ctx, cutoff)
		if err != nil {
			return nil, err
		}
		report.AttemptsDeleted = attempts
		report.ResetTokensFound = tokens

		s.log.Info("cleanup dry run",
			zap.Int64("old_login_attempts", attempts),
			zap.Int64("expired_reset_tokens", tokens),
			zap.Int("retention_days", retentionDays))

		return report, nil
	}

	attempts, tokens, err := s.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	report.AttemptsDeleted = attempts
	report.ResetTokensFound = tokens

	s.log.Info("cleanup completed",
		zap.Int64("deleted_login_attempts", attempts),
		zap.Int64("deleted_reset_tokens", tokens),
		zap.Int("retention_days", retentionDays))

	return report, nil
}
