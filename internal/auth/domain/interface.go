package domain

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/Ochessi/tasknest/internal/auth/domain UserRepository,ResetTokenRepository,MaintenanceRepository,TaskStatsProvider,TokenBlacklist

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateUsername(ctx context.Context, userID, username string) error
	SetLastLoginIP(ctx context.Context, userID, ip string) error

	// RecordFailedLogin atomically increments the failed counter and sets
	// the lock timestamp once the counter reaches threshold. Returns the
	// counter value after the increment.
	RecordFailedLogin(ctx context.Context, userID string, threshold, lockMinutes int) (int, error)
	// Unlock resets the failed counter and clears the lock timestamp.
	Unlock(ctx context.Context, userID string) error

	RecordLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	RecentAttempts(ctx context.Context, userID string, since time.Time, limit int) ([]LoginAttempt, error)
	LoginStats(ctx context.Context, userID string, recentSince time.Time) (*LoginStats, error)
}

type ResetTokenRepository interface {
	CreateResetToken(ctx context.Context, token *PasswordResetToken) error
	GetResetToken(ctx context.Context, tokenValue string) (*PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id string) error
	CountActiveResetTokens(ctx context.Context, userID string) (int, error)
}

// MaintenanceRepository backs the retention job. DeleteStale applies both
// deletions inside one transaction so a partial failure leaves nothing
// half-applied.
type MaintenanceRepository interface {
	CountStale(ctx context.Context, attemptCutoff time.Time) (attempts, tokens int64, err error)
	DeleteStale(ctx context.Context, attemptCutoff time.Time) (attempts, tokens int64, err error)
}

// TaskStatsProvider is the collaborator contract supplied by the task
// module; the auth core only reads from it.
type TaskStatsProvider interface {
	CountTasksByUser(ctx context.Context, userID string) (*TaskStats, error)
}

// TokenBlacklist records revoked refresh tokens until their natural expiry.
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}
