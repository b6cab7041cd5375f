package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ochessi/tasknest/internal/auth/domain"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, is_active, is_email_verified,
		       last_login_ip, failed_login_attempts, account_locked_until, date_joined, updated_at`

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.IsActive, &user.IsEmailVerified, &user.LastLoginIP,
		&user.FailedLoginAttempts, &user.AccountLockedUntil, &user.DateJoined, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1;`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 LIMIT 1;`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1;`, userColumns)
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_active, is_email_verified,
		                   failed_login_attempts, date_joined, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive,
		user.IsEmailVerified, user.FailedLoginAttempts, user.DateJoined, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, userID, passwordHash)

	return err
}

func (r *PostgresRepository) UpdateUsername(ctx context.Context, userID, username string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET username = $2, updated_at = now() WHERE id = $1
	`, userID, username)

	return err
}

func (r *PostgresRepository) SetLastLoginIP(ctx context.Context, userID, ip string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login_ip = $2, updated_at = now() WHERE id = $1
	`, userID, ip)

	return err
}

// RecordFailedLogin performs the increment and the conditional lock in a
// single statement so concurrent failures cannot under-count.
func (r *PostgresRepository) RecordFailedLogin(ctx context.Context, userID string, threshold, lockMinutes int) (int, error) {
	var attempts int
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    account_locked_until = CASE
		        WHEN failed_login_attempts + 1 >= $2
		        THEN now() + make_interval(mins => $3)
		        ELSE account_locked_until
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts
	`, userID, threshold, lockMinutes).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("failed to record failed login: %w", err)
	}

	return attempts, nil
}

func (r *PostgresRepository) Unlock(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, account_locked_until = NULL, updated_at = now()
		WHERE id = $1
	`, userID)

	return err
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_address, user_agent, success, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, attempt.ID, attempt.Email, attempt.IPAddress, attempt.UserAgent,
		attempt.Success, attempt.UserID, attempt.CreatedAt)

	return err
}

func (r *PostgresRepository) RecentAttempts(ctx context.Context, userID string, since time.Time, limit int) ([]domain.LoginAttempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, ip_address, user_agent, success, user_id, created_at
		FROM login_attempts
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var a domain.LoginAttempt
		if err := rows.Scan(&a.ID, &a.Email, &a.IPAddress, &a.UserAgent,
			&a.Success, &a.UserID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

func (r *PostgresRepository) LoginStats(ctx context.Context, userID string, recentSince time.Time) (*domain.LoginStats, error) {
	var stats domain.LoginStats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE NOT success),
		       count(*) FILTER (WHERE NOT success AND created_at >= $2)
		FROM login_attempts
		WHERE user_id = $1
	`, userID, recentSince).Scan(&stats.TotalAttempts, &stats.FailedAttempts, &stats.RecentFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to query login stats: %w", err)
	}

	return &stats, nil
}
