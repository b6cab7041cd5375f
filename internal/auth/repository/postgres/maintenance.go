package postgres

import (
	"context"
	"fmt"
	"time"
)

func (r *PostgresRepository) CountStale(ctx context.Context, attemptCutoff time.Time) (int64, int64, error) {
	var attempts, tokens int64

	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM login_attempts WHERE created_at < $1
	`, attemptCutoff).Scan(&attempts)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count old login attempts: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*) FROM password_reset_tokens WHERE expires_at < now()
	`).Scan(&tokens)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count expired reset tokens: %w", err)
	}

	return attempts, tokens, nil
}

// DeleteStale removes old login attempts and expired reset tokens in one
// transaction; a failure rolls back both deletions.
func (r *PostgresRepository) DeleteStale(ctx context.Context, attemptCutoff time.Time) (int64, int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM login_attempts WHERE created_at < $1
	`, attemptCutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete old login attempts: %w", err)
	}
	attempts := tag.RowsAffected()

	tag, err = tx.Exec(ctx, `
		DELETE FROM password_reset_tokens WHERE expires_at < now()
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	tokens := tag.RowsAffected()

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit cleanup transaction: %w", err)
	}

	return attempts, tokens, nil
}
