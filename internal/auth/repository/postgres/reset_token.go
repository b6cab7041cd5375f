package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Ochessi/tasknest/internal/auth/domain"
)

func (r *PostgresRepository) CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt)

	return err
}

func (r *PostgresRepository) GetResetToken(ctx context.Context, tokenValue string) (*domain.PasswordResetToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, created_at, expires_at, used_at
		FROM password_reset_tokens
		WHERE token = $1
		LIMIT 1;
	`, tokenValue)

	var t domain.PasswordResetToken
	err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return &t, nil
}

// MarkResetTokenUsed is the only mutation path for reset tokens; they are
// never deleted on use so the audit trail survives.
func (r *PostgresRepository) MarkResetTokenUsed(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE password_reset_tokens SET used_at = now() WHERE id = $1
	`, id)

	return err
}

func (r *PostgresRepository) CountActiveResetTokens(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM password_reset_tokens
		WHERE user_id = $1 AND used_at IS NULL AND expires_at > now()
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active reset tokens: %w", err)
	}

	return count, nil
}
