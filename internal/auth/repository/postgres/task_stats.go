package postgres

import (
	"context"
	"fmt"

	"github.com/Ochessi/tasknest/internal/auth/domain"
)

// CountTasksByUser aggregates over the task module's table. The auth core
// only reads it; ownership stays with the task module.
func (r *PostgresRepository) CountTasksByUser(ctx context.Context, userID string) (*domain.TaskStats, error) {
	var stats domain.TaskStats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_completed),
		       count(*) FILTER (WHERE NOT is_completed),
		       count(*) FILTER (WHERE priority = 'High' AND NOT is_completed)
		FROM tasks
		WHERE user_id = $1
	`, userID).Scan(&stats.Total, &stats.Completed, &stats.Pending, &stats.HighPriority)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &stats, nil
}
