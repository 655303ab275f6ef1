package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"community-service/internal/gamification"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// UserStats counts the user's posts, comments and reactions received on
// their posts. All three counts come from one statement so they reflect
// a single snapshot of the data.
func (r *StatsRepository) UserStats(ctx context.Context, userID string) (gamification.UserStats, error) {
	var stats gamification.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE author_id = $1),
			(SELECT COUNT(*) FROM comments WHERE author_id = $1),
			(SELECT COUNT(*) FROM reactions r
			   JOIN posts p ON p.id = r.post_id
			  WHERE p.author_id = $1)
	`, userID).Scan(&stats.PostsCount, &stats.CommentsCount, &stats.ReactionsReceived)
	if err != nil {
		return gamification.UserStats{}, fmt.Errorf("count user activity: %w", err)
	}
	return stats, nil
}
