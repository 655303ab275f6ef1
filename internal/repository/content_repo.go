package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-service/internal/model"
)

type ContentRepository struct {
	pool *pgxpool.Pool
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{pool: pool}
}

func (r *ContentRepository) CreatePost(ctx context.Context, p model.Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, title, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.AuthorID, p.Title, p.Body, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *ContentRepository) PostAuthor(ctx context.Context, postID string) (string, error) {
	var authorID string
	err := r.pool.QueryRow(ctx,
		`SELECT author_id FROM posts WHERE id = $1`, postID).Scan(&authorID)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find post author: %w", err)
	}
	return authorID, nil
}

func (r *ContentRepository) CreateComment(ctx context.Context, c model.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, post_id, author_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// UpsertReaction enforces one reaction per user per post; a repeat just
// updates the kind without inflating the author's counters.
func (r *ContentRepository) UpsertReaction(ctx context.Context, re model.Reaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reactions (post_id, user_id, kind, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (post_id, user_id) DO UPDATE SET kind = EXCLUDED.kind`,
		re.PostID, re.UserID, re.Kind, re.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}
	return nil
}
