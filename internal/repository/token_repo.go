package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-service/internal/model"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, t model.RefreshToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, token, user_id, expires_at, revoked, user_agent, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, false, $5, $6, $7)`,
		t.ID, t.Token, t.UserID, t.ExpiresAt, t.UserAgent, t.IPAddress, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, token, user_id, expires_at, revoked, revoked_at, user_agent, ip_address, created_at
		 FROM refresh_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiresAt, &t.Revoked, &t.RevokedAt,
			&t.UserAgent, &t.IPAddress, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshToken{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("find refresh token: %w", err)
	}
	return t, nil
}

// MarkRevoked flips one record to revoked and reports whether this call
// was the one that did it. The WHERE guard on revoked = false is the
// rotation race barrier: two concurrent redemptions of the same token
// string see exactly one true here.
func (r *TokenRepository) MarkRevoked(ctx context.Context, token string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, revoked_at = now()
		 WHERE token = $1 AND revoked = false`, token)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, revoked_at = now()
		 WHERE user_id = $1 AND revoked = false`, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) ListActiveByUser(ctx context.Context, userID string) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_agent, ip_address, created_at, expires_at
		 FROM refresh_tokens
		 WHERE user_id = $1 AND revoked = false AND expires_at > now()
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserAgent, &s.IPAddress, &s.CreatedAt, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteDead removes rows that are hard-expired, plus rows revoked before
// the retention cutoff. Revoked rows are kept for the retention window so
// a reuse of a recently rotated token is still recognized as reuse and
// not as an unknown token.
func (r *TokenRepository) DeleteDead(ctx context.Context, now time.Time, revokedBefore time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens
		 WHERE expires_at <= $1
		    OR (revoked = true AND revoked_at <= $2)`, now, revokedBefore)
	if err != nil {
		return 0, fmt.Errorf("clean dead tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
