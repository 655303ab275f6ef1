package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"community-service/internal/model"
	"community-service/pkg/apierror"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, username, password_hash, role, badges, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Badges,
			&u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", id, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, username, password_hash, role, badges, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Badges,
			&u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", email, http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, role, badges, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.Badges, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Badges(ctx context.Context, userID string) ([]string, error) {
	var badges []string
	err := r.pool.QueryRow(ctx,
		`SELECT badges FROM users WHERE id = $1`, userID).Scan(&badges)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", userID, http.StatusNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}
	return badges, nil
}

// AddBadges unions the given ids into the user's badge set in a single
// UPDATE so concurrent awards for the same user cannot drop each other's
// additions. Badges are append-only; nothing is ever removed here.
func (r *UserRepository) AddBadges(ctx context.Context, userID string, ids []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET badges = ARRAY(SELECT DISTINCT b FROM unnest(badges || $2::text[]) AS b ORDER BY b),
		     updated_at = now()
		 WHERE id = $1`,
		userID, ids)
	if err != nil {
		return fmt.Errorf("add badges: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", userID, http.StatusNotFound)
	}
	return nil
}
