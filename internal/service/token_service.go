package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"community-service/internal/event"
	"community-service/internal/model"
	"community-service/pkg/apierror"
)

const refreshSecretBytes = 64

type tokenStore interface {
	Create(ctx context.Context, t model.RefreshToken) error
	FindByToken(ctx context.Context, token string) (model.RefreshToken, error)
	MarkRevoked(ctx context.Context, token string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, token string) error
	ListActiveByUser(ctx context.Context, userID string) ([]model.Session, error)
	DeleteDead(ctx context.Context, now time.Time, revokedBefore time.Time) (int64, error)
}

type profileStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// TokenService issues short-lived JWT access tokens paired with opaque
// single-use refresh tokens. Refresh tokens rotate on every redemption;
// presenting an already-rotated token is treated as theft and revokes
// every active session of the owning user.
type TokenService struct {
	jwtSecret        []byte
	accessTTL        time.Duration
	refreshTTL       time.Duration
	revokedRetention time.Duration
	tokens           tokenStore
	users            profileStore
	bus              event.Bus
}

func NewTokenService(
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	revokedRetention time.Duration,
	tokens tokenStore,
	users profileStore,
	bus event.Bus,
) (*TokenService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt signing secret is required")
	}

	return &TokenService{
		jwtSecret:        []byte(jwtSecret),
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
		revokedRetention: revokedRetention,
		tokens:           tokens,
		users:            users,
		bus:              bus,
	}, nil
}

// CreateTokenPair signs a fresh access token and persists a new active
// refresh-token record for the user. This is the only place refresh
// records are born; rotation funnels through here as well.
func (s *TokenService) CreateTokenPair(ctx context.Context, user model.AuthUser, userAgent string, ipAddress string) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.signAccessToken(user, now)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := newRefreshSecret()
	if err != nil {
		return model.TokenPair{}, err
	}

	record := model.RefreshToken{
		ID:        uuid.NewString(),
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.refreshTTL),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh redeems a refresh token for a brand-new pair. A token redeems
// at most once: the record is flipped to revoked with a guarded UPDATE
// before the new pair is issued, so of two racing redemptions exactly one
// wins and the loser lands on the reuse path.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string, userAgent string, ipAddress string) (model.TokenPair, error) {
	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	now := time.Now().UTC()

	if record.Revoked {
		return model.TokenPair{}, s.handleReuse(ctx, record)
	}

	if record.ExpiresAt.Before(now) {
		if err := s.tokens.Delete(ctx, refreshToken); err != nil {
			return model.TokenPair{}, err
		}
		slog.Info("expired refresh token presented", "user_id", record.UserID, "token_id", record.ID)
		return model.TokenPair{}, model.ErrTokenExpired
	}

	rotated, err := s.tokens.MarkRevoked(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !rotated {
		// Lost the rotation race; the other request already redeemed it.
		return model.TokenPair{}, s.handleReuse(ctx, record)
	}

	// Re-resolve the profile so role changes take effect on the next
	// access token, not only on the next login. A token whose owner no
	// longer exists is rejected like any other dead token; the refresh
	// endpoint never answers with anything but 401 on failure.
	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			slog.Warn("refresh token presented for missing user", "user_id", record.UserID, "token_id", record.ID)
			return model.TokenPair{}, model.ErrTokenRevoked
		}
		return model.TokenPair{}, err
	}

	return s.CreateTokenPair(ctx, model.AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, userAgent, ipAddress)
}

// handleReuse is the fail-closed response to a replayed refresh token:
// every active session of the user is revoked and the caller gets the
// same opaque rejection as any other invalid token.
func (s *TokenService) handleReuse(ctx context.Context, record model.RefreshToken) error {
	count, err := s.tokens.RevokeAllForUser(ctx, record.UserID)
	if err != nil {
		return err
	}

	slog.Warn("refresh token reuse detected; revoked all sessions",
		"user_id", record.UserID,
		"token_id", record.ID,
		"sessions_revoked", count,
	)
	s.publish(event.TypeTokenReuse, record.UserID, map[string]any{
		"token_id":         record.ID,
		"sessions_revoked": count,
	})

	return model.ErrTokenRevoked
}

// Revoke marks one token revoked (logout). Returns false when the token
// string is unknown.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) (bool, error) {
	ok, err := s.tokens.MarkRevoked(ctx, refreshToken)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// RevokeAll revokes every active session of the user and returns how
// many were revoked.
func (s *TokenService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	count, err := s.tokens.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.publish(event.TypeSessionsRevoked, userID, map[string]any{"sessions_revoked": count})
	}
	return count, nil
}

// Sessions lists the user's active, unexpired sessions. Raw token
// strings are never part of the view.
func (s *TokenService) Sessions(ctx context.Context, userID string) ([]model.Session, error) {
	return s.tokens.ListActiveByUser(ctx, userID)
}

// CleanupExpired purges hard-expired records along with records revoked
// longer than the retention window ago. Safe to run on any schedule.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	return s.tokens.DeleteDead(ctx, now, now.Add(-s.revokedRetention))
}

// StartCleanupTicker runs CleanupExpired on the given interval until ctx
// is cancelled.
func (s *TokenService) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.CleanupExpired(ctx)
			if err != nil {
				slog.Error("token cleanup failed", "error", err)
				continue
			}
			if count > 0 {
				slog.Info("token cleanup", "deleted", count)
			}
		}
	}
}

// ValidateToken verifies an access token by signature and expiry only;
// no store lookup happens per request.
func (s *TokenService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token subject", "", http.StatusUnauthorized)
	}

	return claims, nil
}

func (s *TokenService) signAccessToken(user model.AuthUser, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"typ":   "access",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func (s *TokenService) publish(t event.Type, actorID string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ActorID:   actorID,
	})
}

// newRefreshSecret produces the opaque refresh token: 64 random bytes
// hex-encoded, 128 characters on the wire.
func newRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
