package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"community-service/internal/event"
	"community-service/internal/model"
	"community-service/pkg/apierror"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type AuthService struct {
	users  userStore
	tokens *TokenService
	bus    event.Bus
}

func NewAuthService(users userStore, tokens *TokenService, bus event.Bus) *AuthService {
	return &AuthService{users: users, tokens: tokens, bus: bus}
}

func (s *AuthService) Register(ctx context.Context, email string, username string, password string) (model.AuthUser, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if email == "" || username == "" || password == "" {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "email, username and password are required", "", http.StatusBadRequest)
	}
	if len(password) < 8 {
		return model.AuthUser{}, apierror.New("BAD_REQUEST", "password must be at least 8 characters", "password", http.StatusBadRequest)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthUser{}, err
	}
	if exists {
		return model.AuthUser{}, apierror.New("ALREADY_EXISTS", "email already registered", email, http.StatusConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.AuthUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         "member",
		Badges:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	return model.AuthUser{ID: user.ID, Email: user.Email, Username: user.Username, Role: user.Role}, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string, userAgent string, ipAddress string) (model.TokenPair, model.AuthUser, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// A missing account and a wrong password look the same to the caller.
		return model.TokenPair{}, model.AuthUser{}, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, model.AuthUser{}, model.ErrInvalidCredentials
	}

	authUser := model.AuthUser{ID: user.ID, Email: user.Email, Username: user.Username, Role: user.Role}
	pair, err := s.tokens.CreateTokenPair(ctx, authUser, userAgent, ipAddress)
	if err != nil {
		return model.TokenPair{}, model.AuthUser{}, err
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeUserLoggedIn,
			Payload:   map[string]any{"user_agent": userAgent, "ip_address": ipAddress},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			ActorID:   user.ID,
		})
	}

	return pair, authUser, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return model.AuthUser{ID: user.ID, Email: user.Email, Username: user.Username, Role: user.Role}, nil
}
