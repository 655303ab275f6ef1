package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"community-service/internal/event"
	"community-service/internal/model"
	"community-service/pkg/apierror"
)

type fakeUserStore struct {
	byID    map[string]model.User
	byEmail map[string]model.User
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	f := &fakeUserStore{byID: map[string]model.User{}, byEmail: map[string]model.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byEmail[strings.ToLower(u.Email)] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return ok, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.byID[u.ID] = u
	f.byEmail[strings.ToLower(u.Email)] = u
	return nil
}

func newTestAuthService(t *testing.T, users *fakeUserStore, bus event.Bus) *AuthService {
	t.Helper()

	tokens, err := NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour, 24*time.Hour, newFakeTokenStore(), users, nil)
	require.NoError(t, err)
	return NewAuthService(users, tokens, bus)
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates a member with empty badge list", func(t *testing.T) {
		users := newFakeUserStore()
		svc := newTestAuthService(t, users, nil)

		created, err := svc.Register(context.Background(), "alice@example.com", "alice", "correct horse battery")
		require.NoError(t, err)
		require.Equal(t, "member", created.Role)
		require.NotEmpty(t, created.ID)

		stored := users.byID[created.ID]
		require.Empty(t, stored.Badges)
		require.NotEqual(t, "correct horse battery", stored.PasswordHash)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := newFakeUserStore(model.User{ID: "u1", Email: "alice@example.com"})
		svc := newTestAuthService(t, users, nil)

		_, err := svc.Register(context.Background(), "alice@example.com", "alice2", "another password")
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "ALREADY_EXISTS", apiErr.Code)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc := newTestAuthService(t, newFakeUserStore(), nil)

		_, err := svc.Register(context.Background(), "bob@example.com", "bob", "short")
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "BAD_REQUEST", apiErr.Code)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	bus := &fakeBus{}
	svc := newTestAuthService(t, users, bus)

	registered, err := svc.Register(context.Background(), "alice@example.com", "alice", "correct horse battery")
	require.NoError(t, err)

	t.Run("valid credentials yield a token pair and a login event", func(t *testing.T) {
		pair, user, err := svc.Login(context.Background(), "alice@example.com", "correct horse battery", "laptop", "10.0.0.1")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.Len(t, pair.RefreshToken, 128)
		require.Equal(t, int64(900), pair.ExpiresIn)

		require.Contains(t, bus.typesSeen(), event.TypeUserLoggedIn)
		require.Equal(t, registered.ID, bus.events[len(bus.events)-1].ActorID)
	})

	t.Run("wrong password and unknown account are indistinguishable", func(t *testing.T) {
		_, _, badPass := svc.Login(context.Background(), "alice@example.com", "wrong password", "", "")
		_, _, noUser := svc.Login(context.Background(), "nobody@example.com", "whatever password", "", "")

		require.ErrorIs(t, badPass, model.ErrInvalidCredentials)
		require.ErrorIs(t, noUser, model.ErrInvalidCredentials)
	})
}
