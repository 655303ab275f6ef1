package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"community-service/internal/gamification"
)

type fakeStatsProvider struct {
	stats map[string]gamification.UserStats
	err   error
}

func (f *fakeStatsProvider) UserStats(_ context.Context, userID string) (gamification.UserStats, error) {
	if f.err != nil {
		return gamification.UserStats{}, f.err
	}
	return f.stats[userID], nil
}

type fakeBadgeStore struct {
	badges   map[string][]string
	addCalls int
	err      error
}

func (f *fakeBadgeStore) Badges(_ context.Context, userID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.badges[userID], nil
}

func (f *fakeBadgeStore) AddBadges(_ context.Context, userID string, ids []string) error {
	if f.err != nil {
		return f.err
	}
	f.addCalls++
	existing := map[string]bool{}
	for _, id := range f.badges[userID] {
		existing[id] = true
	}
	for _, id := range ids {
		if !existing[id] {
			f.badges[userID] = append(f.badges[userID], id)
		}
	}
	return nil
}

func TestGamificationService_CheckAndAwardBadges(t *testing.T) {
	t.Parallel()

	t.Run("first post unlocks the first badge", func(t *testing.T) {
		stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
			"u1": {PostsCount: 1},
		}}
		profiles := &fakeBadgeStore{badges: map[string][]string{}}
		svc := NewGamificationService(stats, profiles, nil)

		newly, err := svc.CheckAndAwardBadges(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, newly, 1)
		require.Equal(t, "first-post", newly[0].ID)
		require.Equal(t, 10, newly[0].XPReward)
		require.Equal(t, []string{"first-post"}, profiles.badges["u1"])

		// Derived values after the award: 10 base + 10 badge, still level 1.
		profile, err := svc.Profile(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, 20, profile.TotalXP)
		require.Equal(t, 1, profile.Level)
	})

	t.Run("returns only the delta", func(t *testing.T) {
		stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
			"u1": {PostsCount: 5, CommentsCount: 10},
		}}
		profiles := &fakeBadgeStore{badges: map[string][]string{
			"u1": {"first-post", "first-comment"},
		}}
		svc := NewGamificationService(stats, profiles, nil)

		newly, err := svc.CheckAndAwardBadges(context.Background(), "u1")
		require.NoError(t, err)

		ids := make([]string, 0, len(newly))
		for _, a := range newly {
			ids = append(ids, a.ID)
		}
		require.ElementsMatch(t, []string{"posts-5", "comments-10", "active-member"}, ids)

		// The persisted list is the union; nothing was dropped.
		require.ElementsMatch(t,
			[]string{"first-post", "first-comment", "posts-5", "comments-10", "active-member"},
			profiles.badges["u1"])
	})

	t.Run("no new badges means no write", func(t *testing.T) {
		stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
			"u1": {PostsCount: 1},
		}}
		profiles := &fakeBadgeStore{badges: map[string][]string{
			"u1": {"first-post"},
		}}
		svc := NewGamificationService(stats, profiles, nil)

		newly, err := svc.CheckAndAwardBadges(context.Background(), "u1")
		require.NoError(t, err)
		require.Empty(t, newly)
		require.Zero(t, profiles.addCalls)
	})

	t.Run("store failures propagate", func(t *testing.T) {
		storeErr := errors.New("store down")
		svc := NewGamificationService(&fakeStatsProvider{err: storeErr}, &fakeBadgeStore{}, nil)

		_, err := svc.CheckAndAwardBadges(context.Background(), "u1")
		require.ErrorIs(t, err, storeErr)
	})
}

func TestGamificationService_Profile(t *testing.T) {
	t.Parallel()

	stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
		"u1": {PostsCount: 5, CommentsCount: 10, ReactionsReceived: 2},
	}}
	profiles := &fakeBadgeStore{badges: map[string][]string{
		"u1": {"first-post", "posts-5", "first-comment", "comments-10", "active-member"},
	}}
	svc := NewGamificationService(stats, profiles, nil)

	profile, err := svc.Profile(context.Background(), "u1")
	require.NoError(t, err)

	// 50 + 20 + 10 base, 10 + 25 + 5 + 20 + 50 badge bonus.
	require.Equal(t, 190, profile.TotalXP)
	require.Equal(t, 2, profile.Level)
	require.Equal(t, 90, profile.XPProgress)
	require.Equal(t, 300, profile.XPNeeded)
	require.Equal(t, 400, profile.XPForNextLevel)
	require.Len(t, profile.UnlockedBadges, 5)
	require.Len(t, profile.LockedAchievements, len(gamification.Catalog)-5)
	require.Equal(t, 5, profile.Stats.PostsCount)
}

func TestGamificationService_Catalog(t *testing.T) {
	t.Parallel()

	svc := NewGamificationService(&fakeStatsProvider{}, &fakeBadgeStore{}, nil)
	require.Equal(t, gamification.Catalog, svc.Catalog())
}
