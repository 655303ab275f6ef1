package gamification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogIntegrity(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, a := range Catalog {
		require.NotEmpty(t, a.ID)
		require.False(t, seen[a.ID], "duplicate achievement id %q", a.ID)
		seen[a.ID] = true

		require.Positive(t, a.XPReward, "achievement %q has no reward", a.ID)
		require.NotEmpty(t, a.Name)
		require.True(t, a.MinPosts > 0 || a.MinComments > 0 || a.MinReactions > 0,
			"achievement %q is unlockable with zero activity", a.ID)
	}
}

func TestUnlocked(t *testing.T) {
	t.Parallel()

	ids := func(list []Achievement) []string {
		out := make([]string, 0, len(list))
		for _, a := range list {
			out = append(out, a.ID)
		}
		return out
	}

	t.Run("no activity unlocks nothing", func(t *testing.T) {
		require.Empty(t, Unlocked(UserStats{}))
	})

	t.Run("first post unlocks exactly first-post", func(t *testing.T) {
		require.Equal(t, []string{"first-post"}, ids(Unlocked(UserStats{PostsCount: 1})))
	})

	t.Run("combined activity unlocks active-member", func(t *testing.T) {
		unlocked := ids(Unlocked(UserStats{PostsCount: 5, CommentsCount: 10}))
		require.Contains(t, unlocked, "first-post")
		require.Contains(t, unlocked, "posts-5")
		require.Contains(t, unlocked, "first-comment")
		require.Contains(t, unlocked, "comments-10")
		require.Contains(t, unlocked, "active-member")
		require.NotContains(t, unlocked, "posts-10")
	})

	t.Run("order follows the catalog", func(t *testing.T) {
		unlocked := ids(Unlocked(UserStats{PostsCount: 100, CommentsCount: 100, ReactionsReceived: 100}))
		require.Equal(t, ids(Catalog), unlocked)
	})
}

func TestUnlockedMonotonic(t *testing.T) {
	t.Parallel()

	// Growing any counter never locks an achievement that was unlocked.
	base := UserStats{PostsCount: 3, CommentsCount: 7, ReactionsReceived: 12}
	before := Unlocked(base)

	grown := []UserStats{
		{PostsCount: base.PostsCount + 1, CommentsCount: base.CommentsCount, ReactionsReceived: base.ReactionsReceived},
		{PostsCount: base.PostsCount, CommentsCount: base.CommentsCount + 10, ReactionsReceived: base.ReactionsReceived},
		{PostsCount: base.PostsCount, CommentsCount: base.CommentsCount, ReactionsReceived: base.ReactionsReceived + 100},
	}

	for _, stats := range grown {
		after := map[string]bool{}
		for _, a := range Unlocked(stats) {
			after[a.ID] = true
		}
		for _, a := range before {
			require.True(t, after[a.ID], "achievement %q locked after stats grew", a.ID)
		}
	}
}

func TestProgress(t *testing.T) {
	t.Parallel()

	posts10, ok := ByID("posts-10")
	require.True(t, ok)

	require.Equal(t, 0, posts10.Progress(UserStats{}))
	require.Equal(t, 50, posts10.Progress(UserStats{PostsCount: 5}))
	require.Equal(t, 100, posts10.Progress(UserStats{PostsCount: 10}))
	require.Equal(t, 100, posts10.Progress(UserStats{PostsCount: 200}))

	activeMember, ok := ByID("active-member")
	require.True(t, ok)

	// The lagging counter bounds the percentage.
	require.Equal(t, 0, activeMember.Progress(UserStats{PostsCount: 5}))
	require.Equal(t, 50, activeMember.Progress(UserStats{PostsCount: 5, CommentsCount: 5}))
	require.Equal(t, 100, activeMember.Progress(UserStats{PostsCount: 5, CommentsCount: 10}))
}

func TestByID(t *testing.T) {
	t.Parallel()

	a, ok := ByID("first-post")
	require.True(t, ok)
	require.Equal(t, 10, a.XPReward)

	_, ok = ByID("no-such-badge")
	require.False(t, ok)
}
