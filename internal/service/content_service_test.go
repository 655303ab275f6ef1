package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"community-service/internal/gamification"
	"community-service/internal/model"
)

type fakeContentStore struct {
	posts     map[string]model.Post
	comments  []model.Comment
	reactions []model.Reaction
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{posts: map[string]model.Post{}}
}

func (f *fakeContentStore) CreatePost(_ context.Context, p model.Post) error {
	f.posts[p.ID] = p
	return nil
}

func (f *fakeContentStore) PostAuthor(_ context.Context, postID string) (string, error) {
	post, ok := f.posts[postID]
	if !ok {
		return "", model.ErrPostNotFound
	}
	return post.AuthorID, nil
}

func (f *fakeContentStore) CreateComment(_ context.Context, c model.Comment) error {
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeContentStore) UpsertReaction(_ context.Context, re model.Reaction) error {
	f.reactions = append(f.reactions, re)
	return nil
}

func newTestContentService(content *fakeContentStore, stats *fakeStatsProvider, profiles *fakeBadgeStore) *ContentService {
	return NewContentService(content, NewGamificationService(stats, profiles, nil))
}

func TestContentService_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("awards the first-post badge inline", func(t *testing.T) {
		content := newFakeContentStore()
		stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
			"u1": {PostsCount: 1},
		}}
		profiles := &fakeBadgeStore{badges: map[string][]string{}}
		svc := newTestContentService(content, stats, profiles)

		post, newly, err := svc.CreatePost(context.Background(), "u1", "Hello", "First post body")
		require.NoError(t, err)
		require.Equal(t, "u1", post.AuthorID)
		require.Len(t, content.posts, 1)
		require.Len(t, newly, 1)
		require.Equal(t, "first-post", newly[0].ID)
	})

	t.Run("rejects empty title or body", func(t *testing.T) {
		svc := newTestContentService(newFakeContentStore(), &fakeStatsProvider{}, &fakeBadgeStore{badges: map[string][]string{}})

		_, _, err := svc.CreatePost(context.Background(), "u1", "  ", "body")
		require.Error(t, err)

		_, _, err = svc.CreatePost(context.Background(), "u1", "title", "")
		require.Error(t, err)
	})
}

func TestContentService_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("unknown post is rejected", func(t *testing.T) {
		svc := newTestContentService(newFakeContentStore(), &fakeStatsProvider{}, &fakeBadgeStore{badges: map[string][]string{}})

		_, _, err := svc.CreateComment(context.Background(), "u1", "missing-post", "hi")
		require.ErrorIs(t, err, model.ErrPostNotFound)
	})

	t.Run("comment awards go to the commenter", func(t *testing.T) {
		content := newFakeContentStore()
		content.posts["p1"] = model.Post{ID: "p1", AuthorID: "author"}
		stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
			"commenter": {CommentsCount: 1},
		}}
		profiles := &fakeBadgeStore{badges: map[string][]string{}}
		svc := newTestContentService(content, stats, profiles)

		comment, newly, err := svc.CreateComment(context.Background(), "commenter", "p1", "nice post")
		require.NoError(t, err)
		require.Equal(t, "p1", comment.PostID)
		require.Len(t, newly, 1)
		require.Equal(t, "first-comment", newly[0].ID)
		require.Equal(t, []string{"first-comment"}, profiles.badges["commenter"])
	})
}

func TestContentService_AddReaction(t *testing.T) {
	t.Parallel()

	content := newFakeContentStore()
	content.posts["p1"] = model.Post{ID: "p1", AuthorID: "author"}
	stats := &fakeStatsProvider{stats: map[string]gamification.UserStats{
		"author": {PostsCount: 1, ReactionsReceived: 10},
	}}
	profiles := &fakeBadgeStore{badges: map[string][]string{
		"author": {"first-post"},
	}}
	svc := newTestContentService(content, stats, profiles)

	reaction, newly, err := svc.AddReaction(context.Background(), "reactor", "p1", "")
	require.NoError(t, err)
	require.Equal(t, "like", reaction.Kind) // default kind
	require.Equal(t, "reactor", reaction.UserID)

	// The badge lands on the post's author, not the reactor.
	ids := make([]string, 0, len(newly))
	for _, a := range newly {
		ids = append(ids, a.ID)
	}
	require.Contains(t, ids, "reactions-10")
	require.Empty(t, profiles.badges["reactor"])
}
