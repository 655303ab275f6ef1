package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"community-service/internal/gamification"
	"community-service/internal/model"
	"community-service/pkg/apierror"
)

type contentStore interface {
	CreatePost(ctx context.Context, p model.Post) error
	PostAuthor(ctx context.Context, postID string) (string, error)
	CreateComment(ctx context.Context, c model.Comment) error
	UpsertReaction(ctx context.Context, re model.Reaction) error
}

// ContentService handles the activity writes that feed the stats
// counters. Every successful write kicks off a badge check for the
// affected author so unlocks show up immediately in the response.
type ContentService struct {
	content contentStore
	badges  *GamificationService
}

func NewContentService(content contentStore, badges *GamificationService) *ContentService {
	return &ContentService{content: content, badges: badges}
}

func (s *ContentService) CreatePost(ctx context.Context, authorID string, title string, body string) (model.Post, []gamification.Achievement, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return model.Post{}, nil, apierror.New("BAD_REQUEST", "title and body are required", "", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.content.CreatePost(ctx, post); err != nil {
		return model.Post{}, nil, err
	}

	return post, s.award(ctx, authorID), nil
}

func (s *ContentService) CreateComment(ctx context.Context, authorID string, postID string, body string) (model.Comment, []gamification.Achievement, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return model.Comment{}, nil, apierror.New("BAD_REQUEST", "body is required", "", http.StatusBadRequest)
	}

	if _, err := s.content.PostAuthor(ctx, postID); err != nil {
		return model.Comment{}, nil, err
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.content.CreateComment(ctx, comment); err != nil {
		return model.Comment{}, nil, err
	}

	return comment, s.award(ctx, authorID), nil
}

// AddReaction records a reaction and runs the badge check for the post's
// author, whose reactions-received counter just moved.
func (s *ContentService) AddReaction(ctx context.Context, userID string, postID string, kind string) (model.Reaction, []gamification.Achievement, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = "like"
	}

	authorID, err := s.content.PostAuthor(ctx, postID)
	if err != nil {
		return model.Reaction{}, nil, err
	}

	reaction := model.Reaction{
		PostID:    postID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.content.UpsertReaction(ctx, reaction); err != nil {
		return model.Reaction{}, nil, err
	}

	return reaction, s.award(ctx, authorID), nil
}

// award runs the badge check without failing the surrounding write; a
// missed award self-heals on the next check.
func (s *ContentService) award(ctx context.Context, userID string) []gamification.Achievement {
	newly, err := s.badges.CheckAndAwardBadges(ctx, userID)
	if err != nil {
		slog.Warn("badge check failed after content write", "user_id", userID, "error", err)
		return nil
	}
	return newly
}
