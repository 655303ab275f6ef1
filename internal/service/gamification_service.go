package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"community-service/internal/event"
	"community-service/internal/gamification"
)

type statsProvider interface {
	UserStats(ctx context.Context, userID string) (gamification.UserStats, error)
}

type badgeStore interface {
	Badges(ctx context.Context, userID string) ([]string, error)
	AddBadges(ctx context.Context, userID string, ids []string) error
}

// GamificationService turns activity counters into badges and progress.
// All scoring lives in the gamification package; this service only reads
// the snapshot, persists badge deltas and reports what changed.
type GamificationService struct {
	stats    statsProvider
	profiles badgeStore
	bus      event.Bus
}

func NewGamificationService(stats statsProvider, profiles badgeStore, bus event.Bus) *GamificationService {
	return &GamificationService{stats: stats, profiles: profiles, bus: bus}
}

// Catalog returns the static achievement list for display.
func (s *GamificationService) Catalog() []gamification.Achievement {
	return gamification.Catalog
}

// Profile computes the full derived view for a user.
func (s *GamificationService) Profile(ctx context.Context, userID string) (gamification.Profile, error) {
	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return gamification.Profile{}, err
	}

	badges, err := s.profiles.Badges(ctx, userID)
	if err != nil {
		return gamification.Profile{}, err
	}

	return gamification.BuildProfile(stats, badges), nil
}

// CheckAndAwardBadges recomputes the unlocked set from current stats,
// persists any newly unlocked ids as a union with the existing list and
// returns only the new achievements. The badge list only ever grows.
func (s *GamificationService) CheckAndAwardBadges(ctx context.Context, userID string) ([]gamification.Achievement, error) {
	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.profiles.Badges(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool, len(existing))
	for _, id := range existing {
		owned[id] = true
	}

	newly := make([]gamification.Achievement, 0)
	for _, a := range gamification.Unlocked(stats) {
		if !owned[a.ID] {
			newly = append(newly, a)
		}
	}

	if len(newly) == 0 {
		return newly, nil
	}

	ids := make([]string, 0, len(newly))
	for _, a := range newly {
		ids = append(ids, a.ID)
	}

	if err := s.profiles.AddBadges(ctx, userID, ids); err != nil {
		return nil, err
	}

	slog.Info("badges awarded", "user_id", userID, "badges", ids)
	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeBadgesAwarded,
			Payload:   map[string]any{"badges": ids},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			ActorID:   userID,
		})
	}

	return newly, nil
}
