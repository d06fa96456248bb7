// Package achievements evaluates and unlocks achievements.
package achievements

import (
	"context"
	"fmt"

	prommetrics "github.com/clickempire/click-empire/internal/metrics"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/notifier"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/pkg/logger"
)

// AchievementRepository interface for achievement operations.
type AchievementRepository interface {
	GetAll(ctx context.Context) ([]models.Achievement, error)
	Unlock(ctx context.Context, userID string, achievementID uint) (bool, error)
	GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error)
	CountUnlocks(ctx context.Context, userID string) (int64, error)
}

// ClickSnapshot carries the totals a click produced, so evaluation never
// re-reads state that may have moved on.
type ClickSnapshot struct {
	UserID      string
	Username    string
	UserTotal   int64
	GlobalCount int64
}

// Service evaluates achievement conditions against click snapshots.
type Service struct {
	achievementRepo AchievementRepository
	publisher       notifier.Publisher
	log             *logger.Logger
}

// NewService creates a new achievement service with concrete repository types.
func NewService(achievementRepo *repository.AchievementRepository, publisher notifier.Publisher, log *logger.Logger) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		publisher:       publisher,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new achievement service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(achievementRepo AchievementRepository, publisher notifier.Publisher, log *logger.Logger) *Service {
	return &Service{
		achievementRepo: achievementRepo,
		publisher:       publisher,
		log:             log,
	}
}

// Evaluate checks every achievement definition against the snapshot and
// unlocks the ones whose condition is met. Unlocks are idempotent, so a
// losing racer sees a duplicate and moves on. Returns the newly unlocked
// definitions.
func (s *Service) Evaluate(ctx context.Context, snap ClickSnapshot) ([]models.Achievement, error) {
	definitions, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}

	var unlocked []models.Achievement
	for _, def := range definitions {
		if !conditionMet(&def, snap) {
			continue
		}

		isNew, err := s.achievementRepo.Unlock(ctx, snap.UserID, def.ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Str("user_id", snap.UserID).
				Uint("achievement_id", def.ID).
				Msg("Failed to unlock achievement")
			continue
		}
		if !isNew {
			continue
		}

		unlocked = append(unlocked, def)
		prommetrics.RecordAchievementUnlocked(def.ConditionType)
		s.log.Info().
			Str("user_id", snap.UserID).
			Str("achievement", def.Name).
			Msg("Achievement unlocked")

		event := notifier.AchievementEvent{
			Username:    snap.Username,
			Achievement: def.Name,
			Icon:        def.Icon,
		}
		if err := s.publisher.Publish(ctx, notifier.ChannelAchievements, "achievement", event); err != nil {
			s.log.Warn().Err(err).Str("achievement", def.Name).Msg("Failed to publish achievement event")
		}
	}
	return unlocked, nil
}

// conditionMet evaluates one definition against the snapshot.
func conditionMet(def *models.Achievement, snap ClickSnapshot) bool {
	switch def.ConditionType {
	case models.ConditionTotalClicks:
		return snap.UserTotal >= def.ConditionValue
	case models.ConditionGlobalCount:
		return snap.GlobalCount >= def.ConditionValue
	case models.ConditionSpecialNumber:
		return snap.GlobalCount == def.ConditionValue
	default:
		return false
	}
}

// UserAchievement is a definition annotated with the user's unlock state.
type UserAchievement struct {
	models.Achievement
	Unlocked bool `json:"unlocked"`
}

// ListForUser returns all achievement definitions annotated with whether the
// user has unlocked each one.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]UserAchievement, error) {
	definitions, err := s.achievementRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
	}

	unlocks, err := s.achievementRepo.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unlocks: %w", err)
	}
	unlockedIDs := make(map[uint]bool, len(unlocks))
	for _, u := range unlocks {
		unlockedIDs[u.AchievementID] = true
	}

	result := make([]UserAchievement, 0, len(definitions))
	for _, def := range definitions {
		result = append(result, UserAchievement{
			Achievement: def,
			Unlocked:    unlockedIDs[def.ID],
		})
	}
	return result, nil
}
