// Package leaderboard ranks players by lifetime clicks.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/pkg/logger"
)

// UserRepository interface for profile operations.
type UserRepository interface {
	TopByClicks(ctx context.Context, limit int) ([]models.UserProfile, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
}

// AchievementRepository interface for unlock counts.
type AchievementRepository interface {
	CountUnlocks(ctx context.Context, userID string) (int64, error)
}

// Entry represents a single entry in the leaderboard.
type Entry struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	TotalClicks      int64  `json:"total_clicks"`
	Coins            int64  `json:"coins"`
	IsPremium        bool   `json:"is_premium"`
	AchievementCount int64  `json:"achievement_count"`
}

// Service builds click leaderboards.
type Service struct {
	userRepo        UserRepository
	achievementRepo AchievementRepository
	log             *logger.Logger
}

// NewService creates a new leaderboard service with concrete repository types.
func NewService(userRepo *repository.UserRepository, achievementRepo *repository.AchievementRepository, log *logger.Logger) *Service {
	return &Service{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		log:             log,
	}
}

// NewServiceWithInterfaces creates a new leaderboard service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(userRepo UserRepository, achievementRepo AchievementRepository, log *logger.Logger) *Service {
	return &Service{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		log:             log,
	}
}

// Top returns the highest-clicking players, ranked from 1.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := s.userRepo.TopByClicks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(users))
	for i, user := range users {
		count, err := s.achievementRepo.CountUnlocks(ctx, user.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to count unlocks for leaderboard")
		}
		entries = append(entries, Entry{
			Rank:             i + 1,
			UserID:           user.ID,
			Username:         user.Username,
			TotalClicks:      user.TotalClicks,
			Coins:            user.Coins,
			IsPremium:        user.IsPremium,
			AchievementCount: count,
		})
	}
	return entries, nil
}
