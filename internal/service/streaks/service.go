// Package streaks tracks consecutive daily click chains.
package streaks

import (
	"context"
	"fmt"
	"time"

	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/pkg/logger"
)

const dateLayout = "2006-01-02"

// StreakRepository interface for streak row operations.
type StreakRepository interface {
	Get(ctx context.Context, userID string) (*models.ClickStreak, error)
	Create(ctx context.Context, streak *models.ClickStreak) error
	Update(ctx context.Context, streak *models.ClickStreak) error
}

// Clock supplies the current time. Injected so the day-boundary state machine
// is testable without sleeping across midnight.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Service advances per-user daily streaks.
type Service struct {
	streakRepo StreakRepository
	clock      Clock
	log        *logger.Logger
}

// NewService creates a new streak service with concrete repository types.
func NewService(streakRepo *repository.StreakRepository, log *logger.Logger) *Service {
	return &Service{
		streakRepo: streakRepo,
		clock:      SystemClock{},
		log:        log,
	}
}

// NewServiceWithInterfaces creates a new streak service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(streakRepo StreakRepository, clock Clock, log *logger.Logger) *Service {
	return &Service{
		streakRepo: streakRepo,
		clock:      clock,
		log:        log,
	}
}

// RecordClick advances the user's streak for today's click and returns the
// resulting row. Per UTC calendar day the transition is:
//
//	no row        -> current 1, longest 1
//	same day      -> unchanged
//	yesterday     -> current+1, longest raised when passed
//	older         -> current reset to 1, longest kept
func (s *Service) RecordClick(ctx context.Context, userID string) (*models.ClickStreak, error) {
	now := s.clock.Now().UTC()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	streak, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if streak == nil {
		streak = &models.ClickStreak{
			UserID:        userID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastClickDate: today,
		}
		if err := s.streakRepo.Create(ctx, streak); err != nil {
			return nil, fmt.Errorf("failed to start streak: %w", err)
		}
		s.log.Debug().Str("user_id", userID).Msg("Started new click streak")
		return streak, nil
	}

	switch streak.LastClickDate {
	case today:
		return streak, nil
	case yesterday:
		streak.CurrentStreak++
		if streak.CurrentStreak > streak.LongestStreak {
			streak.LongestStreak = streak.CurrentStreak
		}
	default:
		streak.CurrentStreak = 1
	}
	streak.LastClickDate = today

	if err := s.streakRepo.Update(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to advance streak: %w", err)
	}
	return streak, nil
}

// Get returns the user's streak, reporting a broken chain as current 0 when
// the last click is older than yesterday. The row itself is only mutated on
// clicks.
func (s *Service) Get(ctx context.Context, userID string) (*models.ClickStreak, error) {
	streak, err := s.streakRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &models.ClickStreak{UserID: userID}, nil
	}

	now := s.clock.Now().UTC()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if streak.LastClickDate != today && streak.LastClickDate != yesterday {
		broken := *streak
		broken.CurrentStreak = 0
		return &broken, nil
	}
	return streak, nil
}
