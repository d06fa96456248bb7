// Package challenges rotates and evaluates daily challenges.
package challenges

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/pkg/logger"
)

const dateLayout = "2006-01-02"

// ChallengeRepository interface for challenge operations.
type ChallengeRepository interface {
	ActiveOn(ctx context.Context, date string) ([]models.DailyChallenge, error)
	ActivateRandom(ctx context.Context, date string, count int) (int, error)
	Complete(ctx context.Context, userID string, challengeID uint) (bool, error)
	CompletedIDs(ctx context.Context, userID string) (map[uint]bool, error)
}

// Clock supplies the current time, injected for day-boundary tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Service rotates the daily challenge set and checks goals on clicks.
type Service struct {
	cfg           config.SchedulerConfig
	challengeRepo ChallengeRepository
	clock         Clock
	log           *logger.Logger
	cron          *cron.Cron
}

// NewService creates a new challenge service with concrete repository types.
func NewService(cfg config.SchedulerConfig, challengeRepo *repository.ChallengeRepository, log *logger.Logger) *Service {
	return &Service{
		cfg:           cfg,
		challengeRepo: challengeRepo,
		clock:         SystemClock{},
		log:           log,
	}
}

// NewServiceWithInterfaces creates a new challenge service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(cfg config.SchedulerConfig, challengeRepo ChallengeRepository, clock Clock, log *logger.Logger) *Service {
	return &Service{
		cfg:           cfg,
		challengeRepo: challengeRepo,
		clock:         clock,
		log:           log,
	}
}

// Start rotates once for today, then registers the cron rotation.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("Challenge rotation is disabled in configuration")
		return nil
	}

	if err := s.RotateNow(context.Background()); err != nil {
		return err
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.RotationCron, func() {
		if err := s.RotateNow(context.Background()); err != nil {
			s.log.Error().Err(err).Msg("Challenge rotation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register challenge rotation job: %w", err)
	}
	s.cron.Start()

	s.log.Info().
		Str("schedule", s.cfg.RotationCron).
		Int("daily_challenges", s.cfg.DailyChallenge).
		Msg("Challenge rotation started")
	return nil
}

// Stop gracefully shuts down the rotation scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Challenge rotation stopped")
	}
}

// RotateNow stamps today's challenge set. Idempotent within a day.
func (s *Service) RotateNow(ctx context.Context) error {
	today := s.clock.Now().UTC().Format(dateLayout)
	activated, err := s.challengeRepo.ActivateRandom(ctx, today, s.cfg.DailyChallenge)
	if err != nil {
		return fmt.Errorf("failed to rotate challenges: %w", err)
	}
	if activated > 0 {
		s.log.Info().Str("date", today).Int("activated", activated).Msg("Daily challenges rotated")
	}
	return nil
}

// EvaluateOnClick checks today's challenges against the user's totals after
// a click and records completions. Completion is idempotent.
func (s *Service) EvaluateOnClick(ctx context.Context, userID string, userTotal int64, currentStreak int) error {
	today := s.clock.Now().UTC().Format(dateLayout)
	active, err := s.challengeRepo.ActiveOn(ctx, today)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		return nil
	}

	completed, err := s.challengeRepo.CompletedIDs(ctx, userID)
	if err != nil {
		return err
	}

	for _, challenge := range active {
		if completed[challenge.ID] || !goalMet(&challenge, userTotal, currentStreak) {
			continue
		}
		isNew, err := s.challengeRepo.Complete(ctx, userID, challenge.ID)
		if err != nil {
			s.log.Error().
				Err(err).
				Uint("challenge_id", challenge.ID).
				Msg("Failed to record challenge completion")
			continue
		}
		if isNew {
			s.log.Info().
				Str("user_id", userID).
				Str("challenge", challenge.Title).
				Msg("Challenge completed")
		}
	}
	return nil
}

func goalMet(challenge *models.DailyChallenge, userTotal int64, currentStreak int) bool {
	switch challenge.GoalType {
	case models.GoalTotalClicks:
		return userTotal >= challenge.GoalValue
	case models.GoalStreakDays:
		return int64(currentStreak) >= challenge.GoalValue
	default:
		return false
	}
}

// ChallengeView is a challenge annotated with the user's completion state.
type ChallengeView struct {
	models.DailyChallenge
	Completed bool `json:"completed"`
}

// ListForUser returns today's challenges with the user's completion state.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]ChallengeView, error) {
	today := s.clock.Now().UTC().Format(dateLayout)
	active, err := s.challengeRepo.ActiveOn(ctx, today)
	if err != nil {
		return nil, err
	}

	completed, err := s.challengeRepo.CompletedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ChallengeView, 0, len(active))
	for _, challenge := range active {
		views = append(views, ChallengeView{
			DailyChallenge: challenge,
			Completed:      completed[challenge.ID],
		})
	}
	return views, nil
}
