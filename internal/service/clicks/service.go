// Package clicks handles click ingestion and the reward evaluation pipeline.
package clicks

import (
	"context"
	"sync"

	"github.com/clickempire/click-empire/internal/coolnumber"
	prommetrics "github.com/clickempire/click-empire/internal/metrics"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/notifier"
	"github.com/clickempire/click-empire/internal/repository"
	"github.com/clickempire/click-empire/internal/service/achievements"
	"github.com/clickempire/click-empire/pkg/logger"
)

// CounterRepository interface for counter operations.
type CounterRepository interface {
	Get(ctx context.Context) (*models.GlobalCounter, error)
	ApplyClick(ctx context.Context, userID string, delta int64) (globalCount, userTotal int64, err error)
}

// UserRepository interface for profile operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	CreditCoins(ctx context.Context, userID string, coins int64) (int64, error)
}

// RewardRepository interface for the coin ledger.
type RewardRepository interface {
	Record(ctx context.Context, reward *models.CoinReward) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.CoinReward, error)
}

// MilestoneRepository interface for global milestones.
type MilestoneRepository interface {
	MarkReached(ctx context.Context, count int64) ([]models.GlobalMilestone, error)
}

// AchievementEvaluator unlocks achievements for a click snapshot.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, snap achievements.ClickSnapshot) ([]models.Achievement, error)
}

// StreakTracker advances daily streaks.
type StreakTracker interface {
	RecordClick(ctx context.Context, userID string) (*models.ClickStreak, error)
}

// ChallengeEvaluator checks daily challenge goals after a click. Optional.
type ChallengeEvaluator interface {
	EvaluateOnClick(ctx context.Context, userID string, userTotal int64, currentStreak int) error
}

// Limiter throttles click submissions.
type Limiter interface {
	Allow(ctx context.Context, userID string) error
}

// Announcer posts big moments to the outbound webhook. Optional.
type Announcer interface {
	AnnounceMilestone(count int64)
	AnnounceCoolNumber(username string, number int64, result *coolnumber.Result)
}

// Service ingests clicks and feeds the async reward pipeline.
type Service struct {
	counterRepo   CounterRepository
	userRepo      UserRepository
	rewardRepo    RewardRepository
	milestoneRepo MilestoneRepository
	achievements  AchievementEvaluator
	streaks       StreakTracker
	challenges    ChallengeEvaluator
	limiter       Limiter
	publisher     notifier.Publisher
	announcer     Announcer
	log           *logger.Logger

	premiumMultiplier int64

	jobs chan rewardJob
	wg   sync.WaitGroup
}

// Options carries the optional collaborators and tuning knobs.
type Options struct {
	Challenges        ChallengeEvaluator
	Limiter           Limiter
	Announcer         Announcer
	PremiumMultiplier int64
	QueueSize         int
}

// NewService creates a new click service with concrete repository types.
func NewService(
	counterRepo *repository.CounterRepository,
	userRepo *repository.UserRepository,
	rewardRepo *repository.RewardRepository,
	milestoneRepo *repository.MilestoneRepository,
	achievements AchievementEvaluator,
	streaks StreakTracker,
	publisher notifier.Publisher,
	log *logger.Logger,
	opts Options,
) *Service {
	return NewServiceWithInterfaces(counterRepo, userRepo, rewardRepo, milestoneRepo, achievements, streaks, publisher, log, opts)
}

// NewServiceWithInterfaces creates a new click service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	counterRepo CounterRepository,
	userRepo UserRepository,
	rewardRepo RewardRepository,
	milestoneRepo MilestoneRepository,
	achievements AchievementEvaluator,
	streaks StreakTracker,
	publisher notifier.Publisher,
	log *logger.Logger,
	opts Options,
) *Service {
	if opts.PremiumMultiplier <= 0 {
		opts.PremiumMultiplier = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	return &Service{
		counterRepo:       counterRepo,
		userRepo:          userRepo,
		rewardRepo:        rewardRepo,
		milestoneRepo:     milestoneRepo,
		achievements:      achievements,
		streaks:           streaks,
		challenges:        opts.Challenges,
		limiter:           opts.Limiter,
		publisher:         publisher,
		announcer:         opts.Announcer,
		log:               log,
		premiumMultiplier: opts.PremiumMultiplier,
		jobs:              make(chan rewardJob, opts.QueueSize),
	}
}

// Result is what a click returns to the client.
type Result struct {
	GlobalCount int64 `json:"global_count"`
	UserTotal   int64 `json:"user_total"`
	Multiplier  int64 `json:"multiplier"`
}

// Click applies one click for the user. The counter increment is synchronous
// and atomic; reward evaluation is queued and never fails the click.
func (s *Service) Click(ctx context.Context, userID string) (*Result, error) {
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, userID); err != nil {
			prommetrics.RecordClick("rate_limited", false)
			return nil, err
		}
	}

	// The multiplier comes from the stored profile, never from the request.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		prommetrics.RecordClick("error", false)
		return nil, err
	}
	multiplier := int64(1)
	if user.IsPremium {
		multiplier = s.premiumMultiplier
	}

	globalCount, userTotal, err := s.counterRepo.ApplyClick(ctx, userID, multiplier)
	if err != nil {
		prommetrics.RecordClick("error", user.IsPremium)
		return nil, err
	}

	prommetrics.RecordClick("ok", user.IsPremium)
	prommetrics.SetGlobalCounter(globalCount)

	event := notifier.CounterEvent{GlobalCount: globalCount, Username: user.Username}
	if err := s.publisher.Publish(ctx, notifier.ChannelCounter, "counter", event); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish counter event")
	}

	s.enqueue(rewardJob{
		userID:      userID,
		username:    user.Username,
		globalCount: globalCount,
		userTotal:   userTotal,
	})

	return &Result{
		GlobalCount: globalCount,
		UserTotal:   userTotal,
		Multiplier:  multiplier,
	}, nil
}

// CounterValue returns the current global counter.
func (s *Service) CounterValue(ctx context.Context) (int64, error) {
	counter, err := s.counterRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return counter.Count, nil
}

// Rewards returns the user's coin reward history.
func (s *Service) Rewards(ctx context.Context, userID string, limit int) ([]models.CoinReward, error) {
	return s.rewardRepo.ListByUser(ctx, userID, limit)
}
