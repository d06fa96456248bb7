package clicks

import (
	"context"
	"time"

	"github.com/clickempire/click-empire/internal/coolnumber"
	prommetrics "github.com/clickempire/click-empire/internal/metrics"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/internal/notifier"
	"github.com/clickempire/click-empire/internal/service/achievements"
)

// rewardJob is one click's worth of reward evaluation work.
type rewardJob struct {
	userID      string
	username    string
	globalCount int64
	userTotal   int64
}

// enqueue hands a job to the workers. A full queue drops the job: the click
// itself already committed, and a dropped evaluation costs at most one reward
// under extreme load.
func (s *Service) enqueue(job rewardJob) {
	select {
	case s.jobs <- job:
		prommetrics.SetRewardQueueDepth(len(s.jobs))
	default:
		prommetrics.RewardJobsDroppedTotal.Inc()
		s.log.Warn().
			Str("user_id", job.userID).
			Int64("global_count", job.globalCount).
			Msg("Reward queue full, dropping evaluation")
	}
}

// StartWorkers launches n reward evaluation workers.
func (s *Service) StartWorkers(n int) {
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.log.Info().Int("workers", n).Msg("Reward workers started")
}

// Stop closes the queue and waits for in-flight evaluations to drain.
func (s *Service) Stop() {
	close(s.jobs)
	s.wg.Wait()
	s.log.Info().Msg("Reward workers stopped")
}

func (s *Service) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		prommetrics.SetRewardQueueDepth(len(s.jobs))
		s.Evaluate(context.Background(), job.userID, job.username, job.globalCount, job.userTotal)
	}
}

// Evaluate runs the full reward pipeline for one click: cool number grant,
// achievements, streak, challenges and global milestones. Each stage is
// independent; a failed stage is logged and the rest still run.
func (s *Service) Evaluate(ctx context.Context, userID, username string, globalCount, userTotal int64) {
	start := time.Now()
	defer func() {
		prommetrics.ObserveRewardEvalDuration(time.Since(start).Seconds())
	}()

	s.evaluateCoolNumber(ctx, userID, username, globalCount)

	if _, err := s.achievements.Evaluate(ctx, achievements.ClickSnapshot{
		UserID:      userID,
		Username:    username,
		UserTotal:   userTotal,
		GlobalCount: globalCount,
	}); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Achievement evaluation failed")
	}

	currentStreak := 0
	streak, err := s.streaks.RecordClick(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Streak update failed")
	} else {
		currentStreak = streak.CurrentStreak
	}

	if s.challenges != nil {
		if err := s.challenges.EvaluateOnClick(ctx, userID, userTotal, currentStreak); err != nil {
			s.log.Error().Err(err).Str("user_id", userID).Msg("Challenge evaluation failed")
		}
	}

	s.evaluateMilestones(ctx, globalCount)
}

// evaluateCoolNumber classifies the landed-on global count and grants coins.
// The ledger entry is written before the balance credit, so an interruption
// leaves an auditable ledger row rather than a silent loss.
func (s *Service) evaluateCoolNumber(ctx context.Context, userID, username string, globalCount int64) {
	result := coolnumber.Classify(globalCount)
	if !result.IsCool {
		return
	}

	prommetrics.RecordCoolNumber(string(result.Type), string(result.Rarity))

	if result.Coins > 0 {
		reward := &models.CoinReward{
			UserID:        userID,
			NumberValue:   globalCount,
			Type:          string(result.Type),
			Rarity:        string(result.Rarity),
			CoinsRewarded: result.Coins,
		}
		if err := s.rewardRepo.Record(ctx, reward); err != nil {
			s.log.Error().Err(err).Int64("number", globalCount).Msg("Failed to record coin reward")
			return
		}
		if _, err := s.userRepo.CreditCoins(ctx, userID, result.Coins); err != nil {
			s.log.Error().
				Err(err).
				Str("reward_id", reward.ID).
				Msg("Failed to credit coins, ledger entry kept for reconciliation")
			return
		}
		prommetrics.RecordCoinsGranted(result.Coins)
	}

	s.log.Info().
		Str("user_id", userID).
		Int64("number", globalCount).
		Str("type", string(result.Type)).
		Str("rarity", string(result.Rarity)).
		Int64("coins", result.Coins).
		Msg("Cool number hit")

	event := notifier.CoolNumberEvent{
		Username: username,
		Number:   globalCount,
		Type:     string(result.Type),
		Rarity:   string(result.Rarity),
		Coins:    result.Coins,
	}
	if err := s.publisher.Publish(ctx, notifier.ChannelCoolNumbers, "cool_number", event); err != nil {
		s.log.Warn().Err(err).Msg("Failed to publish cool number event")
	}

	if s.announcer != nil {
		s.announcer.AnnounceCoolNumber(username, globalCount, &result)
	}
}

// evaluateMilestones marks newly crossed global milestones and announces them.
func (s *Service) evaluateMilestones(ctx context.Context, globalCount int64) {
	reached, err := s.milestoneRepo.MarkReached(ctx, globalCount)
	if err != nil {
		s.log.Error().Err(err).Msg("Milestone check failed")
		return
	}

	for _, m := range reached {
		s.log.Info().Int64("milestone", m.MilestoneValue).Msg("Global milestone reached")

		event := notifier.MilestoneEvent{Count: m.MilestoneValue}
		if err := s.publisher.Publish(ctx, notifier.ChannelMilestones, "milestone", event); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish milestone event")
		}
		if s.announcer != nil {
			s.announcer.AnnounceMilestone(m.MilestoneValue)
		}
	}
}
