package repository

import (
	"context"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// RewardRepository handles the cool-number coin ledger.
type RewardRepository struct {
	db *DB
}

// NewRewardRepository creates a new reward repository.
func NewRewardRepository(db *DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// Record appends a ledger entry. Called before the coin credit so that a
// crash between the two leaves an auditable trail instead of a silent loss.
func (r *RewardRepository) Record(ctx context.Context, reward *models.CoinReward) error {
	if err := r.db.WithContext(ctx).Create(reward).Error; err != nil {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to record coin reward")
	}
	return nil
}

// ListByUser returns a user's reward history, newest first.
func (r *RewardRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.CoinReward, error) {
	var rewards []models.CoinReward
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rewards).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list coin rewards")
	}
	return rewards, nil
}
