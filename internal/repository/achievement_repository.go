package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// AchievementRepository handles achievement definitions and unlocks.
type AchievementRepository struct {
	db *DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create creates an achievement definition.
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

// GetAll retrieves every achievement definition.
func (r *AchievementRepository) GetAll(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).Order("condition_value ASC").Find(&achievements).Error
	return achievements, err
}

// HasUnlocked checks whether the user already holds the achievement.
func (r *AchievementRepository) HasUnlocked(ctx context.Context, userID string, achievementID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Unlock records an unlock for the user. Idempotent: an existing unlock, or a
// concurrent insert losing to the unique index, reports unlocked=false with
// no error.
func (r *AchievementRepository) Unlock(ctx context.Context, userID string, achievementID uint) (unlocked bool, err error) {
	exists, err := r.HasUnlocked(ctx, userID, achievementID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	row := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to another click; already unlocked.
			return false, nil
		}
		return false, apperr.Wrapf(apperr.KindUnavailable, err, "failed to unlock achievement %d", achievementID)
	}
	return true, nil
}

// GetUserAchievements retrieves a user's unlocks with definitions preloaded.
func (r *AchievementRepository) GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var unlocks []models.UserAchievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Achievement").
		Order("unlocked_at DESC").
		Find(&unlocks).Error
	return unlocks, err
}

// CountUnlocks returns the number of achievements a user has unlocked.
func (r *AchievementRepository) CountUnlocks(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
