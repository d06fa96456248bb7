package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// StreakRepository handles per-user daily streak rows.
type StreakRepository struct {
	db *DB
}

// NewStreakRepository creates a new streak repository.
func NewStreakRepository(db *DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get returns a user's streak row, or nil when the user has never clicked.
func (r *StreakRepository) Get(ctx context.Context, userID string) (*models.ClickStreak, error) {
	var streak models.ClickStreak
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get streak for %s", userID)
	}
	return &streak, nil
}

// Create inserts a fresh streak row.
func (r *StreakRepository) Create(ctx context.Context, streak *models.ClickStreak) error {
	if err := r.db.WithContext(ctx).Create(streak).Error; err != nil {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to create streak")
	}
	return nil
}

// Update saves streak mutations. Only the tracker's daily state machine
// writes here, so per-user ordering is sufficient.
func (r *StreakRepository) Update(ctx context.Context, streak *models.ClickStreak) error {
	if err := r.db.WithContext(ctx).Save(streak).Error; err != nil {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to update streak")
	}
	return nil
}
