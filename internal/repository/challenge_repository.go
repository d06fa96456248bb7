package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// ChallengeRepository handles daily challenge definitions and completions.
type ChallengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new challenge repository.
func NewChallengeRepository(db *DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create creates a challenge definition.
func (r *ChallengeRepository) Create(ctx context.Context, challenge *models.DailyChallenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

// ActiveOn returns the challenges stamped with the given date.
func (r *ChallengeRepository) ActiveOn(ctx context.Context, date string) ([]models.DailyChallenge, error) {
	var challenges []models.DailyChallenge
	err := r.db.WithContext(ctx).
		Where("active_date = ?", date).
		Order("id ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list active challenges")
	}
	return challenges, nil
}

// ActivateRandom stamps count random definitions with the given date. Already
// stamped rows are left alone so rotation is idempotent within a day.
func (r *ChallengeRepository) ActivateRandom(ctx context.Context, date string, count int) (int, error) {
	active, err := r.ActiveOn(ctx, date)
	if err != nil {
		return 0, err
	}
	if len(active) >= count {
		return 0, nil
	}

	var picked []models.DailyChallenge
	err = r.db.WithContext(ctx).
		Where("active_date <> ? OR active_date IS NULL OR active_date = ''", date).
		Order("RANDOM()").
		Limit(count - len(active)).
		Find(&picked).Error
	if err != nil {
		return 0, apperr.Wrapf(apperr.KindUnavailable, err, "failed to pick challenges")
	}
	if len(picked) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(picked))
	for _, c := range picked {
		ids = append(ids, c.ID)
	}
	err = r.db.WithContext(ctx).Model(&models.DailyChallenge{}).
		Where("id IN ?", ids).
		Update("active_date", date).Error
	if err != nil {
		return 0, apperr.Wrapf(apperr.KindUnavailable, err, "failed to activate challenges")
	}
	return len(picked), nil
}

// Complete records a completion. Idempotent: a duplicate completion, racing
// or repeated, reports completed=false with no error.
func (r *ChallengeRepository) Complete(ctx context.Context, userID string, challengeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChallengeCompletion{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	row := &models.ChallengeCompletion{
		UserID:      userID,
		ChallengeID: challengeID,
		CompletedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, apperr.Wrapf(apperr.KindUnavailable, err, "failed to record challenge completion")
	}
	return true, nil
}

// CompletedIDs returns the set of challenge IDs the user has completed.
func (r *ChallengeRepository) CompletedIDs(ctx context.Context, userID string) (map[uint]bool, error) {
	var completions []models.ChallengeCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&completions).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list challenge completions")
	}
	done := make(map[uint]bool, len(completions))
	for _, c := range completions {
		done[c.ChallengeID] = true
	}
	return done, nil
}
