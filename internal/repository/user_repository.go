package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// UserRepository handles profile rows.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new profile.
func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Newf(apperr.KindConflict, "username %q already taken", user.Username)
		}
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to create profile")
	}
	return nil
}

// GetByID retrieves a profile by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "profile %s not found", id)
		}
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get profile %s", id)
	}
	return &user, nil
}

// GetByUsername retrieves a profile by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "profile %q not found", username)
		}
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get profile %q", username)
	}
	return &user, nil
}

// CreditCoins atomically adds coins to a user's balance and returns the new
// balance. Same lost-update discipline as the click counters.
func (r *UserRepository) CreditCoins(ctx context.Context, userID string, coins int64) (int64, error) {
	var balance int64
	row := r.db.WithContext(ctx).Raw(
		"UPDATE profiles SET coins = coins + ? WHERE id = ? RETURNING coins",
		coins, userID,
	).Scan(&balance)
	if row.Error != nil {
		return 0, apperr.Wrapf(apperr.KindUnavailable, row.Error, "failed to credit coins")
	}
	if row.RowsAffected == 0 {
		return 0, apperr.Newf(apperr.KindNotFound, "profile %s not found", userID)
	}
	return balance, nil
}

// SetPremium toggles the premium flag.
func (r *UserRepository) SetPremium(ctx context.Context, userID string, premium bool) error {
	res := r.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("id = ?", userID).
		Update("is_premium", premium)
	if res.Error != nil {
		return apperr.Wrapf(apperr.KindUnavailable, res.Error, "failed to set premium")
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "profile %s not found", userID)
	}
	return nil
}

// TopByClicks returns profiles ordered by total clicks, for the leaderboard.
func (r *UserRepository) TopByClicks(ctx context.Context, limit int) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.WithContext(ctx).
		Order("total_clicks DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list top profiles")
	}
	return users, nil
}
