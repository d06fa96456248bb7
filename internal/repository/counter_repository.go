package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// CounterRepository owns the singleton global counter and the click audit log.
type CounterRepository struct {
	db *DB
}

// NewCounterRepository creates a new counter repository.
func NewCounterRepository(db *DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// EnsureCounter creates the singleton counter row if it does not exist yet.
func (r *CounterRepository) EnsureCounter(ctx context.Context) error {
	counter := models.GlobalCounter{
		ID:          models.GlobalCounterID,
		LastUpdated: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Create(&counter).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to ensure global counter row")
	}
	return nil
}

// Get returns the current counter row.
func (r *CounterRepository) Get(ctx context.Context) (*models.GlobalCounter, error) {
	var counter models.GlobalCounter
	if err := r.db.WithContext(ctx).First(&counter, models.GlobalCounterID).Error; err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get global counter")
	}
	return &counter, nil
}

// ApplyClick atomically advances the global counter and the user's personal
// total by delta, and appends the click audit row, all in one transaction.
// The counter bumps are single UPDATE statements so concurrent clicks can
// never lose updates, and RETURNING hands back the exact post-increment
// values this click produced.
func (r *CounterRepository) ApplyClick(ctx context.Context, userID string, delta int64) (globalCount, userTotal int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(
			"UPDATE global_counters SET count = count + ?, last_updated = ? WHERE id = ? RETURNING count",
			delta, time.Now().UTC(), models.GlobalCounterID,
		).Scan(&globalCount)
		if row.Error != nil {
			return apperr.Wrapf(apperr.KindUnavailable, row.Error, "failed to increment global counter")
		}
		if row.RowsAffected == 0 {
			return apperr.Wrap(apperr.KindNotFound, "global counter row missing", gorm.ErrRecordNotFound)
		}

		row = tx.Raw(
			"UPDATE profiles SET total_clicks = total_clicks + ?, updated_at = ? WHERE id = ? RETURNING total_clicks",
			delta, time.Now().UTC(), userID,
		).Scan(&userTotal)
		if row.Error != nil {
			return apperr.Wrapf(apperr.KindUnavailable, row.Error, "failed to increment user clicks")
		}
		if row.RowsAffected == 0 {
			return apperr.Wrapf(apperr.KindNotFound, gorm.ErrRecordNotFound, "profile %s missing", userID)
		}

		event := models.ClickEvent{
			UserID:             userID,
			GlobalCountAtClick: globalCount,
			ClickedAt:          time.Now().UTC(),
		}
		if err := tx.Create(&event).Error; err != nil {
			return apperr.Wrapf(apperr.KindUnavailable, err, "failed to append click event")
		}
		return nil
	})
	if err != nil {
		// Begin and commit failures bypass the callback; classify them
		// as retryable too.
		if apperr.KindOf(err) == apperr.KindUnknown {
			err = apperr.Wrap(apperr.KindUnavailable, "click transaction failed", err)
		}
		return 0, 0, err
	}
	return globalCount, userTotal, nil
}

// RecentClicks returns the newest click events for a user, for audit views.
func (r *CounterRepository) RecentClicks(ctx context.Context, userID string, limit int) ([]models.ClickEvent, error) {
	var events []models.ClickEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("clicked_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list click events")
	}
	return events, nil
}

// MilestoneRepository handles global milestone rows.
type MilestoneRepository struct {
	db *DB
}

// NewMilestoneRepository creates a new milestone repository.
func NewMilestoneRepository(db *DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// MarkReached flags every unreached milestone at or below count and returns
// the milestones newly reached by this call.
func (r *MilestoneRepository) MarkReached(ctx context.Context, count int64) ([]models.GlobalMilestone, error) {
	var reached []models.GlobalMilestone
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("reached = ? AND milestone_value <= ?", false, count).
			Order("milestone_value ASC").
			Find(&reached).Error; err != nil {
			return err
		}
		if len(reached) == 0 {
			return nil
		}
		now := time.Now().UTC()
		ids := make([]uint, 0, len(reached))
		for i := range reached {
			ids = append(ids, reached[i].ID)
			reached[i].Reached = true
			reached[i].ReachedAt = &now
		}
		return tx.Model(&models.GlobalMilestone{}).
			Where("id IN ? AND reached = ?", ids, false).
			Updates(map[string]interface{}{"reached": true, "reached_at": now}).Error
	})
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to mark milestones reached")
	}
	return reached, nil
}

// Next returns the lowest unreached milestone, or nil when none remain.
func (r *MilestoneRepository) Next(ctx context.Context) (*models.GlobalMilestone, error) {
	var milestone models.GlobalMilestone
	err := r.db.WithContext(ctx).
		Where("reached = ?", false).
		Order("milestone_value ASC").
		First(&milestone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get next milestone")
	}
	return &milestone, nil
}
