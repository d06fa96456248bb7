package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// CaseRepository handles loot case definitions, pools and openings.
type CaseRepository struct {
	db *DB
}

// NewCaseRepository creates a new case repository.
func NewCaseRepository(db *DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Create creates a case definition.
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// AddItem links an item into a case's pool.
func (r *CaseRepository) AddItem(ctx context.Context, caseID, itemID string) error {
	return r.db.WithContext(ctx).Create(&models.CaseItem{CaseID: caseID, ItemID: itemID}).Error
}

// GetByID retrieves a case definition.
func (r *CaseRepository) GetByID(ctx context.Context, caseID string) (*models.Case, error) {
	var c models.Case
	err := r.db.WithContext(ctx).Where("id = ?", caseID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "case %s not found", caseID)
	}
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get case %s", caseID)
	}
	return &c, nil
}

// GetAll retrieves every case definition.
func (r *CaseRepository) GetAll(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&cases).Error
	return cases, err
}

// Pool returns the items in a case's reward pool.
func (r *CaseRepository) Pool(ctx context.Context, caseID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Joins("JOIN case_items ON case_items.item_id = items.id").
		Where("case_items.case_id = ?", caseID).
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to load case pool")
	}
	return items, nil
}

// HasOpened checks whether the user already opened the case.
func (r *CaseRepository) HasOpened(ctx context.Context, userID, caseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CaseOpening{}).
		Where("user_id = ? AND case_id = ?", userID, caseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClaimOneTime inserts the user's claim on a one-time case. Concurrent and
// repeated opens lose on the unique index and surface as a conflict.
func (r *CaseRepository) ClaimOneTime(ctx context.Context, userID, caseID string) error {
	claim := &models.CaseClaim{
		UserID:    userID,
		CaseID:    caseID,
		ClaimedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Newf(apperr.KindConflict, "case %s already opened", caseID)
		}
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to claim case opening")
	}
	return nil
}

// RecordOpening appends an opening record.
func (r *CaseRepository) RecordOpening(ctx context.Context, userID, caseID string) error {
	opening := &models.CaseOpening{
		UserID:   userID,
		CaseID:   caseID,
		OpenedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(opening).Error; err != nil {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to record case opening")
	}
	return nil
}

// OpenedCaseIDs returns the set of case IDs the user has opened.
func (r *CaseRepository) OpenedCaseIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var openings []models.CaseOpening
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&openings).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list case openings")
	}
	opened := make(map[string]bool, len(openings))
	for _, o := range openings {
		opened[o.CaseID] = true
	}
	return opened, nil
}
