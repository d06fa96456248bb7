package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// ItemRepository handles item definitions and user inventories.
type ItemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateItem creates an item definition.
func (r *ItemRepository) CreateItem(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Grant gives the user one copy of an item. An already-owned item gets its
// quantity bumped atomically instead of a duplicate row.
func (r *ItemRepository) Grant(ctx context.Context, userID, itemID string) error {
	res := r.db.WithContext(ctx).Model(&models.UserItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		return apperr.Wrapf(apperr.KindUnavailable, res.Error, "failed to bump item quantity")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	row := &models.UserItem{
		UserID:     userID,
		ItemID:     itemID,
		Quantity:   1,
		ObtainedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent grant created the row first; count this copy.
			return r.db.WithContext(ctx).Model(&models.UserItem{}).
				Where("user_id = ? AND item_id = ?", userID, itemID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", 1)).Error
		}
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to grant item")
	}
	return nil
}

// Inventory returns a user's items with definitions preloaded.
func (r *ItemRepository) Inventory(ctx context.Context, userID string) ([]models.UserItem, error) {
	var items []models.UserItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Item").
		Order("obtained_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list inventory")
	}
	return items, nil
}

// Equip marks the target inventory row equipped after unequipping every other
// item of the same item type, in one transaction so no interleaving can leave
// zero or two equipped items of a type.
func (r *ItemRepository) Equip(ctx context.Context, userID string, userItemID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.UserItem
		err := tx.Preload("Item").
			Where("id = ? AND user_id = ?", userItemID, userID).
			First(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.KindNotFound, "inventory item %d not found", userItemID)
		}
		if err != nil {
			return apperr.Wrapf(apperr.KindUnavailable, err, "failed to load inventory item")
		}

		err = tx.Model(&models.UserItem{}).
			Where("user_id = ? AND equipped = ? AND item_id IN (?)",
				userID, true,
				tx.Model(&models.Item{}).Select("id").Where("item_type = ?", target.Item.ItemType),
			).
			Update("equipped", false).Error
		if err != nil {
			return apperr.Wrapf(apperr.KindUnavailable, err, "failed to unequip same-type items")
		}

		return tx.Model(&models.UserItem{}).
			Where("id = ?", target.ID).
			Update("equipped", true).Error
	})
	if err != nil && apperr.KindOf(err) == apperr.KindUnknown {
		return apperr.Wrap(apperr.KindUnavailable, "equip transaction failed", err)
	}
	return err
}

// Unequip clears the equipped flag on one inventory row.
func (r *ItemRepository) Unequip(ctx context.Context, userID string, userItemID uint) error {
	res := r.db.WithContext(ctx).Model(&models.UserItem{}).
		Where("id = ? AND user_id = ?", userItemID, userID).
		Update("equipped", false)
	if res.Error != nil {
		return apperr.Wrapf(apperr.KindUnavailable, res.Error, "failed to unequip item")
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.KindNotFound, "inventory item %d not found", userItemID)
	}
	return nil
}

// EquippedByType returns the user's equipped item of a type, or nil.
func (r *ItemRepository) EquippedByType(ctx context.Context, userID, itemType string) (*models.UserItem, error) {
	var row models.UserItem
	err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = user_items.item_id").
		Where("user_items.user_id = ? AND user_items.equipped = ? AND items.item_type = ?", userID, true, itemType).
		Preload("Item").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to get equipped item")
	}
	return &row, nil
}
