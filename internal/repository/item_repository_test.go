package repository

import (
	"context"
	"testing"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

func TestItemRepository_GrantBumpsQuantity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "hoarder", false)
	item := createTestItem(t, db, "Golden Cursor", "cursor", "legendary")

	for i := 0; i < 3; i++ {
		if err := repo.Grant(ctx, user.ID, item.ID); err != nil {
			t.Fatalf("Grant() #%d failed: %v", i+1, err)
		}
	}

	inventory, err := repo.Inventory(ctx, user.ID)
	if err != nil {
		t.Fatalf("Inventory() failed: %v", err)
	}
	if len(inventory) != 1 {
		t.Fatalf("Expected 1 inventory row, got %d", len(inventory))
	}
	if inventory[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", inventory[0].Quantity)
	}
	if inventory[0].Item.Name != "Golden Cursor" {
		t.Error("Expected item definition to be preloaded")
	}
}

func TestItemRepository_EquipExclusivePerType(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "fashionista", false)
	cursorA := createTestItem(t, db, "Cursor A", "cursor", "common")
	cursorB := createTestItem(t, db, "Cursor B", "cursor", "rare")
	theme := createTestItem(t, db, "Dark Theme", "theme", "common")

	for _, it := range []*models.Item{cursorA, cursorB, theme} {
		if err := repo.Grant(ctx, user.ID, it.ID); err != nil {
			t.Fatalf("Grant() failed: %v", err)
		}
	}

	inventory, err := repo.Inventory(ctx, user.ID)
	if err != nil {
		t.Fatalf("Inventory() failed: %v", err)
	}
	rowByItem := make(map[string]uint, len(inventory))
	for _, row := range inventory {
		rowByItem[row.ItemID] = row.ID
	}

	if err := repo.Equip(ctx, user.ID, rowByItem[cursorA.ID]); err != nil {
		t.Fatalf("Equip(cursorA) failed: %v", err)
	}
	if err := repo.Equip(ctx, user.ID, rowByItem[theme.ID]); err != nil {
		t.Fatalf("Equip(theme) failed: %v", err)
	}
	if err := repo.Equip(ctx, user.ID, rowByItem[cursorB.ID]); err != nil {
		t.Fatalf("Equip(cursorB) failed: %v", err)
	}

	equipped, err := repo.EquippedByType(ctx, user.ID, "cursor")
	if err != nil {
		t.Fatalf("EquippedByType(cursor) failed: %v", err)
	}
	if equipped == nil || equipped.ItemID != cursorB.ID {
		t.Errorf("Expected cursor B equipped, got %+v", equipped)
	}

	var equippedCursors int64
	err = db.Model(&models.UserItem{}).
		Joins("JOIN items ON items.id = user_items.item_id").
		Where("user_items.user_id = ? AND user_items.equipped = ? AND items.item_type = ?", user.ID, true, "cursor").
		Count(&equippedCursors).Error
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if equippedCursors != 1 {
		t.Errorf("Expected exactly 1 equipped cursor, got %d", equippedCursors)
	}

	// Equipping cursor B must not touch the theme slot.
	equippedTheme, err := repo.EquippedByType(ctx, user.ID, "theme")
	if err != nil {
		t.Fatalf("EquippedByType(theme) failed: %v", err)
	}
	if equippedTheme == nil || equippedTheme.ItemID != theme.ID {
		t.Error("Expected theme to stay equipped")
	}
}

func TestItemRepository_EquipUnknownRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "nobody", false)

	err := repo.Equip(ctx, user.ID, 9999)
	if !apperr.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestItemRepository_Unequip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "minimalist", false)
	item := createTestItem(t, db, "Plain Cursor", "cursor", "common")
	if err := repo.Grant(ctx, user.ID, item.ID); err != nil {
		t.Fatalf("Grant() failed: %v", err)
	}

	inventory, _ := repo.Inventory(ctx, user.ID)
	if err := repo.Equip(ctx, user.ID, inventory[0].ID); err != nil {
		t.Fatalf("Equip() failed: %v", err)
	}
	if err := repo.Unequip(ctx, user.ID, inventory[0].ID); err != nil {
		t.Fatalf("Unequip() failed: %v", err)
	}

	equipped, err := repo.EquippedByType(ctx, user.ID, "cursor")
	if err != nil {
		t.Fatalf("EquippedByType() failed: %v", err)
	}
	if equipped != nil {
		t.Errorf("Expected nothing equipped, got %+v", equipped)
	}
}
