package repository

import (
	"context"
	"fmt"

	"github.com/clickempire/click-empire/internal/models"
)

// defaultAchievements is the starter achievement catalog, seeded when the
// table is empty.
var defaultAchievements = []models.Achievement{
	{Name: "First Click", Icon: "👆", Description: "Click for the first time", ConditionType: models.ConditionTotalClicks, ConditionValue: 1},
	{Name: "Clicking Along", Icon: "🖱️", Description: "Reach 100 personal clicks", ConditionType: models.ConditionTotalClicks, ConditionValue: 100},
	{Name: "Click Addict", Icon: "🔥", Description: "Reach 1,000 personal clicks", ConditionType: models.ConditionTotalClicks, ConditionValue: 1000},
	{Name: "Click Machine", Icon: "🤖", Description: "Reach 10,000 personal clicks", ConditionType: models.ConditionTotalClicks, ConditionValue: 10000},
	{Name: "Part of History", Icon: "🌍", Description: "The world reaches 100,000 clicks", ConditionType: models.ConditionGlobalCount, ConditionValue: 100000},
	{Name: "Million Strong", Icon: "👑", Description: "The world reaches 1,000,000 clicks", ConditionType: models.ConditionGlobalCount, ConditionValue: 1000000},
	{Name: "Nice.", Icon: "😏", Description: "Land the global counter on exactly 69", ConditionType: models.ConditionSpecialNumber, ConditionValue: 69},
	{Name: "Blaze It", Icon: "🌿", Description: "Land the global counter on exactly 420", ConditionType: models.ConditionSpecialNumber, ConditionValue: 420},
	{Name: "Elite", Icon: "💻", Description: "Land the global counter on exactly 1337", ConditionType: models.ConditionSpecialNumber, ConditionValue: 1337},
}

// defaultMilestones is the starter community milestone ladder.
var defaultMilestones = []models.GlobalMilestone{
	{Title: "First Thousand", Icon: "🎯", Description: "1,000 clicks worldwide", MilestoneValue: 1000},
	{Title: "Ten Thousand Strong", Icon: "🚀", Description: "10,000 clicks worldwide", MilestoneValue: 10000},
	{Title: "Hundred K Club", Icon: "💎", Description: "100,000 clicks worldwide", MilestoneValue: 100000},
	{Title: "The Big Million", Icon: "👑", Description: "1,000,000 clicks worldwide", MilestoneValue: 1000000},
}

// SeedDefaults inserts the starter catalogs into empty tables and ensures the
// singleton counter row exists. Safe to run on every boot.
func SeedDefaults(ctx context.Context, db *DB) error {
	counterRepo := NewCounterRepository(db)
	if err := counterRepo.EnsureCounter(ctx); err != nil {
		return err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Achievement{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count achievements: %w", err)
	}
	if count == 0 {
		if err := db.WithContext(ctx).Create(&defaultAchievements).Error; err != nil {
			return fmt.Errorf("failed to seed achievements: %w", err)
		}
	}

	if err := db.WithContext(ctx).Model(&models.GlobalMilestone{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count milestones: %w", err)
	}
	if count == 0 {
		if err := db.WithContext(ctx).Create(&defaultMilestones).Error; err != nil {
			return fmt.Errorf("failed to seed milestones: %w", err)
		}
	}

	return nil
}
