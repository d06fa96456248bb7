package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CoinReward is the append-only ledger of cool-number coin grants. The entry
// is persisted before the coin balance is credited so an interrupted grant is
// auditable instead of silently lost or doubled.
type CoinReward struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	NumberValue   int64     `gorm:"not null" json:"number_value"`
	Type          string    `gorm:"not null;size:50" json:"type"`
	Rarity        string    `gorm:"not null;size:50" json:"rarity"`
	CoinsRewarded int64     `gorm:"not null" json:"coins_rewarded"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for CoinReward model.
func (CoinReward) TableName() string {
	return "coin_rewards"
}

// BeforeCreate assigns a UUID when none was provided.
func (r *CoinReward) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
