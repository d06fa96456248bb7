// Package models defines domain models for the click empire game.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfile represents a player. TotalClicks and Coins are owned by the
// increment pipeline and mutated only through atomic adds.
type UserProfile struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null;size:255" json:"username"`
	TotalClicks int64     `gorm:"not null;default:0" json:"total_clicks"`
	Coins       int64     `gorm:"not null;default:0" json:"coins"`
	IsPremium   bool      `gorm:"not null;default:false" json:"is_premium"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserProfile model.
func (UserProfile) TableName() string {
	return "profiles"
}

// BeforeCreate assigns a UUID when none was provided.
func (u *UserProfile) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
