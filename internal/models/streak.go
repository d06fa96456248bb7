package models

import "time"

// ClickStreak tracks consecutive daily click chains per user. Dates are UTC
// calendar dates in "2006-01-02" form; the tracker mutates the row at most
// once per day.
type ClickStreak struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CurrentStreak int       `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int       `gorm:"not null;default:0" json:"longest_streak"`
	LastClickDate string    `gorm:"size:10" json:"last_click_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for ClickStreak model.
func (ClickStreak) TableName() string {
	return "click_streaks"
}
