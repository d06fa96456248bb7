package models

import "time"

// Achievement condition types. Threshold conditions unlock once the metric
// reaches the value; special_number requires an exact hit on the global count.
const (
	ConditionTotalClicks   = "total_clicks"
	ConditionGlobalCount   = "global_count"
	ConditionSpecialNumber = "special_number"
)

// Achievement is a static unlock definition.
type Achievement struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Icon           string    `gorm:"size:50" json:"icon"`
	ConditionType  string    `gorm:"not null;size:50;index" json:"condition_type"`
	ConditionValue int64     `gorm:"not null" json:"condition_value"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for Achievement model.
func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records an unlock. The composite unique index makes the
// unlock idempotent at the store level.
type UserAchievement struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        string      `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint        `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
	UnlockedAt    time.Time   `gorm:"not null" json:"unlocked_at"`
}

// TableName specifies the table name for UserAchievement model.
func (UserAchievement) TableName() string {
	return "user_achievements"
}
