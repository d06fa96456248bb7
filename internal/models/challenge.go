package models

import "time"

// Daily challenge goal types.
const (
	GoalTotalClicks = "total_clicks"
	GoalStreakDays  = "streak_days"
)

// DailyChallenge is a challenge definition. The rotation job stamps a small
// set of definitions with the current date; only stamped rows are live.
type DailyChallenge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	GoalType    string    `gorm:"not null;size:50" json:"goal_type"`
	GoalValue   int64     `gorm:"not null" json:"goal_value"`
	RewardText  string    `gorm:"size:255" json:"reward_text"`
	ActiveDate  string    `gorm:"size:10;index" json:"active_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for DailyChallenge model.
func (DailyChallenge) TableName() string {
	return "daily_challenges"
}

// ChallengeCompletion records a user finishing a challenge, once.
type ChallengeCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}

// TableName specifies the table name for ChallengeCompletion model.
func (ChallengeCompletion) TableName() string {
	return "user_challenge_completions"
}
