package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalCounterID is the primary key of the singleton counter row.
const GlobalCounterID uint = 1

// GlobalCounter is the shared global click counter. There is exactly one row;
// it is created at startup and mutated only through atomic SQL increments.
type GlobalCounter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Count       int64     `gorm:"not null;default:0" json:"count"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
}

// TableName specifies the table name for GlobalCounter model.
func (GlobalCounter) TableName() string {
	return "global_counters"
}

// ClickEvent is an append-only audit record of a single click, capturing the
// global count at the moment the click committed.
type ClickEvent struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"type:uuid;not null;index" json:"user_id"`
	GlobalCountAtClick int64     `gorm:"not null" json:"global_count_at_click"`
	ClickedAt          time.Time `gorm:"not null" json:"clicked_at"`
}

// TableName specifies the table name for ClickEvent model.
func (ClickEvent) TableName() string {
	return "clicks"
}

// BeforeCreate assigns a UUID when none was provided.
func (c *ClickEvent) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// GlobalMilestone is a community goal tied to the global counter.
type GlobalMilestone struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"not null;size:255" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Icon           string     `gorm:"size:50" json:"icon"`
	MilestoneValue int64      `gorm:"not null;uniqueIndex" json:"milestone_value"`
	Reached        bool       `gorm:"not null;default:false" json:"reached"`
	ReachedAt      *time.Time `json:"reached_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName specifies the table name for GlobalMilestone model.
func (GlobalMilestone) TableName() string {
	return "global_milestones"
}
