package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case drop models.
const (
	DropModelFixedPool      = "fixed_pool"
	DropModelWeightedRarity = "weighted_rarity"
)

// Item is a cosmetic item definition.
type Item struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	ItemType    string          `gorm:"not null;size:50;index" json:"item_type"`
	Rarity      string          `gorm:"not null;size:50;index" json:"rarity"`
	PreviewData json.RawMessage `gorm:"type:jsonb" json:"preview_data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name for Item model.
func (Item) TableName() string {
	return "items"
}

// BeforeCreate assigns a UUID when none was provided.
func (i *Item) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// UserItem is an inventory row. Granting an already-owned item increments
// Quantity instead of inserting a duplicate row.
type UserItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_item" json:"user_id"`
	ItemID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_item" json:"item_id"`
	Item       Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Equipped   bool      `gorm:"not null;default:false" json:"equipped"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	ObtainedAt time.Time `gorm:"not null" json:"obtained_at"`
}

// TableName specifies the table name for UserItem model.
func (UserItem) TableName() string {
	return "user_items"
}

// Case is a loot box definition. RarityWeights is only consulted for the
// weighted_rarity drop model.
type Case struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	IsFree        bool            `gorm:"not null;default:true" json:"is_free"`
	OneTimeOnly   bool            `gorm:"not null;default:false" json:"one_time_only"`
	DropModel     string          `gorm:"not null;size:50;default:fixed_pool" json:"drop_model"`
	RarityWeights json.RawMessage `gorm:"type:jsonb" json:"rarity_weights"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TableName specifies the table name for Case model.
func (Case) TableName() string {
	return "cases"
}

// BeforeCreate assigns a UUID when none was provided.
func (c *Case) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CaseItem links an item into a case's reward pool.
type CaseItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	CaseID string `gorm:"type:uuid;not null;index" json:"case_id"`
	ItemID string `gorm:"type:uuid;not null" json:"item_id"`
	Item   Item   `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// TableName specifies the table name for CaseItem model.
func (CaseItem) TableName() string {
	return "case_items"
}

// CaseClaim is the one-per-user claim row for one_time_only cases. The
// unique index makes concurrent opens race on the insert, not on a read.
type CaseClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_case_claim" json:"user_id"`
	CaseID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_case_claim" json:"case_id"`
	ClaimedAt time.Time `gorm:"not null" json:"claimed_at"`
}

// TableName specifies the table name for CaseClaim model.
func (CaseClaim) TableName() string {
	return "user_case_claims"
}

// CaseOpening is an append-only record of a case being opened.
type CaseOpening struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"type:uuid;not null;index" json:"user_id"`
	CaseID   string    `gorm:"type:uuid;not null;index" json:"case_id"`
	OpenedAt time.Time `gorm:"not null" json:"opened_at"`
}

// TableName specifies the table name for CaseOpening model.
func (CaseOpening) TableName() string {
	return "user_case_openings"
}

// BeforeCreate assigns a UUID when none was provided.
func (o *CaseOpening) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
