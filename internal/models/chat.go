package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is a live chat entry. Moderation is out of scope; messages are
// append-only and read back newest-first.
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Username  string    `gorm:"not null;size:255" json:"username"`
	IsPremium bool      `gorm:"not null;default:false" json:"is_premium"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ChatMessage model.
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// BeforeCreate assigns a UUID when none was provided.
func (m *ChatMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
