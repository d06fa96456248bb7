package repository

import (
	"context"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/models"
)

// ChatRepository handles the append-only chat log.
type ChatRepository struct {
	db *DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append stores a chat message.
func (r *ChatRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return apperr.Wrapf(apperr.KindUnavailable, err, "failed to append chat message")
	}
	return nil
}

// Recent returns the newest messages, oldest first for display.
func (r *ChatRepository) Recent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindUnavailable, err, "failed to list chat messages")
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
