package repositories

import (
	"TeleClinic/database"
	"TeleClinic/models"
	"context"
	"fmt"
	"time"
)

// MessageRepository persists chat messages. Ordering inside a chat comes from
// a Redis counter, not from timestamps, so messages written from different
// instances still serialize.
type MessageRepository struct{}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// Append assigns the next sequence number in the chat and stores the message.
func (r *MessageRepository) Append(ctx context.Context, chatID string, senderID int64, content, imageURL string) (*models.ChatMessage, error) {
	seq, err := database.NextChatSeq(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate message sequence: %w", err)
	}

	msg := &models.ChatMessage{
		ChatID:   chatID,
		Seq:      seq,
		SenderID: senderID,
		Content:  content,
		ImageURL: imageURL,
		SentAt:   time.Now().UTC(),
	}
	if err := database.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}
	return msg, nil
}

// History returns the most recent messages of a chat in ascending sequence
// order.
func (r *MessageRepository) History(ctx context.Context, chatID string, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := database.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("seq DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	// Oldest first for the client.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
