package repository

import (
	"context"
	"time"

	"flatmatex/internal/domain/entity"
)

type ConversationRepository interface {
	// GetOrCreate resolves the conversation for the unordered pair,
	// creating it atomically on first contact.
	GetOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	UpdateLastMessage(ctx context.Context, id, preview string, at time.Time) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error
}
