package usecase

import (
	"context"
	"strings"
	"time"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	ws "flatmatex/internal/infrastructure/websocket"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	wsManager        *ws.Manager
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		wsManager:        wsManager,
	}
}

type SendMessageInput struct {
	ConversationID string
	ReceiverID     string
	Content        string
}

type ConversationResponse struct {
	*entity.Conversation
	OtherUser *entity.PublicProfile `json:"other_user,omitempty"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.PublicProfile `json:"sender,omitempty"`
}

// StartConversation resolves (or lazily creates) the conversation between
// the caller and recipientID.
func (uc *ChatUseCase) StartConversation(ctx context.Context, userID, recipientID string) (*ConversationResponse, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if recipientID == "" {
		return nil, errors.Validation("recipient is required", nil)
	}
	if userID == recipientID {
		return nil, errors.Validation("cannot start a conversation with yourself", nil)
	}

	recipient, err := uc.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	conversation, err := uc.conversationRepo.GetOrCreate(ctx, userID, recipientID)
	if err != nil {
		return nil, err
	}

	return &ConversationResponse{
		Conversation: conversation,
		OtherUser:    recipient.Public(),
	}, nil
}

// ListConversations returns the caller's conversations newest-activity
// first, each annotated with the counterpart's public profile.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationResponse, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	conversations, err := uc.conversationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]string, 0, len(conversations))
	for _, conversation := range conversations {
		if other := conversation.OtherParticipant(userID); other != "" {
			otherIDs = append(otherIDs, other)
		}
	}

	profiles, err := uc.userRepo.GetByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]*ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		resp := &ConversationResponse{Conversation: conversation}
		if other, ok := profiles[conversation.OtherParticipant(userID)]; ok {
			resp.OtherUser = other.Public()
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// SendMessage persists a message from senderID, refreshes the conversation
// summary, and fans the message out to clients joined to the conversation's
// channel.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	if senderID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.Validation("message is required", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}

	if !conversation.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	receiverID := conversation.OtherParticipant(senderID)
	if input.ReceiverID != "" && input.ReceiverID != receiverID {
		return nil, errors.Validation("receiver is not a participant of this conversation", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        input.Content,
		Read:           false,
		CreatedAt:      time.Now(),
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.conversationRepo.UpdateLastMessage(ctx, conversation.ID, message.Preview(), message.CreatedAt); err != nil {
		// Summary staleness is tolerable; the message itself is stored.
		logger.Warn("Failed to update conversation %s summary: %v", conversation.ID, err)
	}

	response := &MessageResponse{
		Message: message,
		Sender:  sender.Public(),
	}

	uc.wsManager.BroadcastToConversation(conversation.ID, ws.NewEvent(ws.EventNewMessage, conversation.ID, response))

	return response, nil
}

// ListMessages returns the conversation's messages oldest-first and, as a
// side effect, marks the messages addressed to the requester as read.
func (uc *ChatUseCase) ListMessages(ctx context.Context, requesterID, conversationID string) ([]*entity.Message, error) {
	if requesterID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conversation.HasParticipant(requesterID) {
		return nil, errors.Forbidden("You are not a participant of this conversation", nil)
	}

	if err := uc.conversationRepo.MarkMessagesRead(ctx, conversationID, requesterID); err != nil {
		logger.Warn("Failed to mark messages read in conversation %s: %v", conversationID, err)
	}

	messages, err := uc.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Reflect the read transition in the returned page.
	for _, message := range messages {
		if message.ReceiverID == requesterID {
			message.Read = true
		}
	}

	return messages, nil
}

// IsParticipant implements the websocket ConversationGuard.
func (uc *ChatUseCase) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return conversation.HasParticipant(userID), nil
}
