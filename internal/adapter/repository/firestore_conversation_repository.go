package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"flatmatex/internal/domain/entity"
	"flatmatex/internal/domain/repository"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/logger"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// GetOrCreate uses the normalized pair key as the document ID and a keyed
// Create call, so two concurrent first-contact requests converge on one
// conversation: the loser of the race gets AlreadyExists and re-fetches.
func (r *firestoreConversationRepository) GetOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	id := entity.ConversationID(userA, userB)
	docRef := r.client.Collection("conversations").Doc(id)

	doc, err := docRef.Get(ctx)
	if err == nil {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return nil, errors.Internal("Failed to parse conversation data", err)
		}
		return &conversation, nil
	}
	if status.Code(err) != codes.NotFound {
		return nil, errors.Internal("Failed to get conversation", err)
	}

	now := time.Now()
	conversation := &entity.Conversation{
		ID:            id,
		Participants:  []string{userA, userB},
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := docRef.Create(ctx, conversation); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			// Lost the race; the other side's document wins.
			doc, err := docRef.Get(ctx)
			if err != nil {
				return nil, errors.Internal("Failed to re-fetch conversation", err)
			}
			var existing entity.Conversation
			if err := doc.DataTo(&existing); err != nil {
				return nil, errors.Internal("Failed to parse conversation data", err)
			}
			return &existing, nil
		}
		return nil, errors.Internal("Failed to create conversation", err)
	}

	return conversation, nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch conversations", err)
	}

	var conversations []*entity.Conversation
	for _, doc := range docs {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			logger.Warn("Skipping malformed conversation %s: %v", doc.Ref.ID, err)
			continue
		}
		conversations = append(conversations, &conversation)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) UpdateLastMessage(ctx context.Context, id, preview string, at time.Time) error {
	_, err := r.client.Collection("conversations").Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: preview},
		{Path: "lastMessageAt", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return errors.Internal("Failed to update conversation summary", err)
	}

	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("conversations").Doc(message.ConversationID).
		Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error {
	query := r.client.Collection("conversations").Doc(conversationID).
		Collection("messages").
		Where("receiverId", "==", receiverID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to fetch unread messages", err)
	}
	if len(docs) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for _, doc := range docs {
		batch.Update(doc.Ref, []firestore.Update{
			{Path: "read", Value: true},
		})
	}
	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to mark messages read", err)
	}

	return nil
}
