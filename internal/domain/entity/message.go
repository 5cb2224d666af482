package entity

import "time"

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	ReceiverID     string    `json:"receiver_id" firestore:"receiverId"`
	Content        string    `json:"message" firestore:"content"`
	Read           bool      `json:"read" firestore:"read"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt"`
}

const previewLimit = 100

// Preview returns the content truncated for the conversation summary.
func (m *Message) Preview() string {
	runes := []rune(m.Content)
	if len(runes) <= previewLimit {
		return m.Content
	}
	return string(runes[:previewLimit])
}
