package websocket

import "time"

// Channel protocol event types. Clients drive membership with join/leave;
// the server pushes new-message to every client joined to a conversation's
// channel.
const (
	EventJoinConversation  = "join-conversation"
	EventLeaveConversation = "leave-conversation"
	EventNewMessage        = "new-message"
	EventError             = "error"
)

type Event struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversationId,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      string      `json:"timestamp"`
}

func NewEvent(eventType, conversationID string, data interface{}) Event {
	return Event{
		Type:           eventType,
		ConversationID: conversationID,
		Data:           data,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}
