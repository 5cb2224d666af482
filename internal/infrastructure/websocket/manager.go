package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"flatmatex/pkg/logger"
)

// Client represents one WebSocket connection. A user with several open
// tabs holds several clients.
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// ConversationGuard answers whether a user may join a conversation's
// channel. Implemented by the chat usecase.
type ConversationGuard interface {
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
}

// Manager tracks active connections and per-conversation channel
// membership, and fans broadcasts out to joined clients.
type Manager struct {
	clients    map[string]*Client
	channels   map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	guard      ConversationGuard
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		channels:   make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// SetGuard wires the membership check. Must be called before clients
// connect; the chat usecase is constructed after the manager, so this
// cannot live in NewManager.
func (m *Manager) SetGuard(guard ConversationGuard) {
	m.guard = guard
}

// Start runs the manager's registration loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.ID] = client
				m.mutex.Unlock()
				logger.Debug("Client registered: %s (user %s)", client.ID, client.UserID)

			case client := <-m.Unregister:
				m.removeClient(client)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	delete(m.clients, client.ID)
	for conversationID, members := range m.channels {
		if _, ok := members[client.ID]; ok {
			delete(members, client.ID)
			if len(members) == 0 {
				delete(m.channels, conversationID)
			}
		}
	}
	close(client.Send)
	logger.Debug("Client unregistered: %s (user %s)", client.ID, client.UserID)
}

func (m *Manager) join(client *Client, conversationID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	members, ok := m.channels[conversationID]
	if !ok {
		members = make(map[string]*Client)
		m.channels[conversationID] = members
	}
	members[client.ID] = client
}

func (m *Manager) leave(client *Client, conversationID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.channels[conversationID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(m.channels, conversationID)
		}
	}
}

// BroadcastToConversation delivers an event to every client currently
// joined to the conversation's channel. Delivery is best-effort: a client
// whose send buffer is full is dropped rather than blocking the sender.
// Every send happens under the read lock while removeClient closes Send
// under the write lock, so a send can never overlap the close.
func (m *Manager) BroadcastToConversation(conversationID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event for conversation %s: %v", conversationID, err)
		return
	}

	var dropped []*Client
	m.mutex.RLock()
	for _, client := range m.channels[conversationID] {
		select {
		case client.Send <- payload:
		default:
			dropped = append(dropped, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range dropped {
		logger.Warn("Client %s send buffer full, dropping connection", client.ID)
		m.removeClient(client)
	}
}

func (m *Manager) sendToClient(client *Client, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event for client %s: %v", client.ID, err)
		return
	}

	full := false
	m.mutex.RLock()
	if _, ok := m.clients[client.ID]; ok {
		select {
		case client.Send <- payload:
		default:
			full = true
		}
	}
	m.mutex.RUnlock()

	if full {
		m.removeClient(client)
	}
}

// handleEvent processes one inbound client event: channel joins and
// leaves. Anything else is rejected.
func (m *Manager) handleEvent(client *Client, raw []byte) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		m.sendToClient(client, NewEvent(EventError, "", map[string]string{"error": "Invalid event format"}))
		return
	}

	switch event.Type {
	case EventJoinConversation:
		if event.ConversationID == "" {
			m.sendToClient(client, NewEvent(EventError, "", map[string]string{"error": "Missing conversationId"}))
			return
		}

		if m.guard == nil {
			// Deny rather than deref: a missing SetGuard call must not
			// crash the read pump.
			logger.Error("Join rejected for client %s: no conversation guard configured", client.ID)
			m.sendToClient(client, NewEvent(EventError, event.ConversationID, map[string]string{"error": "Unable to verify conversation membership"}))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ok, err := m.guard.IsParticipant(ctx, event.ConversationID, client.UserID)
		if err != nil || !ok {
			m.sendToClient(client, NewEvent(EventError, event.ConversationID, map[string]string{"error": "Not a participant of this conversation"}))
			return
		}

		m.join(client, event.ConversationID)
		logger.Debug("Client %s joined conversation %s", client.ID, event.ConversationID)

	case EventLeaveConversation:
		if event.ConversationID == "" {
			return
		}
		m.leave(client, event.ConversationID)
		logger.Debug("Client %s left conversation %s", client.ID, event.ConversationID)

	default:
		m.sendToClient(client, NewEvent(EventError, "", map[string]string{"error": "Unknown event type"}))
	}
}

// ReadPump reads events from the connection until it closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for client %s: %v", c.ID, err)
			}
			break
		}

		m.handleEvent(c, raw)
	}
}

// WritePump drains the send buffer to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("WebSocket write error for client %s: %v", c.ID, err)
			return
		}
	}
}
