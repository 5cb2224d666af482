package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	members map[string][]string
}

func (g *fakeGuard) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	for _, member := range g.members[conversationID] {
		if member == userID {
			return true, nil
		}
	}
	return false, nil
}

func newTestClient(id, userID string) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func register(m *Manager, client *Client) {
	m.mutex.Lock()
	m.clients[client.ID] = client
	m.mutex.Unlock()
}

func TestBroadcastReachesJoinedClientsOnly(t *testing.T) {
	m := NewManager()
	joined := newTestClient("c1", "user-a")
	bystander := newTestClient("c2", "user-b")
	register(m, joined)
	register(m, bystander)

	m.join(joined, "conv-1")
	m.BroadcastToConversation("conv-1", NewEvent(EventNewMessage, "conv-1", map[string]string{"message": "hi"}))

	select {
	case payload := <-joined.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventNewMessage, event.Type)
		assert.Equal(t, "conv-1", event.ConversationID)
	default:
		t.Fatal("joined client received nothing")
	}

	select {
	case <-bystander.Send:
		t.Fatal("bystander should not receive the broadcast")
	default:
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	m := NewManager()
	client := newTestClient("c1", "user-a")
	register(m, client)

	m.join(client, "conv-1")
	m.leave(client, "conv-1")
	m.BroadcastToConversation("conv-1", NewEvent(EventNewMessage, "conv-1", nil))

	select {
	case <-client.Send:
		t.Fatal("left client should not receive the broadcast")
	default:
	}

	// The empty channel is dropped entirely.
	m.mutex.RLock()
	_, ok := m.channels["conv-1"]
	m.mutex.RUnlock()
	assert.False(t, ok)
}

func TestRemoveClientCleansChannels(t *testing.T) {
	m := NewManager()
	client := newTestClient("c1", "user-a")
	register(m, client)
	m.join(client, "conv-1")
	m.join(client, "conv-2")

	m.removeClient(client)

	m.mutex.RLock()
	assert.Empty(t, m.clients)
	assert.Empty(t, m.channels)
	m.mutex.RUnlock()

	_, open := <-client.Send
	assert.False(t, open)

	// A second removal of the same client is a no-op.
	m.removeClient(client)
}

func TestBroadcastSurvivesConcurrentDisconnect(t *testing.T) {
	m := NewManager()
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					m.BroadcastToConversation("conv-1", NewEvent(EventNewMessage, "conv-1", nil))
				}
			}
		}()
	}

	// Churn clients through the channel while broadcasts are in flight.
	// The one-slot buffers also force broadcasters down the drop path.
	for i := 0; i < 200; i++ {
		client := &Client{
			ID:     fmt.Sprintf("c%d", i),
			UserID: "user-a",
			Send:   make(chan []byte, 1),
		}
		register(m, client)
		m.join(client, "conv-1")
		m.removeClient(client)
	}

	close(done)
	wg.Wait()

	m.mutex.RLock()
	assert.Empty(t, m.clients)
	m.mutex.RUnlock()
}

func TestJoinWithoutGuardDenied(t *testing.T) {
	m := NewManager()
	client := newTestClient("c1", "user-a")
	register(m, client)

	join, err := json.Marshal(Event{Type: EventJoinConversation, ConversationID: "conv-1"})
	require.NoError(t, err)

	m.handleEvent(client, join)

	m.mutex.RLock()
	_, ok := m.channels["conv-1"]
	m.mutex.RUnlock()
	assert.False(t, ok)

	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventError, event.Type)
	default:
		t.Fatal("client should receive an error event")
	}
}

func TestHandleEventJoinChecksMembership(t *testing.T) {
	m := NewManager()
	m.SetGuard(&fakeGuard{members: map[string][]string{"conv-1": {"user-a"}}})

	member := newTestClient("c1", "user-a")
	outsider := newTestClient("c2", "user-b")
	register(m, member)
	register(m, outsider)

	join, err := json.Marshal(Event{Type: EventJoinConversation, ConversationID: "conv-1"})
	require.NoError(t, err)

	m.handleEvent(member, join)
	m.handleEvent(outsider, join)

	m.mutex.RLock()
	members := m.channels["conv-1"]
	m.mutex.RUnlock()
	require.Len(t, members, 1)
	assert.Contains(t, members, "c1")

	// The rejected client gets an error event back.
	select {
	case payload := <-outsider.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventError, event.Type)
	default:
		t.Fatal("outsider should receive an error event")
	}
}

func TestHandleEventRejectsMalformedInput(t *testing.T) {
	m := NewManager()
	client := newTestClient("c1", "user-a")
	register(m, client)

	m.handleEvent(client, []byte("not json"))

	select {
	case payload := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventError, event.Type)
	default:
		t.Fatal("client should receive an error event")
	}
}
