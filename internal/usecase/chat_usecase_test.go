package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatmatex/internal/domain/entity"
	ws "flatmatex/internal/infrastructure/websocket"
	"flatmatex/pkg/errors"
)

func newChatFixture(users ...*entity.User) (*ChatUseCase, *fakeConversationRepo) {
	conversationRepo := newFakeConversationRepo()
	userRepo := newFakeUserRepo(users...)
	return NewChatUseCase(conversationRepo, userRepo, ws.NewManager()), conversationRepo
}

func chatTestUsers() (*entity.User, *entity.User) {
	alice := &entity.User{ID: "user-a", FullName: "Alice", Email: "alice@example.com"}
	bob := &entity.User{ID: "user-b", FullName: "Bob", Email: "bob@example.com"}
	return alice, bob
}

func TestStartConversationBothDirectionsShareOneConversation(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, repo := newChatFixture(alice, bob)
	ctx := context.Background()

	first, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	second, err := uc.StartConversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	assert.Len(t, repo.conversations, 1)
	assert.Equal(t, "Bob", first.OtherUser.FullName)
	assert.Equal(t, "Alice", second.OtherUser.FullName)
}

func TestStartConversationRejectsSelf(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, _ := newChatFixture(alice, bob)

	_, err := uc.StartConversation(context.Background(), alice.ID, alice.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestStartConversationUnknownRecipient(t *testing.T) {
	alice, _ := chatTestUsers()
	uc, _ := newChatFixture(alice)

	_, err := uc.StartConversation(context.Background(), alice.ID, "nobody")

	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestSendMessageStoresAndUpdatesSummary(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, repo := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	response, err := uc.SendMessage(ctx, alice.ID, SendMessageInput{
		ConversationID: conversation.Conversation.ID,
		Content:        "Is the room still available?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, response.Message.ID)
	assert.Equal(t, alice.ID, response.Message.SenderID)
	assert.Equal(t, bob.ID, response.Message.ReceiverID)
	assert.False(t, response.Message.Read)
	assert.Equal(t, "Alice", response.Sender.FullName)
	assert.Equal(t, "Is the room still available?", repo.lastPreview)
}

func TestSendMessageTruncatesSummaryPreview(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, repo := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	long := strings.Repeat("a", 150)
	_, err = uc.SendMessage(ctx, alice.ID, SendMessageInput{
		ConversationID: conversation.Conversation.ID,
		Content:        long,
	})

	require.NoError(t, err)
	assert.Len(t, repo.lastPreview, 100)
}

func TestSendMessageNonParticipantForbidden(t *testing.T) {
	alice, bob := chatTestUsers()
	mallory := &entity.User{ID: "user-m", FullName: "Mallory"}
	uc, _ := newChatFixture(alice, bob, mallory)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, mallory.ID, SendMessageInput{
		ConversationID: conversation.Conversation.ID,
		Content:        "hello",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageReceiverMismatch(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, alice.ID, SendMessageInput{
		ConversationID: conversation.Conversation.ID,
		ReceiverID:     "someone-else",
		Content:        "hello",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, alice.ID, SendMessageInput{
		ConversationID: conversation.Conversation.ID,
		Content:        "   ",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestListMessagesMarksReceivedRead(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, repo := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	conversationID := conversation.Conversation.ID

	_, err = uc.SendMessage(ctx, alice.ID, SendMessageInput{ConversationID: conversationID, Content: "hi bob"})
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, bob.ID, SendMessageInput{ConversationID: conversationID, Content: "hi alice"})
	require.NoError(t, err)

	messages, err := uc.ListMessages(ctx, bob.ID, conversationID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	for _, message := range messages {
		if message.ReceiverID == bob.ID {
			assert.True(t, message.Read)
		} else {
			assert.False(t, message.Read)
		}
	}

	// The store reflects the transition too.
	for _, message := range repo.messages[conversationID] {
		if message.ReceiverID == bob.ID {
			assert.True(t, message.Read)
		}
	}
}

func TestListMessagesNonParticipantForbidden(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = uc.ListMessages(ctx, "user-m", conversation.Conversation.ID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestIsParticipant(t *testing.T) {
	alice, bob := chatTestUsers()
	uc, _ := newChatFixture(alice, bob)
	ctx := context.Background()

	conversation, err := uc.StartConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	ok, err := uc.IsParticipant(ctx, conversation.Conversation.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.IsParticipant(ctx, conversation.Conversation.ID, "user-m")
	require.NoError(t, err)
	assert.False(t, ok)
}
