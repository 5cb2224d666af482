package handler

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/usecase"
	"flatmatex/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	ReceiverID     string `json:"receiverId"`
	Message        string `json:"message" validate:"required"`
}

// StartConversation resolves or creates the conversation with a recipient.
func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, _ := c.Get("uid").(string)

	conversation, err := h.chatUseCase.StartConversation(c.Request().Context(), uid, req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, _ := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		ConversationID: req.ConversationID,
		ReceiverID:     req.ReceiverID,
		Content:        req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// ListMessages returns a conversation's messages oldest-first; fetching
// them marks the caller's inbound messages as read.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), uid, c.Param("conversationId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}
