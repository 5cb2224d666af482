package router

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/adapter/api/handler"
	"flatmatex/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/api/conversations")
	conversations.Use(authMiddleware.Authenticate)
	conversations.POST("", chatHandler.StartConversation)
	conversations.GET("", chatHandler.ListConversations)

	messages := e.Group("/api/messages")
	messages.Use(authMiddleware.Authenticate)
	messages.POST("", chatHandler.SendMessage)
	messages.GET("/:conversationId", chatHandler.ListMessages)
}
