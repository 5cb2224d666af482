package router

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/adapter/api/handler"
	"flatmatex/internal/adapter/api/middleware"
)

func SetupSavedPostRouter(e *echo.Echo, savedPostHandler *handler.SavedPostHandler, authMiddleware *middleware.AuthMiddleware) {
	savedPosts := e.Group("/api/saved-posts")
	savedPosts.Use(authMiddleware.Authenticate)

	savedPosts.GET("", savedPostHandler.List)
	savedPosts.POST("/:listingId", savedPostHandler.Save)
	savedPosts.DELETE("/:listingId", savedPostHandler.Remove)
}
