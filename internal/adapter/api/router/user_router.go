package router

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/adapter/api/handler"
	"flatmatex/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	users := e.Group("/api/users")

	users.GET("/:id", userHandler.GetProfile)
	users.PUT("/me", userHandler.UpdateProfile, authMiddleware.Authenticate)
}
