package router

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/adapter/api/handler"
	"flatmatex/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/api/search-flatmates", listingHandler.SearchListings)

	listings := e.Group("/api/listings")
	listings.GET("/:id", listingHandler.GetListing)
	listings.POST("", listingHandler.CreateListing, authMiddleware.Authenticate)
	listings.PUT("/:id", listingHandler.UpdateListing, authMiddleware.Authenticate)
	listings.DELETE("/:id", listingHandler.DeleteListing, authMiddleware.Authenticate)

	myListings := e.Group("/api/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", listingHandler.ListMyListings)
}
