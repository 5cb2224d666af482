package handler

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/usecase"
	"flatmatex/pkg/response"
)

type SavedPostHandler struct {
	savedPostUseCase *usecase.SavedPostUseCase
}

func NewSavedPostHandler(savedPostUseCase *usecase.SavedPostUseCase) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostUseCase: savedPostUseCase,
	}
}

func (h *SavedPostHandler) Save(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	savedPost, err := h.savedPostUseCase.Save(c.Request().Context(), uid, c.Param("listingId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, savedPost)
}

func (h *SavedPostHandler) Remove(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	if err := h.savedPostUseCase.Remove(c.Request().Context(), uid, c.Param("listingId")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Saved post removed"})
}

func (h *SavedPostHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	savedPosts, err := h.savedPostUseCase.List(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, savedPosts)
}
