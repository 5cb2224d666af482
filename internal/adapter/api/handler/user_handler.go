package handler

import (
	"github.com/labstack/echo/v4"

	"flatmatex/internal/usecase"
	"flatmatex/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	FullName   string `json:"fullname" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Age        int    `json:"age" validate:"required,gte=18,lte=100"`
	Gender     string `json:"gender" validate:"required,oneof=Male Female Other"`
	Occupation string `json:"occupation" validate:"required"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, _ := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Age:        req.Age,
		Gender:     req.Gender,
		Occupation: req.Occupation,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
