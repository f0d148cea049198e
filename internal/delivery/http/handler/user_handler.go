package handler

import (
	"context"
	"errors"

	"volunteer-hub/internal/delivery/http/dto"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/pkg/response"
	useruc "volunteer-hub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in useruc.UpdateProfileInput) (user.User, error)
}

type UserHandler struct {
	uc UserUsecase
}

type updateProfileRequest struct {
	FullName  *string  `json:"full_name"`
	Phone     *string  `json:"phone"`
	Bio       *string  `json:"bio"`
	Country   *string  `json:"country"`
	AvatarURL *string  `json:"avatar_url"`
	Skills    []string `json:"skills"`
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	u, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, err)
	}
	if req.FullName == nil && req.Phone == nil && req.Bio == nil && req.Country == nil && req.AvatarURL == nil && req.Skills == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, nil)
	}

	u, err := h.uc.UpdateMe(c.Context(), userID, useruc.UpdateProfileInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Country:   req.Country,
		AvatarURL: req.AvatarURL,
		Skills:    req.Skills,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageProfileUpdated, dto.NewUserResponse(u))
}

func mapUserUsecaseError(err error) error {
	switch {
	case isValidation(err):
		return err
	case errors.Is(err, useruc.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageUserNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
