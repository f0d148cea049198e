package handler

import (
	"context"
	"errors"

	"volunteer-hub/internal/delivery/http/dto"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/pkg/response"
	ucadmin "volunteer-hub/internal/usecase/admin"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminUsecase interface {
	ListUsers(ctx context.Context, limit, offset int) ([]user.User, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) (user.User, error)
	ListContactMessages(ctx context.Context, limit, offset int) ([]contact.Message, error)
}

type AdminHandler struct {
	uc AdminUsecase
}

type verifyRequest struct {
	Verified *bool `json:"verified"`
}

func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users", h.ListUsers)
	r.Put("/users/:id/verify", h.SetVerified)
	r.Get("/contact-messages", h.ListContactMessages)
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	limit, offset, err := pagingParams(c)
	if err != nil {
		return err
	}

	users, err := h.uc.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return mapAdminUsecaseError(err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *AdminHandler) SetVerified(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req verifyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, err)
	}
	if req.Verified == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, map[string]string{"verified": "is required"}, nil)
	}

	u, err := h.uc.SetVerified(c.Context(), id, *req.Verified)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u))
}

func (h *AdminHandler) ListContactMessages(c fiber.Ctx) error {
	limit, offset, err := pagingParams(c)
	if err != nil {
		return err
	}

	msgs, err := h.uc.ListContactMessages(c.Context(), limit, offset)
	if err != nil {
		return mapAdminUsecaseError(err)
	}

	out := make([]dto.ContactMessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.NewContactMessageResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func pagingParams(c fiber.Ctx) (int, int, error) {
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return 0, 0, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return 0, 0, middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	}
	return limit, offset, nil
}

func mapAdminUsecaseError(err error) error {
	switch {
	case errors.Is(err, ucadmin.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageUserNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
