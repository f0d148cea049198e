package handler

import (
	"context"
	"errors"

	"volunteer-hub/internal/delivery/http/dto"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/pkg/response"
	uccontact "volunteer-hub/internal/usecase/contact"

	"github.com/gofiber/fiber/v3"
)

type ContactUsecase interface {
	Submit(ctx context.Context, in uccontact.SubmitInput) (contact.Message, error)
}

type ContactHandler struct {
	uc ContactUsecase
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func NewContactHandler(uc ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

func (h *ContactHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/contact", h.Submit)
}

func (h *ContactHandler) Submit(c fiber.Ctx) error {
	var req contactRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, err)
	}

	m, err := h.uc.Submit(c.Context(), uccontact.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		switch {
		case isValidation(err):
			return err
		case errors.Is(err, uccontact.ErrTooManyRequests):
			return middleware.NewAppError(fiber.StatusTooManyRequests, response.MessageContactTooSoon, nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusCreated, response.MessageContactReceived, dto.NewContactMessageResponse(m))
}
