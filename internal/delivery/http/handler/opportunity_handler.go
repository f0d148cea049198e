package handler

import (
	"context"
	"errors"

	"volunteer-hub/internal/delivery/http/dto"
	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/response"
	ucopp "volunteer-hub/internal/usecase/opportunity"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type OpportunityUsecase interface {
	List(ctx context.Context) ([]opportunity.Opportunity, error)
	Search(ctx context.Context, q listing.Query) (listing.Page, error)
	Filters(ctx context.Context) (opportunity.FilterOptions, error)
	Get(ctx context.Context, id uuid.UUID) (opportunity.Opportunity, error)
	ListMine(ctx context.Context, actor ucopp.Actor) ([]opportunity.Opportunity, error)
	Create(ctx context.Context, actor ucopp.Actor, in ucopp.Input) (opportunity.Opportunity, error)
	Update(ctx context.Context, actor ucopp.Actor, id uuid.UUID, in ucopp.Input) (opportunity.Opportunity, error)
	Delete(ctx context.Context, actor ucopp.Actor, id uuid.UUID) error
}

type OpportunityHandler struct {
	uc OpportunityUsecase
}

func NewOpportunityHandler(uc OpportunityUsecase) *OpportunityHandler {
	return &OpportunityHandler{uc: uc}
}

// RegisterRoutes mounts the public listing and the host dashboard. The
// dashboard routes run auth and then hostOnly before the handler.
func (h *OpportunityHandler) RegisterRoutes(r fiber.Router, auth, hostOnly fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/mine", auth, hostOnly, h.ListMine)
	r.Post("/", auth, hostOnly, h.Create)
	r.Put("/:id", auth, hostOnly, h.Update)
	r.Delete("/:id", auth, hostOnly, h.Delete)

	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/filters", h.Filters)
	r.Get("/:id", h.Get)
}

func (h *OpportunityHandler) List(c fiber.Ctx) error {
	opps, err := h.uc.List(c.Context())
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOpportunityList(opps))
}

func (h *OpportunityHandler) Search(c fiber.Ctx) error {
	q, err := listing.ParseQuery(c.Query("states"), c.Query("skills"), c.Query("page"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPage, nil, err)
	}

	page, err := h.uc.Search(c.Context(), q)
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOpportunityPageResponse(page))
}

func (h *OpportunityHandler) Filters(c fiber.Ctx) error {
	opts, err := h.uc.Filters(c.Context())
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FilterOptionsResponse{
		States: opts.States,
		Skills: opts.Skills,
	})
}

func (h *OpportunityHandler) Get(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	o, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOpportunityResponse(o))
}

func (h *OpportunityHandler) ListMine(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	opps, err := h.uc.ListMine(c.Context(), actor)
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewOpportunityList(opps))
}

func (h *OpportunityHandler) Create(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req dto.OpportunityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, err)
	}

	o, err := h.uc.Create(c.Context(), actor, toInput(req))
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOpportunityCreated, dto.NewOpportunityResponse(o))
}

func (h *OpportunityHandler) Update(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.OpportunityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPayload, nil, err)
	}

	o, err := h.uc.Update(c.Context(), actor, id, toInput(req))
	if err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOpportunityUpdated, dto.NewOpportunityResponse(o))
}

func (h *OpportunityHandler) Delete(c fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), actor, id); err != nil {
		return mapOpportunityUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOpportunityDeleted, nil)
}

func actorFrom(c fiber.Ctx) (ucopp.Actor, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return ucopp.Actor{}, middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}
	return ucopp.Actor{UserID: userID, Role: middleware.Role(c)}, nil
}

func toInput(req dto.OpportunityRequest) ucopp.Input {
	return ucopp.Input{
		Title:       req.Title,
		Description: req.Description,
		District:    req.District,
		State:       req.State,
		Images:      req.Images,
		Skills:      req.Skills,
		MinWeeks:    req.MinWeeks,
		MaxWeeks:    req.MaxWeeks,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
	}
}

func mapOpportunityUsecaseError(err error) error {
	switch {
	case isValidation(err):
		return err
	case errors.Is(err, listing.ErrInvalidPage):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidPage, nil, err)
	case errors.Is(err, ucopp.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageOpportunityNotFound, nil, err)
	case errors.Is(err, ucopp.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
