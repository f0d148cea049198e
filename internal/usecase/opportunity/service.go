package opportunity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("opportunity not found")
	ErrForbidden = errors.New("forbidden")
	ErrInternal  = errors.New("internal error")
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Notifier interface {
	OpportunitiesUpdated(action, opportunityID string)
}

// Actor is the authenticated caller of a host operation.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

type Input struct {
	Title       string
	Description string
	District    string
	State       string
	Images      []string
	Skills      []string
	MinWeeks    int
	MaxWeeks    int
	Rating      *float64
	ReviewCount *int
}

type Service struct {
	repo     opportunity.Repository
	cache    *listing.Cache
	notifier Notifier
	pageSize int
	logger   *zap.Logger
}

func NewService(repo opportunity.Repository, cache *listing.Cache, notifier Notifier, pageSize int, logger *zap.Logger) *Service {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, notifier: notifier, pageSize: pageSize, logger: logger}
}

// List returns every opportunity, newest first.
func (s *Service) List(ctx context.Context) ([]opportunity.Opportunity, error) {
	opps, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Error("load opportunities failed", zap.Error(err))
		return nil, ErrInternal
	}
	return opps, nil
}

func (s *Service) Search(ctx context.Context, q listing.Query) (listing.Page, error) {
	if q.Page < 1 {
		return listing.Page{}, listing.ErrInvalidPage
	}
	opps, err := s.List(ctx)
	if err != nil {
		return listing.Page{}, err
	}
	return listing.Search(opps, q, s.pageSize), nil
}

func (s *Service) Filters(ctx context.Context) (opportunity.FilterOptions, error) {
	opts, err := s.repo.ListFilterOptions(ctx)
	if err != nil {
		s.logger.Error("list filter options failed", zap.Error(err))
		return opportunity.FilterOptions{}, ErrInternal
	}
	return opts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			return opportunity.Opportunity{}, ErrNotFound
		}
		s.logger.Error("get opportunity failed", zap.String("id", id.String()), zap.Error(err))
		return opportunity.Opportunity{}, ErrInternal
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, actor Actor) ([]opportunity.Opportunity, error) {
	if !actor.Role.CanHost() {
		return nil, ErrForbidden
	}
	opps, err := s.repo.ListByHost(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("list host opportunities failed", zap.String("host_id", actor.UserID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return opps, nil
}

func (s *Service) Create(ctx context.Context, actor Actor, in Input) (opportunity.Opportunity, error) {
	if !actor.Role.CanHost() {
		return opportunity.Opportunity{}, ErrForbidden
	}
	in, err := normalizeInput(in)
	if err != nil {
		return opportunity.Opportunity{}, err
	}

	o := opportunity.Opportunity{ID: uuid.New(), HostID: actor.UserID}
	apply(&o, in)

	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("create opportunity failed", zap.Error(err))
		return opportunity.Opportunity{}, ErrInternal
	}

	created, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		s.logger.Error("reload created opportunity failed", zap.String("id", o.ID.String()), zap.Error(err))
		created = o
	}
	s.changed(ActionCreated, o.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, in Input) (opportunity.Opportunity, error) {
	current, err := s.owned(ctx, actor, id)
	if err != nil {
		return opportunity.Opportunity{}, err
	}
	in, err = normalizeInput(in)
	if err != nil {
		return opportunity.Opportunity{}, err
	}

	apply(&current, in)
	if err := s.repo.Update(ctx, current); err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			return opportunity.Opportunity{}, ErrNotFound
		}
		s.logger.Error("update opportunity failed", zap.String("id", id.String()), zap.Error(err))
		return opportunity.Opportunity{}, ErrInternal
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		updated = current
	}
	s.changed(ActionUpdated, id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("delete opportunity failed", zap.String("id", id.String()), zap.Error(err))
		return ErrInternal
	}
	s.changed(ActionDeleted, id)
	return nil
}

// owned loads id and checks that actor may modify it. Admins may modify any
// opportunity.
func (s *Service) owned(ctx context.Context, actor Actor, id uuid.UUID) (opportunity.Opportunity, error) {
	if !actor.Role.CanHost() {
		return opportunity.Opportunity{}, ErrForbidden
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return opportunity.Opportunity{}, err
	}
	if actor.Role != user.RoleAdmin && o.HostID != actor.UserID {
		return opportunity.Opportunity{}, ErrForbidden
	}
	return o, nil
}

func (s *Service) changed(action string, id uuid.UUID) {
	s.cache.Invalidate()
	if s.notifier != nil {
		s.notifier.OpportunitiesUpdated(action, id.String())
	}
	s.logger.Info("opportunity changed", zap.String("action", action), zap.String("id", id.String()))
}

func normalizeInput(in Input) (Input, error) {
	verrs := validation.Errors{}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.District = strings.TrimSpace(in.District)
	in.State = strings.TrimSpace(in.State)
	in.Skills = listing.SplitList(strings.Join(in.Skills, ","))

	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if !isHTTPURL(img) {
			verrs.Add("images", "must be http(s) URLs")
			continue
		}
		images = append(images, img)
	}
	in.Images = images

	if in.Title == "" {
		verrs.Add("title", "is required")
	}
	if in.State == "" {
		verrs.Add("state", "is required")
	}
	if in.MinWeeks < 1 {
		verrs.Add("min_weeks", "must be at least 1")
	}
	if in.MaxWeeks < in.MinWeeks {
		verrs.Add("max_weeks", "must not be less than min_weeks")
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 5) {
		verrs.Add("rating", "must be between 0 and 5")
	}
	if in.ReviewCount != nil && *in.ReviewCount < 0 {
		verrs.Add("review_count", "must not be negative")
	}

	if err := verrs.Err(); err != nil {
		return Input{}, err
	}
	return in, nil
}

func apply(o *opportunity.Opportunity, in Input) {
	o.Title = in.Title
	o.Description = in.Description
	o.District = in.District
	o.State = in.State
	o.Images = in.Images
	o.Skills = in.Skills
	o.MinWeeks = in.MinWeeks
	o.MaxWeeks = in.MaxWeeks
	o.Rating = in.Rating
	o.ReviewCount = in.ReviewCount
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
