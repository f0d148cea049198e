package opportunity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("opportunity not found")

type Repository interface {
	// ListAll returns every opportunity, newest first.
	ListAll(ctx context.Context) ([]Opportunity, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]Opportunity, error)
	GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error)
	Create(ctx context.Context, o Opportunity) error
	Update(ctx context.Context, o Opportunity) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListFilterOptions(ctx context.Context) (FilterOptions, error)
}
