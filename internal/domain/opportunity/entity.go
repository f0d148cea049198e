package opportunity

import (
	"time"

	"github.com/google/uuid"
)

type Opportunity struct {
	ID          uuid.UUID
	HostID      uuid.UUID
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
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FilterOptions lists the distinct values available for filtering.
type FilterOptions struct {
	States []string
	Skills []string
}
