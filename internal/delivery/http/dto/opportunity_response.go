package dto

import (
	"time"

	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/listing"

	"github.com/google/uuid"
)

type OpportunityResponse struct {
	ID          uuid.UUID `json:"id"`
	HostID      uuid.UUID `json:"host_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	District    string    `json:"district"`
	State       string    `json:"state"`
	Images      []string  `json:"images"`
	Skills      []string  `json:"skills"`
	MinWeeks    int       `json:"min_weeks"`
	MaxWeeks    int       `json:"max_weeks"`
	Rating      *float64  `json:"rating"`
	ReviewCount *int      `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RankedOpportunityResponse struct {
	OpportunityResponse
	Score int `json:"score"`
}

type OpportunityPageResponse struct {
	Items      []RankedOpportunityResponse `json:"items"`
	Page       int                         `json:"page"`
	PageSize   int                         `json:"page_size"`
	Total      int                         `json:"total"`
	TotalPages int                         `json:"total_pages"`
}

type FilterOptionsResponse struct {
	States []string `json:"states"`
	Skills []string `json:"skills"`
}

type OpportunityRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	District    string   `json:"district"`
	State       string   `json:"state"`
	Images      []string `json:"images"`
	Skills      []string `json:"skills"`
	MinWeeks    int      `json:"min_weeks"`
	MaxWeeks    int      `json:"max_weeks"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
}

func NewOpportunityResponse(o opportunity.Opportunity) OpportunityResponse {
	return OpportunityResponse{
		ID:          o.ID,
		HostID:      o.HostID,
		Title:       o.Title,
		Description: o.Description,
		District:    o.District,
		State:       o.State,
		Images:      orEmpty(o.Images),
		Skills:      orEmpty(o.Skills),
		MinWeeks:    o.MinWeeks,
		MaxWeeks:    o.MaxWeeks,
		Rating:      o.Rating,
		ReviewCount: o.ReviewCount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewOpportunityList(opps []opportunity.Opportunity) []OpportunityResponse {
	out := make([]OpportunityResponse, 0, len(opps))
	for _, o := range opps {
		out = append(out, NewOpportunityResponse(o))
	}
	return out
}

func NewOpportunityPageResponse(p listing.Page) OpportunityPageResponse {
	items := make([]RankedOpportunityResponse, 0, len(p.Items))
	for _, r := range p.Items {
		items = append(items, RankedOpportunityResponse{OpportunityResponse: NewOpportunityResponse(r.Opportunity), Score: r.Score})
	}
	return OpportunityPageResponse{
		Items:      items,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// Domain converts a wire opportunity back into the domain type.
func (r OpportunityResponse) Domain() opportunity.Opportunity {
	return opportunity.Opportunity{
		ID:          r.ID,
		HostID:      r.HostID,
		Title:       r.Title,
		Description: r.Description,
		District:    r.District,
		State:       r.State,
		Images:      r.Images,
		Skills:      r.Skills,
		MinWeeks:    r.MinWeeks,
		MaxWeeks:    r.MaxWeeks,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
