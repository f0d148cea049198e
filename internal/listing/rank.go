package listing

import (
	"sort"

	"volunteer-hub/internal/domain/opportunity"
)

const DefaultPageSize = 12

// Ranked pairs an opportunity with the score it received for one query.
// The score is never persisted.
type Ranked struct {
	opportunity.Opportunity
	Score int
}

type Page struct {
	Items      []Ranked
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Score returns 1 when the opportunity's state is selected plus the number of
// its skills that are selected.
func Score(o opportunity.Opportunity, f Filter) int {
	score := 0
	if len(f.States) > 0 && containsFold(f.States, o.State) {
		score++
	}
	if len(f.Skills) == 0 {
		return score
	}

	seen := make(map[string]struct{}, len(o.Skills))
	for _, s := range o.Skills {
		k := normalize(s)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if containsFold(f.Skills, s) {
			score++
		}
	}
	return score
}

// Rank scores opps against f and orders them by score, newest first on ties.
// With an empty filter scoring is skipped and the order is pure recency.
// The input slice is not modified.
func Rank(opps []opportunity.Opportunity, f Filter) []Ranked {
	out := make([]Ranked, len(opps))
	skip := f.IsEmpty()
	for i := range opps {
		out[i] = Ranked{Opportunity: opps[i]}
		if !skip {
			out[i].Score = Score(opps[i], f)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

// Paginate returns the 1-based page of ranked. Pages past the end are empty.
func Paginate(ranked []Ranked, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(ranked)
	p := Page{
		Items:      []Ranked{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := start + size
	if end > total {
		end = total
	}
	p.Items = ranked[start:end]
	return p
}

// Search ranks opps for q and returns the requested page.
func Search(opps []opportunity.Opportunity, q Query, size int) Page {
	return Paginate(Rank(opps, q.Filter), q.Page, size)
}

func containsFold(list []string, v string) bool {
	v = normalize(v)
	if v == "" {
		return false
	}
	for _, it := range list {
		if normalize(it) == v {
			return true
		}
	}
	return false
}
