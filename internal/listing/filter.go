package listing

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidPage = errors.New("invalid page")

// Filter constrains and ranks the listing. An empty set places no constraint
// on that dimension.
type Filter struct {
	States []string
	Skills []string
}

func (f Filter) IsEmpty() bool {
	return len(f.States) == 0 && len(f.Skills) == 0
}

// Query is the serialized listing state carried in the URL.
type Query struct {
	Filter Filter
	Page   int
}

// ParseQuery decodes the comma-joined states and skills and the 1-based page.
// An empty page defaults to 1.
func ParseQuery(states, skills, page string) (Query, error) {
	q := Query{
		Filter: Filter{
			States: SplitList(states),
			Skills: SplitList(skills),
		},
		Page: 1,
	}

	page = strings.TrimSpace(page)
	if page == "" {
		return q, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return Query{}, ErrInvalidPage
	}
	q.Page = p
	return q, nil
}

// Values encodes q the same way ParseQuery reads it.
func (q Query) Values() url.Values {
	v := url.Values{}
	if len(q.Filter.States) > 0 {
		v.Set("states", strings.Join(q.Filter.States, ","))
	}
	if len(q.Filter.Skills) > 0 {
		v.Set("skills", strings.Join(q.Filter.Skills, ","))
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// SplitList splits a comma-joined list, dropping blanks and duplicates.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := normalize(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
