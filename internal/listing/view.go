package listing

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned for a load that was overtaken by a newer one. Its
// result has been discarded.
var ErrStale = errors.New("stale listing request")

type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is what a listing view currently shows.
type Snapshot struct {
	State State
	Query Query
	Page  Page
	Err   error
}

// View drives the listing state machine over a Cache. Every load takes a
// monotonic request token and only the latest token may publish its result.
type View struct {
	cache    *Cache
	pageSize int

	mu    sync.Mutex
	seq   uint64
	state State
	query Query
	page  Page
	err   error
}

func NewView(cache *Cache, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{cache: cache, pageSize: pageSize, query: Query{Page: 1}}
}

// Load moves the view to loading for q and publishes the resulting page
// unless a newer load started in the meantime.
func (v *View) Load(ctx context.Context, q Query) (Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	token := v.begin(q)

	opps, err := v.cache.Get(ctx)
	if err != nil {
		if !v.fail(token, err) {
			return Page{}, ErrStale
		}
		return Page{}, err
	}

	page := Search(opps, q, v.pageSize)
	if !v.succeed(token, page) {
		return Page{}, ErrStale
	}
	return page, nil
}

// SetPage reloads the current filter at another page.
func (v *View) SetPage(ctx context.Context, page int) (Page, error) {
	q := v.currentQuery()
	q.Page = page
	return v.Load(ctx, q)
}

// SetFilter reloads with a new filter, starting again from page 1.
func (v *View) SetFilter(ctx context.Context, f Filter) (Page, error) {
	return v.Load(ctx, Query{Filter: f, Page: 1})
}

// Refresh drops the cache and reloads the current query.
func (v *View) Refresh(ctx context.Context) (Page, error) {
	v.cache.Invalidate()
	return v.Load(ctx, v.currentQuery())
}

// Retry reloads the current query, typically after an error.
func (v *View) Retry(ctx context.Context) (Page, error) {
	return v.Load(ctx, v.currentQuery())
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{State: v.state, Query: v.query, Page: v.page, Err: v.err}
}

func (v *View) currentQuery() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

func (v *View) begin(q Query) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.state = StateLoading
	v.query = q
	v.err = nil
	return v.seq
}

func (v *View) succeed(token uint64, p Page) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq {
		return false
	}
	v.state = StateSuccess
	v.page = p
	v.err = nil
	return true
}

// fail keeps the previously shown page.
func (v *View) fail(token uint64, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq {
		return false
	}
	v.state = StateError
	v.err = err
	return true
}
