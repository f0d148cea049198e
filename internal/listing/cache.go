package listing

import (
	"context"
	"strconv"
	"sync"
	"time"

	"volunteer-hub/internal/domain/opportunity"

	"golang.org/x/sync/singleflight"
)

const DefaultFreshness = 5 * time.Minute

// Fetcher loads the full opportunity list from the source of truth.
type Fetcher func(ctx context.Context) ([]opportunity.Opportunity, error)

type CacheOption func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache keeps the last fetched opportunity list for a freshness window.
// Concurrent misses share a single fetch. A failed fetch leaves the cached
// entry untouched.
type Cache struct {
	fetch     Fetcher
	freshness time.Duration
	now       func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	items     []opportunity.Opportunity
	fetchedAt time.Time
	filled    bool
	// bumped on Invalidate so an in-flight fetch started before it is not stored
	gen uint64
}

func NewCache(fetch Fetcher, freshness time.Duration, opts ...CacheOption) *Cache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	c := &Cache{fetch: fetch, freshness: freshness, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached list while it is fresh, otherwise fetches a new one.
// The returned slice is a copy owned by the caller.
func (c *Cache) Get(ctx context.Context) ([]opportunity.Opportunity, error) {
	c.mu.RLock()
	if c.filled && c.now().Sub(c.fetchedAt) < c.freshness {
		out := clone(c.items)
		c.mu.RUnlock()
		return out, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	return c.load(ctx, strconv.FormatUint(gen, 10), gen)
}

// Invalidate drops the cached entry unconditionally.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.fetchedAt = time.Time{}
	c.filled = false
	c.gen++
	c.mu.Unlock()
}

// Reload fetches a new list regardless of freshness and swaps it in on
// success. On failure the previous entry keeps being served.
func (c *Cache) Reload(ctx context.Context) ([]opportunity.Opportunity, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	return c.load(ctx, "reload:"+strconv.FormatUint(gen, 10), gen)
}

// load runs one shared fetch per key. The fetch itself is detached from the
// caller's cancellation so one caller giving up does not fail the others.
func (c *Cache) load(ctx context.Context, key string, gen uint64) ([]opportunity.Opportunity, error) {
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		items, err := c.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.items = clone(items)
			c.fetchedAt = c.now()
			c.filled = true
		}
		c.mu.Unlock()
		return items, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return clone(r.Val.([]opportunity.Opportunity)), nil
	}
}

// Age reports how long ago the cached entry was fetched. ok is false when the
// cache is empty.
func (c *Cache) Age() (age time.Duration, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.filled {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}

// Freshness is the window during which cached data is served.
func (c *Cache) Freshness() time.Duration {
	return c.freshness
}

func clone(in []opportunity.Opportunity) []opportunity.Opportunity {
	if in == nil {
		return nil
	}
	out := make([]opportunity.Opportunity, len(in))
	copy(out, in)
	return out
}
