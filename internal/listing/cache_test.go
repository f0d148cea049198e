package listing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"volunteer-hub/internal/domain/opportunity"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingFetcher struct {
	calls atomic.Int32
	items []opportunity.Opportunity
	err   error
}

func (f *countingFetcher) Fetch(context.Context) ([]opportunity.Opportunity, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestCache_ServesWithinFreshnessWindow(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{items: []opportunity.Opportunity{opp("a", "Goa", t0)}}
	c := NewCache(f.Fetch, 5*time.Minute, WithClock(clk.Now))

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	clk.Advance(4 * time.Minute)
	items, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}

	age, ok := c.Age()
	if !ok || age != 4*time.Minute {
		t.Fatalf("expected age 4m, got %s ok=%v", age, ok)
	}
}

func TestCache_RefetchesAfterExpiry(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{}
	c := NewCache(f.Fetch, 5*time.Minute, WithClock(clk.Now))

	_, _ = c.Get(context.Background())
	clk.Advance(5 * time.Minute)
	_, _ = c.Get(context.Background())

	if got := f.calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestCache_InvalidateForcesFetch(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{}
	c := NewCache(f.Fetch, 5*time.Minute, WithClock(clk.Now))

	_, _ = c.Get(context.Background())
	c.Invalidate()
	if _, ok := c.Age(); ok {
		t.Fatalf("expected empty cache after invalidate")
	}
	_, _ = c.Get(context.Background())

	if got := f.calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestCache_FailedFetchLeavesEntry(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{items: []opportunity.Opportunity{opp("a", "Goa", t0)}}
	c := NewCache(f.Fetch, time.Minute, WithClock(clk.Now))

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	boom := errors.New("network down")
	f.err = boom
	clk.Advance(2 * time.Minute)

	if _, err := c.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	age, ok := c.Age()
	if !ok || age != 2*time.Minute {
		t.Fatalf("expected previous entry kept, age=%s ok=%v", age, ok)
	}
}

func TestCache_ReturnsCopies(t *testing.T) {
	f := &countingFetcher{items: []opportunity.Opportunity{opp("a", "Goa", t0)}}
	c := NewCache(f.Fetch, time.Minute)

	first, _ := c.Get(context.Background())
	first[0].Title = "mutated"

	second, _ := c.Get(context.Background())
	if second[0].Title != "a" {
		t.Fatalf("cached entry was mutated through a returned slice")
	}
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	fetch := func(context.Context) ([]opportunity.Opportunity, error) {
		calls.Add(1)
		<-release
		return []opportunity.Opportunity{opp("a", "Goa", t0)}, nil
	}
	c := NewCache(fetch, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background()); err != nil {
				t.Errorf("unexpected err: %v", err)
			}
		}()
	}

	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestCache_ReloadFailureKeepsEntry(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{items: []opportunity.Opportunity{opp("a", "Goa", t0)}}
	c := NewCache(f.Fetch, 5*time.Minute, WithClock(clk.Now))

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	boom := errors.New("db down")
	f.err = boom
	if _, err := c.Reload(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if _, ok := c.Age(); !ok {
		t.Fatalf("expected entry to survive a failed reload")
	}

	items, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 1 || items[0].Title != "a" {
		t.Fatalf("expected previous entry, got %+v", items)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestCache_ReloadSwapsEntry(t *testing.T) {
	clk := &fakeClock{now: t0}
	f := &countingFetcher{items: []opportunity.Opportunity{opp("a", "Goa", t0)}}
	c := NewCache(f.Fetch, 5*time.Minute, WithClock(clk.Now))

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	f.items = []opportunity.Opportunity{opp("a", "Goa", t0), opp("b", "Kerala", t0)}
	clk.Advance(time.Minute)
	if _, err := c.Reload(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if age, ok := c.Age(); !ok || age != 0 {
		t.Fatalf("expected a just-fetched entry, got age %v ok %v", age, ok)
	}
	items, _ := c.Get(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestCache_CanceledCallerDoesNotFailSharedFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	var fetchErr atomic.Value
	fetch := func(ctx context.Context) ([]opportunity.Opportunity, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		fetchErr.Store(fmtErr(ctx.Err()))
		return []opportunity.Opportunity{opp("a", "Goa", t0)}, nil
	}
	c := NewCache(fetch, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA)
		errA <- err
	}()
	<-started

	type result struct {
		items []opportunity.Opportunity
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		items, err := c.Get(context.Background())
		resB <- result{items, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to get %v, got %v", context.Canceled, err)
	}

	close(release)
	r := <-resB
	if r.err != nil {
		t.Fatalf("unexpected err for waiting caller: %v", r.err)
	}
	if len(r.items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(r.items))
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
	if got := fetchErr.Load().(string); got != "" {
		t.Fatalf("expected fetch context to stay live, got %q", got)
	}
	if _, ok := c.Age(); !ok {
		t.Fatalf("expected shared fetch to fill the cache")
	}
}

func fmtErr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
