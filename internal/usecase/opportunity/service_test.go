package opportunity

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/validation"

	"github.com/google/uuid"
)

type mockRepo struct {
	items     map[uuid.UUID]opportunity.Opportunity
	listCalls int
	listErr   error
	clock     time.Time
}

func newMockRepo(opps ...opportunity.Opportunity) *mockRepo {
	m := &mockRepo{items: map[uuid.UUID]opportunity.Opportunity{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, o := range opps {
		m.items[o.ID] = o
	}
	return m
}

func (m *mockRepo) ListAll(context.Context) ([]opportunity.Opportunity, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]opportunity.Opportunity, 0, len(m.items))
	for _, o := range m.items {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRepo) ListByHost(_ context.Context, hostID uuid.UUID) ([]opportunity.Opportunity, error) {
	var out []opportunity.Opportunity
	for _, o := range m.items {
		if o.HostID == hostID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	o, ok := m.items[id]
	if !ok {
		return opportunity.Opportunity{}, opportunity.ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) Create(_ context.Context, o opportunity.Opportunity) error {
	m.clock = m.clock.Add(time.Hour)
	o.CreatedAt = m.clock
	o.UpdatedAt = m.clock
	m.items[o.ID] = o
	return nil
}

func (m *mockRepo) Update(_ context.Context, o opportunity.Opportunity) error {
	if _, ok := m.items[o.ID]; !ok {
		return opportunity.ErrNotFound
	}
	m.items[o.ID] = o
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return opportunity.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListFilterOptions(context.Context) (opportunity.FilterOptions, error) {
	return opportunity.FilterOptions{States: []string{"Goa"}, Skills: []string{"Teaching"}}, nil
}

type mockNotifier struct {
	events []string
}

func (m *mockNotifier) OpportunitiesUpdated(action, id string) {
	m.events = append(m.events, action+":"+id)
}

func newTestService(repo *mockRepo) (*Service, *mockNotifier) {
	n := &mockNotifier{}
	cache := listing.NewCache(repo.ListAll, time.Hour)
	return NewService(repo, cache, n, 12, nil), n
}

func validInput() Input {
	return Input{Title: "Teach kids", State: "Goa", Skills: []string{"Teaching"}, MinWeeks: 2, MaxWeeks: 4}
}

func TestSearch_RanksFromCache(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := opportunity.Opportunity{ID: uuid.New(), State: "Kerala", Skills: []string{"Cooking"}, CreatedAt: base.Add(2 * time.Hour)}
	b := opportunity.Opportunity{ID: uuid.New(), State: "Goa", Skills: []string{"Teaching"}, CreatedAt: base}
	repo := newMockRepo(a, b)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	q := listing.Query{Filter: listing.Filter{States: []string{"goa"}}, Page: 1}
	page, err := svc.Search(ctx, q)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != b.ID || page.Items[0].Score != 1 {
		t.Fatalf("expected Goa first with score 1, got %+v", page.Items)
	}

	if _, err := svc.Search(ctx, q); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one fetch within freshness window, got %d", repo.listCalls)
	}
}

func TestSearch_InvalidPage(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	if _, err := svc.Search(context.Background(), listing.Query{Page: 0}); !errors.Is(err, listing.ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
}

func TestList_FetchFailure(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = errors.New("db down")
	svc, _ := newTestService(repo)

	if _, err := svc.List(context.Background()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestCreate_InvalidatesAndNotifies(t *testing.T) {
	repo := newMockRepo()
	svc, n := newTestService(repo)
	ctx := context.Background()
	host := Actor{UserID: uuid.New(), Role: user.RoleHost}

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}

	created, err := svc.Create(ctx, host, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.HostID != host.UserID {
		t.Fatalf("expected host id to be the actor")
	}

	opps, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(opps) != 1 || repo.listCalls != 2 {
		t.Fatalf("expected cache refetch after create, got %d items, %d calls", len(opps), repo.listCalls)
	}
	if len(n.events) != 1 || n.events[0] != ActionCreated+":"+created.ID.String() {
		t.Fatalf("unexpected notifications: %v", n.events)
	}
}

func TestCreate_Validation(t *testing.T) {
	rating := 6.0
	cases := []struct {
		name  string
		mod   func(*Input)
		field string
	}{
		{"title", func(in *Input) { in.Title = " " }, "title"},
		{"state", func(in *Input) { in.State = "" }, "state"},
		{"min weeks", func(in *Input) { in.MinWeeks, in.MaxWeeks = 0, 0 }, "min_weeks"},
		{"max below min", func(in *Input) { in.MaxWeeks = 1 }, "max_weeks"},
		{"rating", func(in *Input) { in.Rating = &rating }, "rating"},
		{"image url", func(in *Input) { in.Images = []string{"not a url"} }, "images"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, n := newTestService(newMockRepo())
			in := validInput()
			tc.mod(&in)

			_, err := svc.Create(context.Background(), Actor{UserID: uuid.New(), Role: user.RoleHost}, in)
			var verrs validation.Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if _, ok := verrs[tc.field]; !ok {
				t.Fatalf("expected %q error, got %v", tc.field, verrs)
			}
			if len(n.events) != 0 {
				t.Fatalf("no notification expected on invalid input")
			}
		})
	}
}

func TestHostOperations_Ownership(t *testing.T) {
	owner := uuid.New()
	o := opportunity.Opportunity{ID: uuid.New(), HostID: owner, Title: "x", State: "Goa", MinWeeks: 1, MaxWeeks: 1}
	ctx := context.Background()

	cases := []struct {
		name  string
		actor Actor
		want  error
	}{
		{"volunteer", Actor{UserID: owner, Role: user.RoleVolunteer}, ErrForbidden},
		{"other host", Actor{UserID: uuid.New(), Role: user.RoleHost}, ErrForbidden},
		{"owner", Actor{UserID: owner, Role: user.RoleHost}, nil},
		{"admin", Actor{UserID: uuid.New(), Role: user.RoleAdmin}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(newMockRepo(o))

			_, err := svc.Update(ctx, tc.actor, o.ID, validInput())
			if !errors.Is(err, tc.want) {
				t.Fatalf("Update: expected %v, got %v", tc.want, err)
			}
			if err := svc.Delete(ctx, tc.actor, o.ID); !errors.Is(err, tc.want) {
				t.Fatalf("Delete: expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	err := svc.Delete(context.Background(), Actor{UserID: uuid.New(), Role: user.RoleHost}, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMine(t *testing.T) {
	host := uuid.New()
	repo := newMockRepo(
		opportunity.Opportunity{ID: uuid.New(), HostID: host},
		opportunity.Opportunity{ID: uuid.New(), HostID: uuid.New()},
	)
	svc, _ := newTestService(repo)

	mine, err := svc.ListMine(context.Background(), Actor{UserID: host, Role: user.RoleHost})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(mine) != 1 || mine[0].HostID != host {
		t.Fatalf("expected only the host's opportunity, got %+v", mine)
	}
}
