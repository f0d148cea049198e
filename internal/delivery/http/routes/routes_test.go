package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"volunteer-hub/internal/delivery/http/handler"
	"volunteer-hub/internal/delivery/http/middleware"
	v1 "volunteer-hub/internal/delivery/http/routes/v1"
	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/listing"
	"volunteer-hub/internal/pkg/jwt"
	"volunteer-hub/internal/pkg/validation"
	uccontact "volunteer-hub/internal/usecase/contact"
	ucopp "volunteer-hub/internal/usecase/opportunity"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeSessions struct {
	live map[uuid.UUID]string
}

func (f fakeSessions) Validate(_ context.Context, id uuid.UUID, token string) (bool, error) {
	return f.live[id] == token, nil
}

type fakeOpportunities struct {
	opps    []opportunity.Opportunity
	created []ucopp.Input
}

func (f *fakeOpportunities) List(context.Context) ([]opportunity.Opportunity, error) {
	return f.opps, nil
}

func (f *fakeOpportunities) Search(_ context.Context, q listing.Query) (listing.Page, error) {
	return listing.Search(f.opps, q, listing.DefaultPageSize), nil
}

func (f *fakeOpportunities) Filters(context.Context) (opportunity.FilterOptions, error) {
	return opportunity.FilterOptions{States: []string{"Goa"}, Skills: []string{}}, nil
}

func (f *fakeOpportunities) Get(_ context.Context, id uuid.UUID) (opportunity.Opportunity, error) {
	for _, o := range f.opps {
		if o.ID == id {
			return o, nil
		}
	}
	return opportunity.Opportunity{}, ucopp.ErrNotFound
}

func (f *fakeOpportunities) ListMine(context.Context, ucopp.Actor) ([]opportunity.Opportunity, error) {
	return nil, nil
}

func (f *fakeOpportunities) Create(_ context.Context, actor ucopp.Actor, in ucopp.Input) (opportunity.Opportunity, error) {
	if in.Title == "" {
		return opportunity.Opportunity{}, validation.Errors{"title": "is required"}
	}
	f.created = append(f.created, in)
	return opportunity.Opportunity{ID: uuid.New(), HostID: actor.UserID, Title: in.Title, State: in.State}, nil
}

func (f *fakeOpportunities) Update(context.Context, ucopp.Actor, uuid.UUID, ucopp.Input) (opportunity.Opportunity, error) {
	return opportunity.Opportunity{}, ucopp.ErrForbidden
}

func (f *fakeOpportunities) Delete(context.Context, ucopp.Actor, uuid.UUID) error {
	return ucopp.ErrNotFound
}

type fakeContact struct {
	calls int
}

func (f *fakeContact) Submit(_ context.Context, in uccontact.SubmitInput) (contact.Message, error) {
	f.calls++
	if f.calls > 1 {
		return contact.Message{}, uccontact.ErrTooManyRequests
	}
	return contact.Message{ID: uuid.New(), Name: in.Name, Email: in.Email}, nil
}

type testEnv struct {
	app      *fiber.App
	jwt      *jwt.HMACService
	sessions fakeSessions
	opps     *fakeOpportunities
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env := &testEnv{
		jwt:      jwt.NewHMACService("test-access", "test-refresh", 15*time.Minute, time.Hour),
		sessions: fakeSessions{live: map[uuid.UUID]string{}},
		opps: &fakeOpportunities{opps: []opportunity.Opportunity{
			{ID: uuid.New(), Title: "Kerala farm", State: "Kerala", CreatedAt: base.Add(time.Hour)},
			{ID: uuid.New(), Title: "Goa school", State: "Goa", Skills: []string{"Teaching"}, CreatedAt: base},
		}},
	}

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	NewRegistry(
		handler.NewHealthHandler(nil),
		nil,
		v1.Handlers{
			Opportunity:    handler.NewOpportunityHandler(env.opps),
			Contact:        handler.NewContactHandler(&fakeContact{}),
			AuthMiddleware: middleware.NewAuthMiddleware(env.jwt, env.sessions, nil),
		},
	).Register(app)

	env.app = app
	return env
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()

	id := uuid.New()
	sid := uuid.NewString()
	e.sessions.live[id] = sid

	tok, err := e.jwt.GenerateAccessToken(jwt.Identity{UserID: id, Email: role + "@example.com", Role: role, SessionID: sid})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) semanticResponse {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if sr.Status != resp.StatusCode {
		t.Fatalf("%s %s: body status %d != http status %d", method, path, sr.Status, resp.StatusCode)
	}
	return sr
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	sr := env.do(t, "GET", "/health", "", nil)
	if sr.Status != 200 || sr.Message != "ok" {
		t.Fatalf("unexpected health response: %+v", sr)
	}
}

func TestSearch_RanksMatchingStateFirst(t *testing.T) {
	env := newTestEnv(t)

	sr := env.do(t, "GET", "/api/v1/opportunities/search?states=goa", "", nil)
	if sr.Status != 200 {
		t.Fatalf("expected 200, got %d (%s)", sr.Status, sr.Message)
	}

	var page struct {
		Items []struct {
			Title string `json:"title"`
			Score int    `json:"score"`
		} `json:"items"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	}
	if err := json.Unmarshal(sr.Data, &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Total != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if page.Items[0].Title != "Goa school" || page.Items[0].Score != 1 {
		t.Fatalf("expected Goa school first, got %+v", page.Items)
	}
}

func TestSearch_InvalidPage(t *testing.T) {
	env := newTestEnv(t)
	if sr := env.do(t, "GET", "/api/v1/opportunities/search?page=0", "", nil); sr.Status != 400 {
		t.Fatalf("expected 400, got %d", sr.Status)
	}
}

func TestGetOpportunity(t *testing.T) {
	env := newTestEnv(t)

	if sr := env.do(t, "GET", "/api/v1/opportunities/not-a-uuid", "", nil); sr.Status != 400 {
		t.Fatalf("expected 400 for bad id, got %d", sr.Status)
	}
	if sr := env.do(t, "GET", "/api/v1/opportunities/"+uuid.NewString(), "", nil); sr.Status != 404 {
		t.Fatalf("expected 404, got %d", sr.Status)
	}
	if sr := env.do(t, "GET", "/api/v1/opportunities/"+env.opps.opps[0].ID.String(), "", nil); sr.Status != 200 {
		t.Fatalf("expected 200, got %d", sr.Status)
	}
}

func TestCreateOpportunity_Guards(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"title": "Beach cleanup", "state": "Goa", "min_weeks": 1, "max_weeks": 2}

	if sr := env.do(t, "POST", "/api/v1/opportunities/", "", body); sr.Status != 401 {
		t.Fatalf("expected 401 without token, got %d", sr.Status)
	}
	if sr := env.do(t, "POST", "/api/v1/opportunities/", env.token(t, "volunteer"), body); sr.Status != 403 {
		t.Fatalf("expected 403 for volunteer, got %d", sr.Status)
	}

	sr := env.do(t, "POST", "/api/v1/opportunities/", env.token(t, "host"), body)
	if sr.Status != 201 {
		t.Fatalf("expected 201 for host, got %d (%s)", sr.Status, sr.Message)
	}
	if len(env.opps.created) != 1 || env.opps.created[0].Title != "Beach cleanup" {
		t.Fatalf("unexpected create calls: %+v", env.opps.created)
	}
}

func TestCreateOpportunity_ValidationData(t *testing.T) {
	env := newTestEnv(t)

	sr := env.do(t, "POST", "/api/v1/opportunities/", env.token(t, "host"), map[string]any{"state": "Goa"})
	if sr.Status != 400 {
		t.Fatalf("expected 400, got %d", sr.Status)
	}
	var fields map[string]string
	if err := json.Unmarshal(sr.Data, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fields["title"] == "" {
		t.Fatalf("expected title error, got %v", fields)
	}
}

func TestEndedSessionRejected(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "host")

	claims, err := env.jwt.ValidateToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	delete(env.sessions.live, claims.UserID)

	if sr := env.do(t, "GET", "/api/v1/opportunities/mine", tok, nil); sr.Status != 401 {
		t.Fatalf("expected 401 after logout, got %d", sr.Status)
	}
}

func TestUpdateAndDelete_MapErrors(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, "host")
	path := "/api/v1/opportunities/" + uuid.NewString()

	if sr := env.do(t, "PUT", path, tok, map[string]any{"title": "x"}); sr.Status != 403 {
		t.Fatalf("expected 403, got %d", sr.Status)
	}
	if sr := env.do(t, "DELETE", path, tok, nil); sr.Status != 404 {
		t.Fatalf("expected 404, got %d", sr.Status)
	}
}

func TestContact_Throttled(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{"name": "A", "email": "a@b.co", "subject": "Hi", "message": "Hello"}

	if sr := env.do(t, "POST", "/api/v1/contact", "", body); sr.Status != 201 {
		t.Fatalf("expected 201, got %d", sr.Status)
	}
	if sr := env.do(t, "POST", "/api/v1/contact", "", body); sr.Status != 429 {
		t.Fatalf("expected 429, got %d", sr.Status)
	}
}
