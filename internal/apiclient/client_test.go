package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"volunteer-hub/internal/listing"

	"github.com/google/uuid"
)

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message, "data": data})
}

func TestListOpportunities(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/opportunities" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, 200, "ok", []map[string]any{{
			"id":         id,
			"title":      "Goa school",
			"state":      "Goa",
			"skills":     []string{"Teaching"},
			"min_weeks":  2,
			"max_weeks":  4,
			"rating":     4.5,
			"created_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}})
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opps, err := c.ListOpportunities(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(opps) != 1 || opps[0].ID != id || opps[0].State != "Goa" {
		t.Fatalf("unexpected opportunities: %+v", opps)
	}
	if opps[0].Rating == nil || *opps[0].Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", opps[0].Rating)
	}
	if opps[0].ReviewCount != nil {
		t.Fatalf("expected absent review count")
	}
}

func TestSearch_EncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("states") != "Goa,Kerala" || q.Get("page") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeEnvelope(w, 200, "ok", map[string]any{
			"items":       []map[string]any{{"id": uuid.New(), "title": "x", "score": 2}},
			"page":        2,
			"page_size":   12,
			"total":       13,
			"total_pages": 2,
		})
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	page, err := c.Search(context.Background(), listing.Query{Filter: listing.Filter{States: []string{"Goa", "Kerala"}}, Page: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 13 || page.TotalPages != 2 || len(page.Items) != 1 || page.Items[0].Score != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestLogin_StoresToken(t *testing.T) {
	var authorized atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			writeEnvelope(w, 200, "ok", map[string]any{"access_token": "tok-1", "refresh_token": "ref-1", "user": map[string]any{"email": "a@b.co"}})
		default:
			authorized.Store(r.Header.Get("Authorization") == "Bearer tok-1")
			writeEnvelope(w, 200, "ok", []any{})
		}
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	res, err := c.Login(context.Background(), "a@b.co", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.Email != "a@b.co" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if _, err := c.ListOpportunities(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !authorized.Load() {
		t.Fatalf("expected bearer token on subsequent request")
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, "Invalid email or password", nil)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	_, err := c.Login(context.Background(), "a@b.co", "nope")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 401 || apiErr.Message != "Invalid email or password" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestNew_EmptyURL(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
