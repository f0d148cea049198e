// Package apiclient talks to the volunteer-hub REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"volunteer-hub/internal/delivery/http/dto"
	"volunteer-hub/internal/domain/opportunity"
	"volunteer-hub/internal/listing"

	"go.uber.org/zap"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("empty api base url")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ListOpportunities fetches the full list, newest first.
func (c *Client) ListOpportunities(ctx context.Context) ([]opportunity.Opportunity, error) {
	var out []dto.OpportunityResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/opportunities", nil, &out); err != nil {
		return nil, err
	}
	opps := make([]opportunity.Opportunity, 0, len(out))
	for _, o := range out {
		opps = append(opps, o.Domain())
	}
	return opps, nil
}

// Search asks the server to rank and paginate.
func (c *Client) Search(ctx context.Context, q listing.Query) (listing.Page, error) {
	path := "/api/v1/opportunities/search"
	if v := q.Values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	var out dto.OpportunityPageResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return listing.Page{}, err
	}

	items := make([]listing.Ranked, 0, len(out.Items))
	for _, it := range out.Items {
		items = append(items, listing.Ranked{Opportunity: it.Domain(), Score: it.Score})
	}
	return listing.Page{
		Items:      items,
		Page:       out.Page,
		PageSize:   out.PageSize,
		Total:      out.Total,
		TotalPages: out.TotalPages,
	}, nil
}

func (c *Client) Filters(ctx context.Context) (opportunity.FilterOptions, error) {
	var out dto.FilterOptionsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/opportunities/filters", nil, &out); err != nil {
		return opportunity.FilterOptions{}, err
	}
	return opportunity.FilterOptions{States: out.States, Skills: out.Skills}, nil
}

// Login signs in and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (dto.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return dto.AuthResponse{}, err
	}
	c.SetToken(out.AccessToken)
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
