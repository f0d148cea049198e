package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/pkg/validation"
)

type mockRepo struct {
	contact.Repository
	created []contact.Message
}

func (m *mockRepo) Create(_ context.Context, msg contact.Message) error {
	m.created = append(m.created, msg)
	return nil
}

type memThrottle struct {
	keys map[string]bool
	err  error
}

func (m *memThrottle) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func validSubmit() SubmitInput {
	return SubmitInput{Name: "Asha", Email: "Asha@Example.com", Subject: "Hello", Message: "Interested in Goa"}
}

func TestSubmit_ThrottlesPerEmail(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &memThrottle{keys: map[string]bool{}}, time.Minute, nil)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, validSubmit()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.Submit(ctx, validSubmit()); !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}

	other := validSubmit()
	other.Email = "other@example.com"
	if _, err := svc.Submit(ctx, other); err != nil {
		t.Fatalf("different email should pass: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(repo.created))
	}
	if repo.created[0].Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.created[0].Email)
	}
}

func TestSubmit_ThrottleUnavailableStillStores(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &memThrottle{err: errors.New("redis down")}, time.Minute, nil)

	if _, err := svc.Submit(context.Background(), validSubmit()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected message stored")
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, time.Minute, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{Email: "bad"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"name", "email", "subject", "message"} {
		if _, ok := verrs[field]; !ok {
			t.Fatalf("expected %q error, got %v", field, verrs)
		}
	}
}
