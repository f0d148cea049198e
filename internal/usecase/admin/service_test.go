package admin

import (
	"context"
	"errors"
	"testing"

	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	user.Repository
	users       []user.User
	gotLimit    int
	gotOffset   int
	verifiedErr error
}

func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]user.User, error) {
	m.gotLimit, m.gotOffset = limit, offset
	return m.users, nil
}

func (m *mockUserRepo) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	if m.verifiedErr != nil {
		return m.verifiedErr
	}
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].IsVerified = verified
		}
	}
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

type mockContactRepo struct {
	contact.Repository
}

func (mockContactRepo) List(context.Context, int, int) ([]contact.Message, error) {
	return []contact.Message{{Name: "A"}}, nil
}

func TestListUsers_ClampsAndSanitizes(t *testing.T) {
	repo := &mockUserRepo{users: []user.User{{ID: uuid.New(), PasswordHash: "h"}}}
	svc := NewService(repo, mockContactRepo{}, nil)

	users, err := svc.ListUsers(context.Background(), 1000, -5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.gotLimit != maxLimit || repo.gotOffset != 0 {
		t.Fatalf("expected clamped paging, got %d/%d", repo.gotLimit, repo.gotOffset)
	}
	if users[0].PasswordHash != "" {
		t.Fatalf("password hash leaked")
	}
}

func TestSetVerified(t *testing.T) {
	id := uuid.New()
	repo := &mockUserRepo{users: []user.User{{ID: id}}}
	svc := NewService(repo, mockContactRepo{}, nil)

	u, err := svc.SetVerified(context.Background(), id, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !u.IsVerified {
		t.Fatalf("expected verified user")
	}

	repo.verifiedErr = user.ErrNotFound
	if _, err := svc.SetVerified(context.Background(), uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListContactMessages(t *testing.T) {
	svc := NewService(&mockUserRepo{}, mockContactRepo{}, nil)
	msgs, err := svc.ListContactMessages(context.Background(), 0, 0)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("unexpected result: %v %v", msgs, err)
	}
}
