package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"volunteer-hub/internal/domain/user"

	"github.com/google/uuid"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(v), out)
}

func (m *memKV) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = string(b)
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func testUser() user.User {
	return user.User{
		ID:           uuid.New(),
		Email:        "vol@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         user.RoleVolunteer,
		Profile:      user.Profile{FullName: "Asha", Skills: []string{"Teaching"}},
	}
}

func TestStore_StartLoadClear(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, time.Hour)
	ctx := context.Background()
	u := testUser()

	token, err := s.Start(ctx, u)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	sess, err := s.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Token != token {
		t.Fatalf("expected token %q, got %q", token, sess.Token)
	}
	if sess.Snapshot.FullName != "Asha" || sess.Snapshot.Role != user.RoleVolunteer {
		t.Fatalf("unexpected snapshot: %+v", sess.Snapshot)
	}

	if err := s.Clear(ctx, u.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Load(ctx, u.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestStore_SnapshotExcludesCredentials(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, time.Hour)
	u := testUser()

	token, err := s.Start(context.Background(), u)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	raw := kv.data[snapshotKey(u.ID)]
	if raw == "" {
		t.Fatalf("snapshot not stored")
	}
	for _, secret := range []string{u.PasswordHash, token} {
		if strings.Contains(raw, secret) {
			t.Fatalf("snapshot leaks %q: %s", secret, raw)
		}
	}
}

func TestStore_StartReplacesPreviousToken(t *testing.T) {
	s := NewStore(newMemKV(), time.Hour)
	ctx := context.Background()
	u := testUser()

	first, _ := s.Start(ctx, u)
	second, _ := s.Start(ctx, u)

	ok, err := s.Validate(ctx, u.ID, first)
	if err != nil || ok {
		t.Fatalf("expected first token invalid, ok=%v err=%v", ok, err)
	}
	ok, err = s.Validate(ctx, u.ID, second)
	if err != nil || !ok {
		t.Fatalf("expected second token valid, ok=%v err=%v", ok, err)
	}
}

func TestStore_UpdateWithoutSessionIsNoop(t *testing.T) {
	kv := newMemKV()
	s := NewStore(kv, time.Hour)
	u := testUser()

	if err := s.Update(context.Background(), u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatalf("expected nothing stored, got %v", kv.data)
	}
}

func TestStore_UpdateKeepsToken(t *testing.T) {
	s := NewStore(newMemKV(), time.Hour)
	ctx := context.Background()
	u := testUser()

	token, _ := s.Start(ctx, u)
	u.Profile.FullName = "Asha R"
	if err := s.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sess, err := s.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Token != token || sess.Snapshot.FullName != "Asha R" {
		t.Fatalf("unexpected session: %+v", sess)
	}
}

func (m *memKV) GetDel(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	delete(m.data, key)
	return v, ok, nil
}

func TestResetTokens_SingleUse(t *testing.T) {
	r := NewResetTokens(newMemKV(), time.Minute)
	ctx := context.Background()
	id := uuid.New()

	token, err := r.Issue(ctx, id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, ok, err := r.Consume(ctx, token)
	if err != nil || !ok || got != id {
		t.Fatalf("Consume = %v,%v,%v want %v,true,nil", got, ok, err, id)
	}

	if _, ok, _ := r.Consume(ctx, token); ok {
		t.Fatalf("token should not be usable twice")
	}
}
