// Package session keeps the signed-in user's snapshot and session token in a
// durable key-value store. The token lives under its own key so the snapshot
// can be rewritten on profile changes without touching it.
package session

import (
	"context"
	"errors"
	"time"

	"volunteer-hub/internal/domain/user"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("no active session")

type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Snapshot is the serialized user, never including credentials.
type Snapshot struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	Role       user.Role `json:"role"`
	IsVerified bool      `json:"is_verified"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Bio        string    `json:"bio"`
	Country    string    `json:"country"`
	AvatarURL  string    `json:"avatar_url"`
	Skills     []string  `json:"skills"`
	SavedAt    time.Time `json:"saved_at"`
}

type Session struct {
	Snapshot Snapshot
	Token    string
}

type Store struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

func NewStore(kv KV, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Store{kv: kv, ttl: ttl, now: time.Now}
}

func snapshotKey(id uuid.UUID) string { return "session:user:" + id.String() }
func tokenKey(id uuid.UUID) string    { return "session:token:" + id.String() }

// Start creates a new session for u, replacing any previous one, and returns
// its token.
func (s *Store) Start(ctx context.Context, u user.User) (string, error) {
	token := uuid.NewString()
	if err := s.kv.Set(ctx, tokenKey(u.ID), token, s.ttl); err != nil {
		return "", err
	}
	if err := s.kv.SetJSON(ctx, snapshotKey(u.ID), s.snapshot(u), s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Update rewrites the snapshot of an existing session. Without a session it
// does nothing.
func (s *Store) Update(ctx context.Context, u user.User) error {
	_, ok, err := s.kv.Get(ctx, tokenKey(u.ID))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.kv.SetJSON(ctx, snapshotKey(u.ID), s.snapshot(u), s.ttl)
}

func (s *Store) Load(ctx context.Context, userID uuid.UUID) (Session, error) {
	token, ok, err := s.kv.Get(ctx, tokenKey(userID))
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNoSession
	}

	var snap Snapshot
	found, err := s.kv.GetJSON(ctx, snapshotKey(userID), &snap)
	if err != nil {
		return Session{}, err
	}
	if !found {
		return Session{}, ErrNoSession
	}
	return Session{Snapshot: snap, Token: token}, nil
}

// Validate reports whether token is the user's current session token.
func (s *Store) Validate(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	cur, ok, err := s.kv.Get(ctx, tokenKey(userID))
	if err != nil {
		return false, err
	}
	return ok && cur == token, nil
}

func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.kv.Delete(ctx, tokenKey(userID), snapshotKey(userID))
}

func (s *Store) snapshot(u user.User) Snapshot {
	return Snapshot{
		UserID:     u.ID,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		FullName:   u.Profile.FullName,
		Phone:      u.Profile.Phone,
		Bio:        u.Profile.Bio,
		Country:    u.Profile.Country,
		AvatarURL:  u.Profile.AvatarURL,
		Skills:     u.Profile.Skills,
		SavedAt:    s.now().UTC(),
	}
}
