package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ResetKV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, bool, error)
}

// ResetTokens issues single-use password reset tokens.
type ResetTokens struct {
	kv  ResetKV
	ttl time.Duration
}

func NewResetTokens(kv ResetKV, ttl time.Duration) *ResetTokens {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResetTokens{kv: kv, ttl: ttl}
}

func resetKey(token string) string { return "pwreset:" + token }

func (r *ResetTokens) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	if err := r.kv.Set(ctx, resetKey(token), userID.String(), r.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume returns the user the token was issued for and invalidates it.
func (r *ResetTokens) Consume(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}
	v, ok, err := r.kv.GetDel(ctx, resetKey(token))
	if err != nil || !ok {
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}
