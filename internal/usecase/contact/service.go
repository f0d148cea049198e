package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/pkg/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)

const (
	maxSubjectLen = 200
	maxMessageLen = 5000
)

// Throttle admits at most one action per key within ttl.
type Throttle interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Service struct {
	repo     contact.Repository
	throttle Throttle
	window   time.Duration
	logger   *zap.Logger
}

func NewService(repo contact.Repository, throttle Throttle, window time.Duration, logger *zap.Logger) *Service {
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, throttle: throttle, window: window, logger: logger}
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (contact.Message, error) {
	m := contact.Message{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Body:    strings.TrimSpace(in.Message),
	}

	verrs := validation.Errors{}
	if m.Name == "" {
		verrs.Add("name", "is required")
	}
	if !validation.IsEmail(m.Email) {
		verrs.Add("email", "must be a valid email address")
	}
	if m.Subject == "" {
		verrs.Add("subject", "is required")
	} else if len(m.Subject) > maxSubjectLen {
		verrs.Add("subject", "is too long")
	}
	if m.Body == "" {
		verrs.Add("message", "is required")
	} else if len(m.Body) > maxMessageLen {
		verrs.Add("message", "is too long")
	}
	if err := verrs.Err(); err != nil {
		return contact.Message{}, err
	}

	if s.throttle != nil {
		ok, err := s.throttle.SetIfNotExists(ctx, "contact:throttle:"+m.Email, "1", s.window)
		if err != nil {
			s.logger.Warn("contact throttle unavailable", zap.Error(err))
		} else if !ok {
			return contact.Message{}, ErrTooManyRequests
		}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("store contact message failed", zap.Error(err))
		return contact.Message{}, ErrInternal
	}
	m.CreatedAt = time.Now().UTC()
	s.logger.Info("contact message received", zap.String("id", m.ID.String()))
	return m, nil
}
