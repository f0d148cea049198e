package admin

import (
	"context"
	"errors"

	"volunteer-hub/internal/domain/contact"
	"volunteer-hub/internal/domain/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Service struct {
	users    user.Repository
	messages contact.Repository
	logger   *zap.Logger
}

func NewService(users user.Repository, messages contact.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, messages: messages, logger: logger}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]user.User, error) {
	limit, offset = clampPage(limit, offset)
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, ErrInternal
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *Service) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (user.User, error) {
	if err := s.users.SetVerified(ctx, id, verified); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrNotFound
		}
		s.logger.Error("set verified failed", zap.String("user_id", id.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("reload user failed", zap.String("user_id", id.String()), zap.Error(err))
		return user.User{}, ErrInternal
	}
	s.logger.Info("user verification changed", zap.String("user_id", id.String()), zap.Bool("verified", verified))
	u.PasswordHash = ""
	return u, nil
}

func (s *Service) ListContactMessages(ctx context.Context, limit, offset int) ([]contact.Message, error) {
	limit, offset = clampPage(limit, offset)
	msgs, err := s.messages.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("list contact messages failed", zap.Error(err))
		return nil, ErrInternal
	}
	return msgs, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
