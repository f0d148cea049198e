package auth

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes outgoing mail to the log instead of delivering it.
type LogMailer struct {
	logger  *zap.Logger
	baseURL string
}

func NewLogMailer(logger *zap.Logger, baseURL string) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger, baseURL: baseURL}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.logger.Info("password reset requested", zap.String("to", email))
	m.logger.Debug("password reset link", zap.String("to", email), zap.String("link", m.baseURL+"/reset-password?token="+token))
	return nil
}
