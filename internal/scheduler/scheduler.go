// Package scheduler keeps the server's listing cache warm so searches rarely
// wait on the database.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads a cached dataset.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

type RefreshFunc func(ctx context.Context) (int, error)

func (f RefreshFunc) Refresh(ctx context.Context) (int, error) { return f(ctx) }

type Scheduler struct {
	cron   *cron.Cron
	target Refresher
	spec   string
	logger *zap.Logger
}

func New(target Refresher, spec string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{logger.Sugar()})),
		target: target,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the warm-up job and runs it once immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.warm(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	go s.warm(ctx)
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) warm(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.target.Refresh(ctx)
	if err != nil {
		s.logger.Warn("listing warm-up failed", zap.Error(err))
		return
	}
	s.logger.Debug("listing cache warmed", zap.Int("opportunities", n))
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
