package cron

import (
	"context"
	"fmt"
	"time"

	robfigcron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryRunner expires pending bookings whose response deadline passed.
type ExpiryRunner interface {
	ExpireOverdue(ctx context.Context, limit int64) (int, error)
}

// ExpirySweeper periodically expires overdue pending bookings so that
// deadlines survive process restarts.
type ExpirySweeper struct {
	runner  ExpiryRunner
	batch   int64
	timeout time.Duration
	cron    *robfigcron.Cron
	logger  *zap.Logger
}

// NewExpirySweeper schedules the sweep on a robfig/cron spec such as "@every 1m".
func NewExpirySweeper(runner ExpiryRunner, schedule string, batch int, logger *zap.Logger) (*ExpirySweeper, error) {
	if runner == nil {
		return nil, fmt.Errorf("expiry sweeper: runner is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if batch <= 0 {
		batch = 100
	}

	cronLogger := zapCronLogger{logger.Sugar()}
	c := robfigcron.New(
		robfigcron.WithLogger(cronLogger),
		robfigcron.WithChain(robfigcron.Recover(cronLogger), robfigcron.SkipIfStillRunning(cronLogger)),
	)
	s := &ExpirySweeper{
		runner:  runner,
		batch:   int64(batch),
		timeout: 30 * time.Second,
		cron:    c,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("expiry sweeper: invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs a single sweep and returns how many bookings expired.
func (s *ExpirySweeper) RunOnce(parent context.Context) int {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	n, err := s.runner.ExpireOverdue(ctx, s.batch)
	if err != nil {
		s.logger.Error("Expiry sweep failed", zap.Int("expired", n), zap.Error(err))
		return n
	}
	if n > 0 {
		s.logger.Info("Expired overdue bookings", zap.Int("expired", n))
	}
	return n
}

func (s *ExpirySweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and returns a context done once a running sweep finishes.
func (s *ExpirySweeper) Stop() context.Context {
	return s.cron.Stop()
}

// zapCronLogger adapts zap to robfigcron.Logger.
type zapCronLogger struct {
	l *zap.SugaredLogger
}

func (z zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Debugw(msg, keysAndValues...)
}

func (z zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	z.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
