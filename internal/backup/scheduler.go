package backup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs Run on a fixed interval.
type Scheduler struct {
	store    Snapshotter
	dir      string
	keep     int
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger // optional; when set, logs each run
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets a logger for backup runs.
func WithLogger(l *zap.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = l }
}

// WithClock sets the time source used to name snapshots.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a scheduler that snapshots store into dir every interval.
func NewScheduler(store Snapshotter, dir string, keep int, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:    store,
		dir:      dir,
		keep:     keep,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs backups until ctx is cancelled. It returns immediately when the
// interval is not positive.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context) {
	path, err := Run(ctx, s.store, s.dir, s.keep, s.now())
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Warn("scheduled backup failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled backup written", zap.String("path", path))
}
