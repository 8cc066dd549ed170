// Package sweeper evicts relay jobs that outlived the retention window.
package sweeper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/metrics"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

// Options groups dependencies for Sweeper.
type Options struct {
	Registry  repository.JobRegistry // Required
	Interval  time.Duration          // How often to sweep
	Retention time.Duration          // Maximum record age
	Now       func() time.Time       // Optional, defaults to time.Now
	Logger    *zap.Logger            // Optional
}

// Sweeper periodically removes every record older than the retention
// window, whatever its state.
type Sweeper struct {
	registry  repository.JobRegistry
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// New constructs a Sweeper.
func New(opts Options) (*Sweeper, error) {
	if opts.Registry == nil {
		return nil, errors.New("sweeper: registry is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("sweeper: interval must be positive")
	}
	if opts.Retention <= 0 {
		return nil, errors.New("sweeper: retention must be positive")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Sweeper{
		registry:  opts.Registry,
		interval:  opts.Interval,
		retention: opts.Retention,
		now:       now,
		logger:    logger.With(zap.String("component", "sweeper")),
	}, nil
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// Returns nil on graceful shutdown (context.Canceled), ctx.Err() otherwise.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.Info("Starting sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper stopping", zap.Error(ctx.Err()))
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce evicts expired records and returns how many were removed.
// Errors are logged and never stop the loop.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	cutoff := s.now().Add(-s.retention)

	removed, err := s.registry.Sweep(ctx, cutoff)
	if err != nil {
		s.logger.Error("Sweep failed", zap.Error(err))
		return 0
	}

	metrics.JobsExpired.Add(float64(removed))
	metrics.JobsLive.Set(float64(s.registry.Len(ctx)))

	if removed > 0 {
		s.logger.Info("Expired jobs evicted", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed
}
