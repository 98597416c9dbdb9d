package app

import (
	"context"
	"time"

	"github.com/chalwk/versus/internal/log"
	"github.com/chalwk/versus/internal/platform/timeouts"
	"github.com/rs/zerolog"
)

// Scheduler sweeps the registry for overdue sessions on a fixed tick.
// One coalesced ticker covers every live session, so cancellation is a
// single context and the expiry side effect fires at most once per
// session (guarded by the End transition, not by scheduler bookkeeping).
type Scheduler struct {
	registry *Registry
	notifier Notifier
	interval time.Duration
	clock    func() time.Time
	logger   zerolog.Logger
}

// SchedulerOption customizes scheduler construction.
type SchedulerOption func(*Scheduler)

// WithSchedulerClock injects the time source used for deadline checks.
func WithSchedulerClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

// WithSchedulerInterval overrides the sweep interval.
func WithSchedulerInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) { s.interval = interval }
}

// NewScheduler creates a scheduler over the given registry. notifier may
// be nil, in which case expirations end sessions silently.
func NewScheduler(registry *Registry, notifier Notifier, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		registry: registry,
		notifier: notifier,
		interval: timeouts.ExpiryTick,
		clock:    time.Now,
		logger:   log.WithComponent("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps until ctx is canceled. Once Run returns, no further expiry
// side effects occur.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	for _, session := range s.registry.ExpireDue(s.clock()) {
		s.logger.Info().
			Str(log.FieldSessionID, session.ID()).
			Str(log.FieldReason, "timeout").
			Msg("session expired")
		if s.notifier == nil {
			continue
		}
		if err := s.notifier.NotifyTimeout(ctx, session); err != nil {
			s.logger.Warn().
				Err(err).
				Str(log.FieldSessionID, session.ID()).
				Msg("timeout notification failed")
		}
	}
}
