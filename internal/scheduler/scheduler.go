// Package scheduler holds the layered scheduling settings and runs jobs
// periodically according to them.
package scheduler

import (
	"context"
	"math/rand/v2"
	"time"
)

// Scheduler runs a job with a loop delay and retries.
type Scheduler struct {
	config    Config        // holds the scheduling configuration
	initDelay time.Duration // initial random delay before starting the scheduler
}

// Option represents a function that configures a Scheduler instance.
type Option func(*Scheduler)

// WithInitialDelay returns an Option that delays the first run by a random
// value between 0 and the configured loop delay.
func WithInitialDelay() Option {
	return func(s *Scheduler) {
		s.initDelay = time.Duration(rand.Float64() * float64(s.config.GetDelayLoop()))
	}
}

// New creates a new Scheduler instance.
func New(config Config, opts ...Option) *Scheduler {
	s := &Scheduler{
		config: config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run calls job immediately after the initial delay and then once per loop
// delay until ctx is canceled. A failed job is retried up to the configured
// number of times, waiting the retry delay in between.
func (m *Scheduler) Run(ctx context.Context, job func(ctx context.Context) error) error {
	// A single timer serves both the retry and the loop waits. Reset is only
	// called on an expired timer.
	timer := time.NewTimer(m.initDelay)
	defer timer.Stop()

	if err := wait(ctx, timer); err != nil {
		return err
	}

	retries := m.config.GetRetries()
	retryDelay := m.config.GetRetryDelay()
	loopDelay := m.config.GetDelayLoop()

	for {
		for attempt := 0; attempt <= retries; attempt++ {
			if err := job(ctx); err == nil || attempt == retries {
				break
			}

			timer.Reset(retryDelay)
			if err := wait(ctx, timer); err != nil {
				return err
			}
		}

		timer.Reset(loopDelay)
		if err := wait(ctx, timer); err != nil {
			return err
		}
	}
}

// InitialDelay returns the initial random delay applied to the scheduler.
func (m *Scheduler) InitialDelay() time.Duration {
	return m.initDelay
}

func wait(ctx context.Context, timer *time.Timer) error {
	// Checked first: with an expired timer and a canceled context, select
	// would pick either case at random.
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
