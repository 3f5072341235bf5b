package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanet-platform/coalesce/pkg/optional"
)

func fastConfig(retries int) Config {
	return Config{
		DelayLoop:  optional.Some(0.001),
		Retries:    optional.Some(retries),
		RetryDelay: optional.Some(0.001),
	}
}

// TestScheduler_RunLoops checks that the job is called repeatedly until the
// context is canceled.
func TestScheduler_RunLoops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := New(fastConfig(0)).Run(ctx, func(context.Context) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

// TestScheduler_Retries checks that a failing job is retried the configured
// number of times per loop.
func TestScheduler_Retries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := New(fastConfig(2)).Run(ctx, func(context.Context) error {
		calls++
		if calls == 3 {
			// One initial attempt and two retries make up the first loop.
			cancel()
		}
		return errors.New("failed")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

// TestScheduler_CanceledBeforeStart checks that nothing runs on a canceled
// context.
func TestScheduler_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := New(fastConfig(0)).Run(ctx, func(context.Context) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

// TestScheduler_InitialDelay checks that the random initial delay does not
// exceed the loop delay.
func TestScheduler_InitialDelay(t *testing.T) {
	cfg := fastConfig(0)
	s := New(cfg, WithInitialDelay())
	assert.LessOrEqual(t, s.InitialDelay(), cfg.GetDelayLoop())
	assert.Zero(t, New(cfg).InitialDelay())
}
