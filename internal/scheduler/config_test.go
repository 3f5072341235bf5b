package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanet-platform/coalesce/pkg/coalesce"
	"github.com/yanet-platform/coalesce/pkg/optional"
	"github.com/yanet-platform/coalesce/pkg/ownership"
)

// TestConfig_Getters checks that unset settings fall back to the built-in
// defaults.
func TestConfig_Getters(t *testing.T) {
	var empty Config
	assert.Equal(t, defaultDelayLoop, empty.GetDelayLoop())
	assert.Equal(t, defaultRetries, empty.GetRetries())
	assert.Equal(t, defaultRetryDelay, empty.GetRetryDelay())

	cfg := Config{
		DelayLoop:  optional.Some(1.5),
		Retries:    optional.Some(0),
		RetryDelay: optional.Some(0.25),
	}
	assert.Equal(t, 1500*time.Millisecond, cfg.GetDelayLoop())
	assert.Equal(t, 0, cfg.GetRetries())
	assert.Equal(t, 250*time.Millisecond, cfg.GetRetryDelay())
}

// TestConfig_Default checks the values set by Default.
func TestConfig_Default(t *testing.T) {
	var cfg Config
	cfg.Default()
	assert.Equal(t, optional.Some(60.0), cfg.DelayLoop)
	assert.Equal(t, optional.Some(1), cfg.Retries)
	assert.Equal(t, optional.Some(3.0), cfg.RetryDelay)
}

// TestConfig_Validate rejects non-positive delays and negative retries.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty", Config{}, nil},
		{"valid", Config{DelayLoop: optional.Some(1.0), Retries: optional.Some(0)}, nil},
		{"zero delay", Config{DelayLoop: optional.Some(0.0)}, ErrInvalidDelay},
		{"negative retry delay", Config{RetryDelay: optional.Some(-1.0)}, ErrInvalidDelay},
		{"negative retries", Config{Retries: optional.Some(-1)}, ErrInvalidRetries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestConfig_Inherit checks that missing settings are taken from the nearest
// parent that has them.
func TestConfig_Inherit(t *testing.T) {
	service := Config{Retries: optional.Some(5)}
	global := Config{
		DelayLoop: optional.Some(30.0),
		Retries:   optional.Some(2),
	}

	real := Config{RetryDelay: optional.Some(2.0)}
	real.Inherit(optional.Some(service), optional.Some(global))

	assert.Equal(t, optional.Some(30.0), real.DelayLoop)
	assert.Equal(t, optional.Some(5), real.Retries)
	assert.Equal(t, optional.Some(2.0), real.RetryDelay)
}

// TestConfig_InheritExpired checks that an expired weak parent is skipped.
func TestConfig_InheritExpired(t *testing.T) {
	global := ownership.NewShared(Config{DelayLoop: optional.Some(10.0)})
	weak := global.Weak()

	var live Config
	live.Inherit(weak)
	assert.Equal(t, optional.Some(10.0), live.DelayLoop)

	global.Release()

	var stale Config
	stale.Inherit(weak, coalesce.Absent[Config]())
	assert.True(t, stale.DelayLoop.IsEmpty())
}

// TestField reads a single setting through a shared layer.
func TestField(t *testing.T) {
	layer := ownership.NewShared(Config{Retries: optional.Some(4)})
	defer layer.Release()

	retries := Field(layer, RetriesOf)
	assert.Equal(t, 4, coalesce.Coalesce(0, retries))
	assert.True(t, Field(layer, DelayLoopOf).IsEmpty())
	require.Equal(t, int64(1), layer.UseCount())
}
