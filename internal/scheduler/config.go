package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/yanet-platform/coalesce/pkg/coalesce"
	"github.com/yanet-platform/coalesce/pkg/optional"
)

const (
	defaultDelayLoop  = 60 * time.Second // default delay between tasks
	defaultRetries    = 1                // default number of retry attempts
	defaultRetryDelay = 3 * time.Second  // default delay before retrying
)

var (
	ErrInvalidDelay   = errors.New("delay must be positive")
	ErrInvalidRetries = errors.New("retries must not be negative")
)

// Config holds the configuration for scheduling tasks. Every setting is
// optional; unset settings are inherited from the enclosing layer.
type Config struct {
	// Delay between task execution in seconds.
	DelayLoop optional.Option[float64] `yaml:"delay_loop,omitempty" json:"delay_loop,omitzero"`
	// Number of retry attempts.
	Retries optional.Option[int] `yaml:"retries,omitempty" json:"retries,omitzero"`
	// Delay before retrying in seconds.
	RetryDelay optional.Option[float64] `yaml:"retry_delay,omitempty" json:"retry_delay,omitzero"`
}

// DefaultConfig returns a configuration with every setting present and set to
// its built-in default.
func DefaultConfig() Config {
	var cfg Config
	cfg.Default()
	return cfg
}

// Default sets the configuration to default values.
func (m *Config) Default() {
	m.DelayLoop = optional.Some(defaultDelayLoop.Seconds())
	m.Retries = optional.Some(defaultRetries)
	m.RetryDelay = optional.Some(defaultRetryDelay.Seconds())
}

// GetDelayLoop returns the delay loop duration.
// If the delay loop is not set, it returns the default delay loop value.
func (m Config) GetDelayLoop() time.Duration {
	return coalesce.Coalesce(defaultDelayLoop, Seconds(m.DelayLoop))
}

// GetRetries returns the number of retry attempts.
// If retries are not set, it returns the default number of retries.
func (m Config) GetRetries() int {
	return m.Retries.Or(defaultRetries)
}

// GetRetryDelay returns the retry delay duration.
// If retry delay is not set, it returns the default retry delay value.
func (m Config) GetRetryDelay() time.Duration {
	return coalesce.Coalesce(defaultRetryDelay, Seconds(m.RetryDelay))
}

// Validate checks the settings that are present.
func (m Config) Validate() error {
	if v, ok := m.DelayLoop.Get(); ok && v <= 0 {
		return fmt.Errorf("delay_loop %v: %w", v, ErrInvalidDelay)
	}
	if v, ok := m.RetryDelay.Get(); ok && v <= 0 {
		return fmt.Errorf("retry_delay %v: %w", v, ErrInvalidDelay)
	}
	if v, ok := m.Retries.Get(); ok && v < 0 {
		return fmt.Errorf("retries %d: %w", v, ErrInvalidRetries)
	}
	return nil
}

// Override returns a copy of m with the settings present in top replacing
// its own.
func (m Config) Override(top Config) Config {
	m.DelayLoop = optional.Override(m.DelayLoop, top.DelayLoop)
	m.Retries = optional.Override(m.Retries, top.Retries)
	m.RetryDelay = optional.Override(m.RetryDelay, top.RetryDelay)
	return m
}

// Inherit fills the settings missing in m from parents. Parents are consulted
// nearest first, and an empty or expired parent is skipped.
func (m *Config) Inherit(parents ...coalesce.Holder[Config]) {
	m.DelayLoop = inherit(m.DelayLoop, parents, DelayLoopOf)
	m.Retries = inherit(m.Retries, parents, RetriesOf)
	m.RetryDelay = inherit(m.RetryDelay, parents, RetryDelayOf)
}

// DelayLoopOf selects the delay loop setting of a layer.
func DelayLoopOf(c Config) optional.Option[float64] { return c.DelayLoop }

// RetriesOf selects the retries setting of a layer.
func RetriesOf(c Config) optional.Option[int] { return c.Retries }

// RetryDelayOf selects the retry delay setting of a layer.
func RetryDelayOf(c Config) optional.Option[float64] { return c.RetryDelay }

// Field turns a layer holder into a holder of one of its settings.
func Field[T any](layer coalesce.Holder[Config], field func(Config) optional.Option[T]) coalesce.Holder[T] {
	return coalesce.Bind(layer, func(c Config) coalesce.Holder[T] {
		return field(c)
	})
}

// Seconds converts a holder of seconds into a holder of durations.
func Seconds(h coalesce.Holder[float64]) coalesce.Holder[time.Duration] {
	return coalesce.Convert(h, func(s float64) time.Duration {
		return time.Duration(s * float64(time.Second))
	})
}

func inherit[T any](own optional.Option[T], parents []coalesce.Holder[Config], field func(Config) optional.Option[T]) optional.Option[T] {
	holders := make([]coalesce.Holder[T], 0, len(parents)+1)
	holders = append(holders, own)
	for _, parent := range parents {
		holders = append(holders, Field(parent, field))
	}

	var zero T
	v, idx := coalesce.Find(zero, holders...)
	return optional.FromPair(v, idx >= 0)
}
