// Package throttler decides whether a repeated event should be reported.
package throttler

import (
	"sync/atomic"
)

// Throttler counts occurrences of an event. The first limit occurrences are
// always reported; after that only the ones whose ordinal is a power of two.
type Throttler struct {
	limit uint64
	count atomic.Uint64
}

// New creates a throttler reporting at least limit occurrences in a row.
func New(limit uint64) *Throttler {
	return &Throttler{limit: limit}
}

// Hit registers an occurrence and returns its ordinal and whether it should
// be throttled.
func (m *Throttler) Hit() (uint64, bool) {
	n := m.count.Add(1)
	return n, Throttle(n, m.limit)
}

// Reset starts counting from scratch, e.g. after the event stopped repeating.
func (m *Throttler) Reset() {
	m.count.Store(0)
}

// Throttle returns true if the value-th occurrence should be throttled.
func Throttle(value, limit uint64) bool {
	if value <= limit {
		return false
	}
	return !isPowerOfTwo(value)
}

func isPowerOfTwo(value uint64) bool {
	return value != 0 && (value&(value-1)) == 0
}
