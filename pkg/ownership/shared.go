// Package ownership provides reference counted containers with explicit
// ownership: an exclusive owner ([Unique]), shared owners ([Shared]) and
// non-owning observers ([Weak]).
//
// The garbage collector still manages memory. What these containers track is
// the lifetime of the value as seen by the program: once the last [Shared]
// handle is released, the deleter runs and every [Weak] observer reports the
// value as expired.
package ownership

import (
	"sync/atomic"

	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

// control is the state shared by all handles of one value.
type control[T any] struct {
	value   T
	strong  atomic.Int64
	deleter func(T)
}

func (c *control[T]) acquire() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			// Released values are never resurrected.
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (c *control[T]) release() {
	if c.strong.Add(-1) == 0 && c.deleter != nil {
		c.deleter(c.value)
	}
}

// Shared is one owning handle of a shared value. Handles are created with
// [NewShared], [Shared.Clone] or [Weak.Lock], and each must be released once.
type Shared[T any] struct {
	ctl      *control[T]
	released atomic.Bool
}

var (
	_ coalesce.Holder[int] = (*Shared[int])(nil)
	_ coalesce.Sharer[int] = (*Shared[int])(nil)
)

// SharedOption configures a new shared value.
type SharedOption[T any] func(*control[T])

// WithDeleter sets a function called with the value once the last owning
// handle is released.
func WithDeleter[T any](deleter func(T)) SharedOption[T] {
	return func(c *control[T]) {
		c.deleter = deleter
	}
}

// NewShared returns the first owning handle of v.
func NewShared[T any](v T, opts ...SharedOption[T]) *Shared[T] {
	ctl := &control[T]{value: v}
	for _, opt := range opts {
		opt(ctl)
	}
	ctl.strong.Store(1)
	return &Shared[T]{ctl: ctl}
}

// IsEmpty reports whether the handle no longer owns a value.
func (s *Shared[T]) IsEmpty() bool {
	return s == nil || s.ctl == nil || s.released.Load()
}

// Value returns the owned value, or the zero value of T if the handle is
// empty.
func (s *Shared[T]) Value() T {
	if s.IsEmpty() {
		var zero T
		return zero
	}
	return s.ctl.value
}

// Clone returns a new owning handle of the same value. Cloning an empty handle
// returns an empty handle.
func (s *Shared[T]) Clone() *Shared[T] {
	if s.IsEmpty() || !s.ctl.acquire() {
		return &Shared[T]{}
	}
	return &Shared[T]{ctl: s.ctl}
}

// Release gives up ownership. Releasing a handle more than once has no effect.
func (s *Shared[T]) Release() {
	if s == nil || s.ctl == nil {
		return
	}
	if s.released.CompareAndSwap(false, true) {
		s.ctl.release()
	}
}

// UseCount returns the number of owning handles of the value, or 0 if the
// handle is empty.
func (s *Shared[T]) UseCount() int64 {
	if s.IsEmpty() {
		return 0
	}
	return s.ctl.strong.Load()
}

// Weak returns a non-owning observer of the value.
func (s *Shared[T]) Weak() *Weak[T] {
	if s.IsEmpty() {
		return &Weak[T]{}
	}
	return &Weak[T]{ctl: s.ctl}
}

// Share takes an extra ownership stake for the duration of a read.
func (s *Shared[T]) Share() (coalesce.Holder[T], func()) {
	stake := s.Clone()
	return stake, stake.Release
}

// Weak observes a shared value without owning it.
type Weak[T any] struct {
	ctl *control[T]
}

var (
	_ coalesce.Holder[int]   = (*Weak[int])(nil)
	_ coalesce.Upgrader[int] = (*Weak[int])(nil)
)

// Expired reports whether the observed value has been released.
func (w *Weak[T]) Expired() bool {
	return w == nil || w.ctl == nil || w.ctl.strong.Load() == 0
}

// Lock returns a new owning handle of the observed value, or false if the value
// has already been released.
func (w *Weak[T]) Lock() (*Shared[T], bool) {
	if w == nil || w.ctl == nil || !w.ctl.acquire() {
		return nil, false
	}
	return &Shared[T]{ctl: w.ctl}, true
}

// IsEmpty reports whether the observed value has been released.
func (w *Weak[T]) IsEmpty() bool {
	return w.Expired()
}

// Value returns a copy of the observed value, or the zero value of T if it has
// been released.
func (w *Weak[T]) Value() T {
	strong, ok := w.Lock()
	if !ok {
		var zero T
		return zero
	}
	defer strong.Release()
	return strong.Value()
}

// TryUpgrade locks the observed value for the duration of a read.
func (w *Weak[T]) TryUpgrade() (coalesce.Holder[T], func(), bool) {
	strong, ok := w.Lock()
	if !ok {
		return nil, nil, false
	}
	return strong, strong.Release, true
}
