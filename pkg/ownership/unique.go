package ownership

import (
	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

// Unique exclusively owns at most one value. The zero Unique is empty.
//
// A Unique must not be copied after first use; transfer ownership with
// [Unique.Move] instead.
type Unique[T any] struct {
	p *T
}

var (
	_ coalesce.Holder[int]    = (*Unique[int])(nil)
	_ coalesce.RefHolder[int] = (*Unique[int])(nil)
)

// NewUnique returns a Unique owning v.
func NewUnique[T any](v T) *Unique[T] {
	return &Unique[T]{p: &v}
}

// IsEmpty reports whether the Unique owns no value. A nil Unique is empty.
func (u *Unique[T]) IsEmpty() bool {
	return u == nil || u.p == nil
}

// Value returns a copy of the owned value, or the zero value of T if the
// Unique is empty.
func (u *Unique[T]) Value() T {
	if u.IsEmpty() {
		var zero T
		return zero
	}
	return *u.p
}

// Ref returns a pointer to the owned value, or nil if the Unique is empty.
func (u *Unique[T]) Ref() *T {
	if u.IsEmpty() {
		return nil
	}
	return u.p
}

// Reset replaces the owned value with v.
func (u *Unique[T]) Reset(v T) {
	u.p = &v
}

// Clear drops the owned value.
func (u *Unique[T]) Clear() {
	u.p = nil
}

// Release gives up ownership and returns the value that was owned, or nil.
func (u *Unique[T]) Release() *T {
	if u == nil {
		return nil
	}
	p := u.p
	u.p = nil
	return p
}

// Move transfers ownership to a new Unique, leaving u empty.
func (u *Unique[T]) Move() *Unique[T] {
	return &Unique[T]{p: u.Release()}
}
