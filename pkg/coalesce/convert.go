package coalesce

import (
	"golang.org/x/exp/constraints"
)

// Number is the set of types [ConvertNumber] converts between.
type Number interface {
	constraints.Integer | constraints.Float
}

type converted[T, S any] struct {
	holder  Holder[S]
	convert func(S) T
}

// Convert adapts a holder of S into a holder of T. The wrapped holder keeps
// its own dispatch rules: a callable is still invoked once, and a weak or
// shared holder stays pinned while convert runs.
func Convert[T, S any](holder Holder[S], convert func(S) T) Holder[T] {
	return converted[T, S]{holder: holder, convert: convert}
}

// ConvertNumber adapts a holder of one numeric type into a holder of another
// using a plain Go conversion.
func ConvertNumber[T, S Number](holder Holder[S]) Holder[T] {
	return Convert(holder, func(v S) T { return T(v) })
}

func (m converted[T, S]) lookup() (v T, ok bool) {
	pinned, release := pin(m.holder)
	defer release()

	s, ok := extract(pinned)
	if !ok {
		return v, false
	}
	return m.convert(s), true
}

func (m converted[T, S]) IsEmpty() bool {
	_, ok := m.lookup()
	return !ok
}

func (m converted[T, S]) Value() T {
	v, _ := m.lookup()
	return v
}

type bound[T, S any] struct {
	holder Holder[S]
	next   func(S) Holder[T]
}

// Bind chains two holders: once holder yields a value, next selects the holder
// the result is taken from. The outer holder stays pinned while next runs, so
// next may safely read fields of a shared or weakly referenced value.
//
// Bind is empty if either holder is empty.
func Bind[T, S any](holder Holder[S], next func(S) Holder[T]) Holder[T] {
	return bound[T, S]{holder: holder, next: next}
}

func (m bound[T, S]) lookup() (v T, ok bool) {
	pinned, release := pin(m.holder)
	defer release()

	s, ok := extract(pinned)
	if !ok {
		return v, false
	}
	return lookup(m.next(s))
}

func (m bound[T, S]) IsEmpty() bool {
	_, ok := m.lookup()
	return !ok
}

func (m bound[T, S]) Value() T {
	v, _ := m.lookup()
	return v
}
