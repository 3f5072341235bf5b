package coalesce

import (
	"runtime"
	"weak"
)

// Holder wraps zero or one value of type T.
//
// Value is only meaningful when IsEmpty reports false. What Value does on an
// empty holder is up to the holder: [Pointer] panics like a nil dereference,
// most other holders return the zero value.
type Holder[T any] interface {
	IsEmpty() bool
	Value() T
}

// RefHolder is a holder whose storage is guaranteed to outlive the call that
// reads it, so the value may be handed out by address. A nil Ref means the
// holder is empty.
type RefHolder[T any] interface {
	Ref() *T
}

// Invoker is implemented by holders computed on demand. Resolution invokes
// such a holder exactly once and classifies the returned holder in its place.
type Invoker[T any] interface {
	Invoke() Holder[T]
}

// RefInvoker is the [Invoker] counterpart for reference resolution.
type RefInvoker[T any] interface {
	InvokeRef() RefHolder[T]
}

// Upgrader is implemented by non-owning holders whose referent may be released
// at any moment. TryUpgrade atomically obtains a strong holder; release must be
// called once the value has been read.
type Upgrader[T any] interface {
	TryUpgrade() (strong Holder[T], release func(), ok bool)
}

// Sharer is implemented by holders sharing ownership of their value. Share
// takes an extra ownership stake that keeps the value alive until release is
// called.
type Sharer[T any] interface {
	Share() (stake Holder[T], release func())
}

// lookuper is implemented by adapters of this package that wrap other holders
// and must resolve them with the full dispatch rules.
type lookuper[T any] interface {
	lookup() (T, bool)
}

// Absent returns the absent marker. It is always empty and is skipped by
// resolution. A nil Holder has the same meaning.
func Absent[T any]() Holder[T] {
	return nil
}

// Pointer is a raw nullable reference.
type Pointer[T any] struct {
	p *T
}

// Ptr wraps a raw pointer. A nil pointer is empty.
func Ptr[T any](p *T) Pointer[T] {
	return Pointer[T]{p: p}
}

func (m Pointer[T]) IsEmpty() bool {
	return m.p == nil
}

// Value dereferences the wrapped pointer.
func (m Pointer[T]) Value() T {
	return *m.p
}

func (m Pointer[T]) Ref() *T {
	return m.p
}

// Func is a zero-argument callable producing a holder. A nil Func is empty.
//
// IsEmpty and Value invoke the function on every call; resolution invokes it
// at most once through Invoke.
type Func[T any] func() Holder[T]

// Lazy defers the computation of a holder until resolution reaches it.
func Lazy[T any](fn func() Holder[T]) Func[T] {
	return Func[T](fn)
}

// LazyPtr defers the computation of a raw pointer until resolution reaches it.
func LazyPtr[T any](fn func() *T) Func[T] {
	if fn == nil {
		return nil
	}
	return func() Holder[T] {
		return Ptr(fn())
	}
}

func (m Func[T]) Invoke() Holder[T] {
	if m == nil {
		return nil
	}
	return m()
}

func (m Func[T]) IsEmpty() bool {
	_, ok := lookup[T](m)
	return !ok
}

func (m Func[T]) Value() T {
	v, _ := lookup[T](m)
	return v
}

// RefFunc is a zero-argument callable producing a reference holder. A nil
// RefFunc is empty.
type RefFunc[T any] func() RefHolder[T]

// LazyRef defers the computation of a raw pointer until reference resolution
// reaches it.
func LazyRef[T any](fn func() *T) RefFunc[T] {
	if fn == nil {
		return nil
	}
	return func() RefHolder[T] {
		return Ptr(fn())
	}
}

func (m RefFunc[T]) InvokeRef() RefHolder[T] {
	if m == nil {
		return nil
	}
	return m()
}

func (m RefFunc[T]) Ref() *T {
	return lookupRef[T](m)
}

type maybe[T any] struct {
	value T
	ok    bool
}

// Maybe turns a comma-ok pair, such as the result of a map lookup or
// [os.LookupEnv], into a holder.
func Maybe[T any](v T, ok bool) Holder[T] {
	return maybe[T]{value: v, ok: ok}
}

func (m maybe[T]) IsEmpty() bool {
	return !m.ok
}

func (m maybe[T]) Value() T {
	return m.value
}

type nonZero[T comparable] struct {
	value T
}

// NonZero wraps a value that counts as empty when it equals the zero value of
// its type.
func NonZero[T comparable](v T) Holder[T] {
	return nonZero[T]{value: v}
}

func (m nonZero[T]) IsEmpty() bool {
	var zero T
	return m.value == zero
}

func (m nonZero[T]) Value() T {
	return m.value
}

type runtimeWeak[T any] struct {
	p weak.Pointer[T]
}

// Weak wraps a runtime weak pointer. It is empty once the garbage collector
// has reclaimed the referent.
func Weak[T any](p weak.Pointer[T]) Holder[T] {
	return runtimeWeak[T]{p: p}
}

func (m runtimeWeak[T]) IsEmpty() bool {
	return m.p.Value() == nil
}

func (m runtimeWeak[T]) Value() T {
	v, _ := lookup[T](m)
	return v
}

func (m runtimeWeak[T]) TryUpgrade() (Holder[T], func(), bool) {
	strong := m.p.Value()
	if strong == nil {
		return nil, nil, false
	}
	return Ptr(strong), func() { runtime.KeepAlive(strong) }, true
}
