// Package coalesce selects the first non-empty value from an ordered list of
// value holders, in the spirit of the SQL COALESCE function.
//
// A holder is anything that can report whether it holds a value and hand that
// value out: raw pointers ([Ptr]), optional values, exclusive, shared and weak
// ownership containers, callables producing holders ([Lazy]) or the absent
// marker (a nil [Holder]). Holders of different kinds may be mixed in one call.
//
// Resolution walks the holders strictly left to right and stops at the first
// non-empty one. Holders after it are never evaluated, so a callable holder is
// invoked at most once and only when every holder before it is empty.
//
// Example usage:
//
//	var fromFlag *int
//	fromEnv := optional.None[int]()
//	port := Coalesce(8080, Ptr(fromFlag), fromEnv) // port will be 8080
package coalesce

// Coalesce returns the value of the first non-empty holder, or def if every
// holder is empty or no holders are given.
//
// The result is always a copy, so it is safe to use with holders whose
// storage may be released right after the call, such as shared and weak
// ownership containers.
func Coalesce[T any](def T, holders ...Holder[T]) T {
	if v, ok := resolve(holders); ok {
		return v
	}
	return def
}

// CoalesceFunc is like [Coalesce] but computes the default lazily. def is
// invoked at most once and only if every holder is empty. A nil def yields the
// zero value of T.
func CoalesceFunc[T any](def func() T, holders ...Holder[T]) T {
	if v, ok := resolve(holders); ok {
		return v
	}
	if def == nil {
		var zero T
		return zero
	}
	return def()
}

// CoalesceRef returns a pointer to the value of the first non-empty holder, or
// def if every holder is empty.
//
// Only holders whose storage outlives the call implement [RefHolder], so the
// returned pointer may be used to read or modify the selected value in place.
// Shared and weak ownership containers are deliberately not accepted here; use
// [Coalesce] for them.
func CoalesceRef[T any](def *T, holders ...RefHolder[T]) *T {
	for _, holder := range holders {
		if p := lookupRef(holder); p != nil {
			return p
		}
	}
	return def
}

// Find returns the value of the first non-empty holder together with its
// position in holders. If every holder is empty, it returns def and -1.
func Find[T any](def T, holders ...Holder[T]) (T, int) {
	for idx, holder := range holders {
		if v, ok := lookup(holder); ok {
			return v, idx
		}
	}
	return def, -1
}

// ValueOr returns the value the first non-nil pointer points to, or def if all
// pointers are nil.
func ValueOr[T any](def T, ptrs ...*T) T {
	if p := First(ptrs...); p != nil {
		return *p
	}
	return def
}

// First returns the first non-nil pointer from the given list of pointers.
// If all pointers are nil, it returns nil.
//
// Example usage:
//
//	val1 := 1
//	val2 := 2
//	result := First(&val1, nil, &val2) // result will point to val1
func First[T any](ptrs ...*T) *T {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}

// Or returns the first value that is not the zero value of T. If all values are
// zero, it returns the zero value.
func Or[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

func resolve[T any](holders []Holder[T]) (T, bool) {
	for _, holder := range holders {
		if v, ok := lookup(holder); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// lookup extracts the value of a single holder.
func lookup[T any](holder Holder[T]) (T, bool) {
	pinned, release := pin(holder)
	defer release()
	return extract(pinned)
}

// pin applies the dispatch rules to a holder and returns a holder that is safe
// to test and read until release is called: callables are invoked once before
// the emptiness test, weak references are upgraded and shared owners get an
// extra stake.
func pin[T any](holder Holder[T]) (Holder[T], func()) {
	for {
		if holder == nil {
			return nil, noop
		}
		if l, isLookuper := holder.(lookuper[T]); isLookuper {
			v, ok := l.lookup()
			return Maybe(v, ok), noop
		}
		invoker, isInvoker := holder.(Invoker[T])
		if !isInvoker {
			break
		}
		holder = invoker.Invoke()
	}

	switch h := holder.(type) {
	case Upgrader[T]:
		strong, release, ok := h.TryUpgrade()
		if !ok {
			return nil, noop
		}
		return strong, release
	case Sharer[T]:
		return h.Share()
	}

	return holder, noop
}

func noop() {}

func extract[T any](holder Holder[T]) (v T, ok bool) {
	if holder == nil || holder.IsEmpty() {
		return v, false
	}
	return holder.Value(), true
}

func lookupRef[T any](holder RefHolder[T]) *T {
	for holder != nil {
		invoker, isInvoker := holder.(RefInvoker[T])
		if !isInvoker {
			return holder.Ref()
		}
		holder = invoker.InvokeRef()
	}
	return nil
}
