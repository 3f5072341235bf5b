// Package optional provides a value that may or may not be present.
//
// An [Option] is a value type: copying it copies the contained value. The
// zero Option is empty. Options decode from YAML and JSON, where a missing
// key or an explicit null leave the Option empty.
package optional

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Option holds zero or one value of type T.
type Option[T any] struct {
	value T
	valid bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, valid: true}
}

// None returns an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr returns an Option holding a copy of *p, or an empty Option if p is
// nil.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// FromPair turns a comma-ok pair into an Option.
func FromPair[T any](v T, ok bool) Option[T] {
	if !ok {
		return None[T]()
	}
	return Some(v)
}

// IsEmpty reports whether the Option holds no value.
func (o Option[T]) IsEmpty() bool {
	return !o.valid
}

// IsZero reports whether the Option is empty. It lets `omitempty` and
// `omitzero` struct tags skip empty options.
func (o Option[T]) IsZero() bool {
	return !o.valid
}

// Value returns the held value, or the zero value of T if the Option is empty.
func (o Option[T]) Value() T {
	return o.value
}

// Get returns the held value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Or returns the held value, or def if the Option is empty.
func (o Option[T]) Or(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

// Ptr returns a pointer to a copy of the held value, or nil if the Option is
// empty.
func (o Option[T]) Ptr() *T {
	if !o.valid {
		return nil
	}
	v := o.value
	return &v
}

// Ref returns a pointer to the value stored inside the Option, or nil if it
// is empty. Writes through the pointer change the Option.
func (o *Option[T]) Ref() *T {
	if o == nil || !o.valid {
		return nil
	}
	return &o.value
}

// Set stores v in the Option.
func (o *Option[T]) Set(v T) {
	o.value = v
	o.valid = true
}

// Clear empties the Option.
func (o *Option[T]) Clear() {
	var zero T
	o.value = zero
	o.valid = false
}

func (o Option[T]) String() string {
	if !o.valid {
		return "<none>"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an empty Option as null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as an empty Option.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		o.Clear()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set(v)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface. An empty Option is
// encoded as null.
func (o Option[T]) MarshalYAML() (interface{}, error) {
	if !o.valid {
		return nil, nil
	}
	return o.value, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface. The decoder does
// not call it for null values, which leaves the Option empty.
func (o *Option[T]) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v T
	if err := unmarshal(&v); err != nil {
		return err
	}
	o.Set(v)
	return nil
}

// Override returns top if it holds a value and base otherwise.
func Override[T any](base, top Option[T]) Option[T] {
	if top.valid {
		return top
	}
	return base
}

// Map applies fn to the held value, if any.
func Map[T, U any](o Option[T], fn func(T) U) Option[U] {
	if !o.valid {
		return None[U]()
	}
	return Some(fn(o.value))
}

// FormatInt converts an optional integer to a string. Returns an empty string
// if the Option is empty.
func FormatInt[T constraints.Integer](o Option[T]) string {
	if !o.valid {
		return ""
	}
	return strconv.FormatInt(int64(o.value), 10)
}
