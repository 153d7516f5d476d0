// Package value holds the tagged "present or absent" value used wherever a
// blank cell must stay distinguishable from an observed zero.
package value

import (
	"strconv"
)

// Maybe is either a present value or absent. The zero Maybe is absent.
type Maybe[T any] struct {
	v  T
	ok bool
}

// Some returns a present value.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{v: v, ok: true}
}

// None returns an absent value.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) {
	return m.v, m.ok
}

// Present reports whether a value is set.
func (m Maybe[T]) Present() bool {
	return m.ok
}

// Or returns the value, or def when absent.
func (m Maybe[T]) Or(def T) T {
	if !m.ok {
		return def
	}
	return m.v
}

// FormatInt renders a count, absent as an empty cell.
func FormatInt(m Maybe[int]) string {
	v, ok := m.Get()
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

// FormatFloat renders a float with the shortest exact representation, absent
// as an empty cell.
func FormatFloat(m Maybe[float64]) string {
	v, ok := m.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Mean averages the present values. It is absent when no value is present.
func Mean(values []Maybe[float64]) Maybe[float64] {
	var sum float64
	var n int
	for _, m := range values {
		if v, ok := m.Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return None[float64]()
	}
	return Some(sum / float64(n))
}
