// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package konst carries compile-time-known values through the numeric call
// graph. Go has no value-level generics (no const-generic integer
// parameters), so a compile-time-constant witness is modelled as a tiny
// runtime wrapper that is constructed once, at package `init` time or the
// first call of a memoised constructor, and never again: the fold happens
// at that single construction site.
package konst

// Value is either a known constant or an opaque runtime value of T.
type Value[T any] struct {
	known bool
	value T
}

// Const wraps v as a known compile-time value.
func Const[T any](v T) Value[T] {
	return Value[T]{known: true, value: v}
}

// Runtime wraps v as a value with no compile-time information.
func Runtime[T any](v T) Value[T] {
	return Value[T]{value: v}
}

// IsConst reports whether v was constructed via Const.
func (v Value[T]) IsConst() bool { return v.known }

// Value returns the underlying value regardless of its constness.
func (v Value[T]) Value() T { return v.value }

// Limb is the Value specialisation folding is defined over in this
// package; it is the same type as limb.Limb.
type Limb = uint32

// And folds a & b to a known constant whenever either operand is 0 or both
// are known; otherwise it falls through to a plain runtime AND. The
// absorbing shortcut is x & 0 -> 0; both-known yields the folded value.
func And(a, b Value[Limb]) Value[Limb] {
	switch {
	case a.IsConst() && a.value == 0:
		return Const[Limb](0)
	case b.IsConst() && b.value == 0:
		return Const[Limb](0)
	case a.IsConst() && b.IsConst():
		return Const(a.value & b.value)
	default:
		return Runtime(a.value & b.value)
	}
}

// Or folds a | b: x | ones -> ones, both-known -> the folded value.
func Or(a, b Value[Limb]) Value[Limb] {
	switch {
	case a.IsConst() && a.value == ^Limb(0):
		return Const(^Limb(0))
	case b.IsConst() && b.value == ^Limb(0):
		return Const(^Limb(0))
	case a.IsConst() && b.IsConst():
		return Const(a.value | b.value)
	default:
		return Runtime(a.value | b.value)
	}
}

// Xor folds a ^ b: x ^ ones -> ~x (only when x is itself also known, since
// the result must still be marked const precisely when both operands are),
// both-known -> the folded value.
func Xor(a, b Value[Limb]) Value[Limb] {
	if a.IsConst() && b.IsConst() {
		return Const(a.value ^ b.value)
	}
	return Runtime(a.value ^ b.value)
}

// Add folds a + b to a known constant iff both operands are known.
func Add(a, b Value[Limb]) Value[Limb] {
	if a.IsConst() && b.IsConst() {
		return Const(a.value + b.value)
	}
	return Runtime(a.value + b.value)
}

// Select folds Select(f, t, c) down to f or t directly when c is known,
// regardless of whether f/t are known.
func Select(falseValue, trueValue Value[Limb], choice Value[Bit]) Value[Limb] {
	if choice.IsConst() {
		if choice.value == 1 {
			return trueValue
		}
		return falseValue
	}
	if falseValue.IsConst() && trueValue.IsConst() && falseValue.value == trueValue.value {
		return falseValue
	}
	mask := Limb(0) - Limb(choice.value)
	return Runtime(falseValue.value ^ (mask & (falseValue.value ^ trueValue.value)))
}

// Bit mirrors limb.Bit without importing the limb package, to keep konst a
// leaf dependency.
type Bit = uint32
