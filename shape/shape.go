// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package shape implements a row-major tensor shape model:
// dimension vectors, broadcast compatibility, and linear-index conversion,
// shared by package tensor's storage and package expr's shape-inference
// pass.
package shape

import (
	"fmt"

	"github.com/luxfi/hecore/assert"
)

// Shape is a row-major dimension vector, outermost dimension first.
type Shape struct {
	dims []int
}

// New constructs a Shape from its dimensions; every dimension must be >= 1.
func New(dims ...int) Shape {
	for _, d := range dims {
		assert.That(d >= 1, "shape: dimension must be >= 1, got %v", dims)
	}
	out := make([]int, len(dims))
	copy(out, dims)
	return Shape{dims: out}
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s.dims) }

// Dim returns the size of dimension i. Negative i counts from the end, as
// in Unsqueeze.
func (s Shape) Dim(i int) int {
	if i < 0 {
		i += len(s.dims)
	}
	return s.dims[i]
}

// Dims returns a defensive copy of the dimension vector.
func (s Shape) Dims() []int {
	out := make([]int, len(s.dims))
	copy(out, s.dims)
	return out
}

// NumElements returns the product of all dimensions (1 for a rank-0 shape).
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s.dims {
		n *= d
	}
	return n
}

// Equal reports whether s and t have identical dimensions.
func (s Shape) Equal(t Shape) bool {
	if len(s.dims) != len(t.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != t.dims[i] {
			return false
		}
	}
	return true
}

// Unsqueeze inserts a size-1 dimension at position i. A negative i counts
// from the end: Unsqueeze(s, -1) appends a trailing dimension.
func Unsqueeze(s Shape, i int) Shape {
	n := len(s.dims) + 1
	if i < 0 {
		i += n
	}
	assert.That(i >= 0 && i < n, "shape: unsqueeze index %d out of range for rank %d", i, len(s.dims))
	out := make([]int, 0, n)
	out = append(out, s.dims[:i]...)
	out = append(out, 1)
	out = append(out, s.dims[i:]...)
	return Shape{dims: out}
}

// Broadcastable reports whether a and b can be broadcast together: aligned
// at their trailing dimension, every pair of aligned dimensions must be
// equal or one of them must be 1. The relation is commutative.
func Broadcastable(a, b Shape) bool {
	_, ok := Broadcast(a, b)
	return ok
}

// Broadcast computes the broadcast result shape of a and b, aligning
// trailing dimensions and padding the shorter shape's leading dimensions
// with 1s.
func Broadcast(a, b Shape) (Shape, bool) {
	n := len(a.dims)
	if len(b.dims) > n {
		n = len(b.dims)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		da, db := dimFromEnd(a, i), dimFromEnd(b, i)
		switch {
		case da == db:
			out[n-1-i] = da
		case da == 1:
			out[n-1-i] = db
		case db == 1:
			out[n-1-i] = da
		default:
			return Shape{}, false
		}
	}
	return Shape{dims: out}, true
}

func dimFromEnd(s Shape, i int) int {
	idx := len(s.dims) - 1 - i
	if idx < 0 {
		return 1
	}
	return s.dims[idx]
}

// Strides returns the row-major stride of each dimension (elements, not
// bytes): the outermost dimension has the largest stride.
func (s Shape) Strides() []int {
	strides := make([]int, len(s.dims))
	acc := 1
	for i := len(s.dims) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s.dims[i]
	}
	return strides
}

// LinearIndex converts a multi-dimensional index into a flat row-major
// offset.
func (s Shape) LinearIndex(idx []int) int {
	assert.That(len(idx) == len(s.dims), "shape: index rank %d does not match shape rank %d", len(idx), len(s.dims))
	strides := s.Strides()
	off := 0
	for i, v := range idx {
		off += v * strides[i]
	}
	return off
}

// BroadcastIndex maps a flat index in the broadcast result shape back to a
// flat index into the (possibly smaller) operand shape s, treating any
// size-1 dimension of s as fixed at 0 regardless of the corresponding
// result coordinate.
func (s Shape) BroadcastIndex(result Shape, flat int) int {
	resultStrides := result.Strides()
	coords := make([]int, result.Rank())
	rem := flat
	for i, st := range resultStrides {
		coords[i] = rem / st
		rem %= st
	}

	rank := s.Rank()
	resRank := result.Rank()
	strides := s.Strides()
	off := 0
	for i := 0; i < rank; i++ {
		d := s.dims[i]
		c := coords[resRank-rank+i]
		if d == 1 {
			c = 0
		}
		off += c * strides[i]
	}
	return off
}

func (s Shape) String() string { return fmt.Sprintf("%v", s.dims) }
