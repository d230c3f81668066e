// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package expr

import (
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/shape"
)

// transform wraps a tensor of polynomials and converts every element to a
// target representation. It is tagged AccessMultiple: each Eval(i) redoes
// the O(N log N) transform for element i, so any node reading this one
// more than once should go through Materialize first rather than pay that
// cost repeatedly.
type transform[M modular.Modulus] struct {
	child  Node[poly.Poly[M]]
	target poly.Representation
}

// NTT converts every polynomial in child to number-theoretic-transform
// (evaluation) representation.
func NTT[M modular.Modulus](child Node[poly.Poly[M]]) Node[poly.Poly[M]] {
	return transform[M]{child: child, target: poly.NumberTheoretic}
}

// INTT converts every polynomial in child back to coefficient
// representation.
func INTT[M modular.Modulus](child Node[poly.Poly[M]]) Node[poly.Poly[M]] {
	return transform[M]{child: child, target: poly.Coefficient}
}

func (t transform[M]) Shape() shape.Shape { return t.child.Shape() }
func (t transform[M]) Access() Access     { return AccessMultiple }
func (t transform[M]) Eval(i int) poly.Poly[M] {
	return poly.ToRepresentation[M](t.child.Eval(i), t.target)
}

func (t transform[M]) EvalAll() []poly.Poly[M] {
	n := t.Shape().NumElements()
	out := make([]poly.Poly[M], n)
	for i := 0; i < n; i++ {
		out[i] = t.Eval(i)
	}
	return out
}

// Materialize forces any AccessMultiple node to compute its entire output
// once and returns a plain Leaf wrapping the result — the materialization
// pass a compiler runs before wiring a subtree into more than one consumer,
// so an expensive node like transform never gets recomputed per reader.
// Nodes already tagged AccessOnce pass through unchanged.
func Materialize[T any](n Node[T]) Node[T] {
	if n.Access() != AccessMultiple {
		return n
	}
	w, ok := n.(WholeArray[T])
	if !ok {
		return n
	}
	return NewLeaf(n.Shape(), w.EvalAll())
}
