// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package tensor implements owning, row-major tensor storage.
// Tensor is a generic dense array for scalar element types; PolyTensor
// specializes storage for tensors of ring elements by flattening each
// element's N coefficients into one contiguous buffer, matching how the
// compiler in package queue hands storage to a device accessor as a single
// span rather than one allocation per element.
package tensor

import (
	"github.com/luxfi/hecore/assert"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/shape"
)

// Tensor is a dense, owning, row-major array of T.
type Tensor[T any] struct {
	shp  shape.Shape
	data []T
}

// New constructs a Tensor from row-major data; len(data) must equal
// shp.NumElements().
func New[T any](shp shape.Shape, data []T) Tensor[T] {
	assert.That(len(data) == shp.NumElements(), "tensor: shape %v needs %d elements, got %d", shp, shp.NumElements(), len(data))
	out := make([]T, len(data))
	copy(out, data)
	return Tensor[T]{shp: shp, data: out}
}

// Zero constructs a zero-valued Tensor of the given shape.
func Zero[T any](shp shape.Shape) Tensor[T] {
	return Tensor[T]{shp: shp, data: make([]T, shp.NumElements())}
}

// Shape reports the tensor's shape.
func (t Tensor[T]) Shape() shape.Shape { return t.shp }

// At returns the element at the given multi-dimensional index.
func (t Tensor[T]) At(idx ...int) T { return t.data[t.shp.LinearIndex(idx)] }

// Set writes the element at the given multi-dimensional index.
func (t Tensor[T]) Set(v T, idx ...int) { t.data[t.shp.LinearIndex(idx)] = v }

// Flat returns the element at flat row-major offset i.
func (t Tensor[T]) Flat(i int) T { return t.data[i] }

// SetFlat writes the element at flat row-major offset i.
func (t Tensor[T]) SetFlat(i int, v T) { t.data[i] = v }

// Data returns a defensive copy of the backing row-major slice.
func (t Tensor[T]) Data() []T {
	out := make([]T, len(t.data))
	copy(out, t.data)
	return out
}

// PolyTensor stores a tensor of degree-N ring elements as one contiguous
// slice of N*NumElements() coefficients in the given representation,
// rather than one []modular.Mod[M] allocation per element — the layout a
// device accessor expects to receive as a single buffer.
type PolyTensor[M modular.Modulus] struct {
	shp  shape.Shape
	n    int
	rep  poly.Representation
	flat []modular.Mod[M]
}

// ZeroPoly constructs a PolyTensor of the given outer shape, each element a
// degree-n polynomial of the given representation, initialized to zero.
func ZeroPoly[M modular.Modulus](shp shape.Shape, n int, rep poly.Representation) PolyTensor[M] {
	flat := make([]modular.Mod[M], shp.NumElements()*n)
	for i := range flat {
		flat[i] = modular.Zero[M]()
	}
	return PolyTensor[M]{shp: shp, n: n, rep: rep, flat: flat}
}

// Shape reports the outer (non-polynomial) shape.
func (t PolyTensor[M]) Shape() shape.Shape { return t.shp }

// N reports the ring degree of each element.
func (t PolyTensor[M]) N() int { return t.n }

// Representation reports the representation every element is stored in.
func (t PolyTensor[M]) Representation() poly.Representation { return t.rep }

// At reconstructs the Poly at the given multi-dimensional outer index.
func (t PolyTensor[M]) At(idx ...int) poly.Poly[M] {
	off := t.shp.LinearIndex(idx) * t.n
	return poly.New[M](t.n, t.rep, t.flat[off:off+t.n])
}

// Set writes a Poly at the given multi-dimensional outer index; p must
// share this tensor's degree and representation.
func (t PolyTensor[M]) Set(p poly.Poly[M], idx ...int) {
	assert.That(p.N() == t.n && p.Representation() == t.rep,
		"tensor: element (n=%d/%v) does not match tensor (n=%d/%v)", p.N(), p.Representation(), t.n, t.rep)
	off := t.shp.LinearIndex(idx) * t.n
	copy(t.flat[off:off+t.n], p.Coeffs())
}

// FlatCoeffs returns a defensive copy of the entire contiguous coefficient
// buffer, in outer-row-major, then per-element-coefficient order.
func (t PolyTensor[M]) FlatCoeffs() []modular.Mod[M] {
	out := make([]modular.Mod[M], len(t.flat))
	copy(out, t.flat)
	return out
}
