// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package expr

import (
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/shape"
	"github.com/luxfi/hecore/tensor"
)

// Value is a shapeless leaf capturing a scalar by move at construction
// time. Unlike Const it carries no constant-folding witness: a Value is an
// opaque runtime scalar, so Binary never folds through it.
type Value[T any] struct {
	v T
}

// NewValue captures v by value as a Node of shape ().
func NewValue[T any](v T) Value[T] { return Value[T]{v: v} }

func (v Value[T]) Shape() shape.Shape { return shape.New() }
func (v Value[T]) Access() Access     { return AccessOnce }
func (v Value[T]) Eval(int) T         { return v.v }

// ValueView is a shapeless leaf borrowing a scalar by pointer. The node
// must not outlive the value it names, the same lifetime rule tensor
// leaves impose on their tensors; the borrow means a caller can mutate the
// scalar between submissions and later kernels observe the new value.
type ValueView[T any] struct {
	v *T
}

// NewValueView borrows v as a Node of shape ().
func NewValueView[T any](v *T) ValueView[T] { return ValueView[T]{v: v} }

func (v ValueView[T]) Shape() shape.Shape { return shape.New() }
func (v ValueView[T]) Access() Access     { return AccessOnce }
func (v ValueView[T]) Eval(int) T         { return *v.v }

// TensorLeaf reads one element per index out of a borrowed tensor, without
// copying the tensor's storage the way NewLeaf does. The expression must
// not outlive the tensor it names. Two TensorLeaf nodes over the same
// tensor share its backing buffer directly, so a tensor referenced twice
// in one expression is read through one allocation rather than two.
type TensorLeaf[T any] struct {
	t *tensor.Tensor[T]
}

// NewTensorLeaf borrows t for the lifetime of the expression.
func NewTensorLeaf[T any](t *tensor.Tensor[T]) TensorLeaf[T] {
	return TensorLeaf[T]{t: t}
}

func (l TensorLeaf[T]) Shape() shape.Shape { return l.t.Shape() }
func (l TensorLeaf[T]) Access() Access     { return AccessOnce }
func (l TensorLeaf[T]) Eval(i int) T       { return l.t.Flat(i) }

// Absolute is satisfied by element types with an absolute-value operation,
// e.g. bigint.Int.
type Absolute[T any] interface {
	Abs() T
}

// Abs applies the element type's absolute value at every index. For
// unsigned element types Abs is the identity, which the element type's own
// Abs already encodes.
func Abs[T Absolute[T]](child Node[T]) Node[T] {
	return MapNode(child, func(x T) T { return x.Abs() })
}

// CastMod converts every element from ring From into ring To by lowering
// out of Montgomery form on the source side and raising back into
// Montgomery form on the destination side — there is no representation
// shortcut between two rings with different R mod p constants.
func CastMod[From, To modular.Modulus](child Node[modular.Mod[From]]) Node[modular.Mod[To]] {
	return MapNode(child, func(x modular.Mod[From]) modular.Mod[To] {
		return modular.FromPlain[To](x.ToPlain())
	})
}
