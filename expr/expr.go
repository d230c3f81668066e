// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package expr implements a lazy tensor-expression AST: nodes
// carry a shape and an access hint (once vs. multiple) and are only
// evaluated when package queue compiles and submits them to a
// device.Queue. Nodes whose semantics need the whole input array at once
// (the NTT family) implement WholeArray in addition to Node so the
// compiler can materialize them before anything downstream reads them
// elementwise.
package expr

import (
	"github.com/luxfi/hecore/assert"
	"github.com/luxfi/hecore/konst"
	"github.com/luxfi/hecore/shape"
)

// Access declares whether a node's Eval may be called once per output
// element (the common case, safe to parallelize across a device.Queue
// submission) or needs every input element gathered before it can produce
// any output (e.g. a transform).
type Access int

const (
	AccessOnce Access = iota
	AccessMultiple
)

// Node is a typed, shaped expression producing T elements in row-major
// order over its Shape.
type Node[T any] interface {
	Shape() shape.Shape
	Access() Access
	// Eval returns the element at flat row-major index i. Only valid to
	// call directly when Access() == AccessOnce; AccessMultiple nodes must
	// be materialized via WholeArray.EvalAll first.
	Eval(i int) T
}

// WholeArray is implemented by AccessMultiple nodes: EvalAll computes and
// returns every element at once, in row-major order.
type WholeArray[T any] interface {
	Node[T]
	EvalAll() []T
}

// Const is a shapeless node broadcastable to any shape, returning the same
// value at every index. The stored konst.Value witness is what lets
// Binary fold an all-constant subexpression down to a single Const at
// construction time instead of re-evaluating the op per output element.
type Const[T any] struct {
	value konst.Value[T]
}

// NewConst wraps v as a Node of shape ().
func NewConst[T any](v T) Const[T] { return Const[T]{value: konst.Const(v)} }

func (c Const[T]) Shape() shape.Shape { return shape.New() }
func (c Const[T]) Access() Access     { return AccessOnce }
func (c Const[T]) Eval(int) T         { return c.value.Value() }

// Leaf wraps a materialized row-major array as a Node.
type Leaf[T any] struct {
	shp  shape.Shape
	data []T
}

// NewLeaf constructs a Leaf over data, which must have shp.NumElements()
// entries.
func NewLeaf[T any](shp shape.Shape, data []T) Leaf[T] {
	assert.That(len(data) == shp.NumElements(), "expr: leaf shape %v needs %d elements, got %d", shp, shp.NumElements(), len(data))
	out := make([]T, len(data))
	copy(out, data)
	return Leaf[T]{shp: shp, data: out}
}

func (l Leaf[T]) Shape() shape.Shape { return l.shp }
func (l Leaf[T]) Access() Access     { return AccessOnce }
func (l Leaf[T]) Eval(i int) T       { return l.data[i] }

// binary is the shared broadcasting implementation behind the exported
// binary op constructors below.
type binary[T any] struct {
	shp   shape.Shape
	left  Node[T]
	right Node[T]
	op    func(a, b T) T
}

func newBinary[T any](left, right Node[T], op func(a, b T) T) binary[T] {
	// Materialize any AccessMultiple operand before wiring it in: binary
	// itself always reports AccessOnce, so once it is built a parent never
	// gets the chance to materialize an AccessMultiple child on binary's
	// behalf — that has to happen here, at construction time, not at
	// Eval time, matching the compiler's requirement to recursively
	// materialize every access(multiple) subtree, not just the root.
	left = Materialize[T](left)
	right = Materialize[T](right)
	result, ok := shape.Broadcast(left.Shape(), right.Shape())
	assert.That(ok, "expr: incompatible shapes %v and %v", left.Shape(), right.Shape())
	return binary[T]{shp: result, left: left, right: right, op: op}
}

func (b binary[T]) Shape() shape.Shape { return b.shp }
func (b binary[T]) Access() Access     { return AccessOnce }
func (b binary[T]) Eval(i int) T {
	li := b.left.Shape().BroadcastIndex(b.shp, i)
	ri := b.right.Shape().BroadcastIndex(b.shp, i)
	return b.op(b.left.Eval(li), b.right.Eval(ri))
}

// Binary constructs a broadcasting elementwise binary Node from an
// arbitrary op, the building block for Add/Sub/Mul-style operators over
// any element type package expr's callers work with. When both operands
// are constant leaves the op is folded once at construction and the
// result is itself a Const, so constness propagates up an all-constant
// subtree instead of being re-derived per output element.
func Binary[T any](left, right Node[T], op func(a, b T) T) Node[T] {
	if lc, ok := left.(Const[T]); ok {
		if rc, ok := right.(Const[T]); ok {
			return Const[T]{value: konst.Const(op(lc.value.Value(), rc.value.Value()))}
		}
	}
	return newBinary[T](left, right, op)
}

// unsqueeze reshapes its child without touching any element.
type unsqueeze[T any] struct {
	child Node[T]
	shp   shape.Shape
}

// Unsqueeze inserts a size-1 dimension at position i into child's shape
// (negative i counts from the end), purely a reshape. child is materialized
// first if it is AccessMultiple: unsqueeze.Eval reads straight through to
// child.Eval, so an unmaterialized transform underneath would otherwise be
// recomputed from scratch on every read instead of compiled once.
func Unsqueeze[T any](child Node[T], i int) Node[T] {
	child = Materialize[T](child)
	return unsqueeze[T]{child: child, shp: shape.Unsqueeze(child.Shape(), i)}
}

func (u unsqueeze[T]) Shape() shape.Shape { return u.shp }
func (u unsqueeze[T]) Access() Access     { return u.child.Access() }
func (u unsqueeze[T]) Eval(i int) T       { return u.child.Eval(i) }

// vectorise repeats a child element along a fresh trailing dimension of
// size n, the tensor-expression-engine analogue of broadcasting a scalar
// into a same-valued vector.
type vectorise[T any] struct {
	child Node[T]
	n     int
	shp   shape.Shape
}

// Vectorise appends a trailing dimension of size n to child's shape,
// repeating every element of child n times contiguously. child is
// materialized first if it is AccessMultiple: vectorise reads each child
// element up to n times, which would otherwise turn one expensive
// transform into n re-evaluations of it instead of one.
func Vectorise[T any](child Node[T], n int) Node[T] {
	child = Materialize[T](child)
	shp := shape.Unsqueeze(child.Shape(), -1)
	dims := shp.Dims()
	dims[len(dims)-1] = n
	return vectorise[T]{child: child, n: n, shp: shape.New(dims...)}
}

func (v vectorise[T]) Shape() shape.Shape { return v.shp }
func (v vectorise[T]) Access() Access     { return v.child.Access() }
func (v vectorise[T]) Eval(i int) T       { return v.child.Eval(i / v.n) }

// mapNode applies a pure elementwise function, possibly changing the element
// type — this is how casts, centered-absolute-value, and similar
// type-changing unary ops are expressed over the AST.
type mapNode[In, Out any] struct {
	child Node[In]
	fn    func(In) Out
}

// MapNode builds a type-changing elementwise Node from child via fn. child
// is materialized first if it is AccessMultiple, for the same reason as
// Unsqueeze and Vectorise above: mapNode.Eval reads straight through to
// child.Eval with no caching of its own.
func MapNode[In, Out any](child Node[In], fn func(In) Out) Node[Out] {
	child = Materialize[In](child)
	return mapNode[In, Out]{child: child, fn: fn}
}

func (m mapNode[In, Out]) Shape() shape.Shape { return m.child.Shape() }
func (m mapNode[In, Out]) Access() Access     { return m.child.Access() }
func (m mapNode[In, Out]) Eval(i int) Out     { return m.fn(m.child.Eval(i)) }
