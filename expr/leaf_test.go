// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package expr

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/hecore/bigint"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/shape"
	"github.com/luxfi/hecore/tensor"
)

func TestValueCapturesByMove(t *testing.T) {
	x := 42
	v := NewValue(x)
	x = 7
	require.Equal(t, 42, v.Eval(0))
	require.Equal(t, shape.New(), v.Shape())
	_ = x
}

func TestValueViewObservesMutation(t *testing.T) {
	x := 42
	v := NewValueView(&x)
	require.Equal(t, 42, v.Eval(0))
	x = 7
	require.Equal(t, 7, v.Eval(0))
}

func TestValueDoesNotFoldInBinary(t *testing.T) {
	sum := Binary[int](NewValue(2), NewConst(3), func(a, b int) int { return a + b })
	_, folded := sum.(Const[int])
	require.False(t, folded, "a Value operand is an opaque runtime scalar, not a foldable constant")
	require.Equal(t, 5, sum.Eval(0))
}

func TestTensorLeafBorrowsWithoutCopying(t *testing.T) {
	ten := tensor.New(shape.New(3), []int{1, 2, 3})
	l := NewTensorLeaf(&ten)
	require.Equal(t, shape.New(3), l.Shape())
	require.Equal(t, 2, l.Eval(1))

	ten.SetFlat(1, 20)
	require.Equal(t, 20, l.Eval(1), "a tensor leaf borrows; later writes must be visible")
}

func TestAbsOverBigints(t *testing.T) {
	vals := []bigint.Int{bigint.FromInt64(32, -5), bigint.FromInt64(32, 3)}
	l := NewLeaf(shape.New(2), vals)
	a := Abs[bigint.Int](l)
	require.Equal(t, big.NewInt(5), a.Eval(0).BigInt())
	require.Equal(t, big.NewInt(3), a.Eval(1).BigInt())
}

type castP13 struct{}

func (castP13) P() *big.Int { return big.NewInt(13) }

func TestCastModReducesIntoSmallerRing(t *testing.T) {
	l := NewLeaf(shape.New(2), []modular.Mod[p97]{
		modular.FromUint64[p97](40),
		modular.FromUint64[p97](5),
	})
	c := CastMod[p97, castP13](l)
	require.Equal(t, big.NewInt(40%13), c.Eval(0).ToPlain())
	require.Equal(t, big.NewInt(5), c.Eval(1).ToPlain())
}
