// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package expr

import (
	"math/big"
	"testing"

	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/prg"
	"github.com/luxfi/hecore/shape"
	"github.com/stretchr/testify/require"
)

type p97 struct{}

func (p97) P() *big.Int { return big.NewInt(97) }

func TestConstBroadcastsEverywhere(t *testing.T) {
	c := NewConst(7)
	require.Equal(t, 7, c.Eval(0))
	require.Equal(t, 7, c.Eval(41))
}

func TestBinaryFoldsTwoConstants(t *testing.T) {
	sum := Binary[int](NewConst(2), NewConst(3), func(x, y int) int { return x + y })
	folded, ok := sum.(Const[int])
	require.True(t, ok, "two constant operands must fold to a constant")
	require.Equal(t, 5, folded.Eval(0))
	require.Equal(t, shape.New(), folded.Shape())
}

func TestBinaryBroadcastAdd(t *testing.T) {
	a := NewLeaf(shape.New(2, 1), []int{1, 2})
	b := NewLeaf(shape.New(1, 3), []int{10, 20, 30})
	sum := Binary[int](a, b, func(x, y int) int { return x + y })
	require.Equal(t, shape.New(2, 3), sum.Shape())

	want := [][]int{{11, 21, 31}, {12, 22, 32}}
	shp := sum.Shape()
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			require.Equal(t, want[r][c], sum.Eval(shp.LinearIndex([]int{r, c})))
		}
	}
}

func TestUnsqueezeIsPureReshape(t *testing.T) {
	l := NewLeaf(shape.New(3), []int{1, 2, 3})
	u := Unsqueeze[int](l, 0)
	require.Equal(t, shape.New(1, 3), u.Shape())
	require.Equal(t, 2, u.Eval(1))
}

func TestVectoriseRepeats(t *testing.T) {
	l := NewLeaf(shape.New(2), []int{5, 9})
	v := Vectorise[int](l, 3)
	require.Equal(t, shape.New(2, 3), v.Shape())
	for i := 0; i < 6; i++ {
		require.Equal(t, []int{5, 5, 5, 9, 9, 9}[i], v.Eval(i))
	}
}

func TestMapNodeChangesType(t *testing.T) {
	l := NewLeaf(shape.New(3), []int{1, 2, 3})
	doubled := MapNode[int, string](l, func(x int) string {
		if x == 2 {
			return "two"
		}
		return "?"
	})
	require.Equal(t, "two", doubled.Eval(1))
}

func mkPolyLeaf(vals ...int64) poly.Poly[p97] {
	m := make([]modular.Mod[p97], 4)
	for i := range m {
		if i < len(vals) {
			m[i] = modular.FromUint64[p97](uint64(vals[i]))
		} else {
			m[i] = modular.Zero[p97]()
		}
	}
	return poly.New[p97](4, poly.Coefficient, m)
}

func TestNTTMaterializeRoundTrip(t *testing.T) {
	leaf := NewLeaf(shape.New(2), []poly.Poly[p97]{mkPolyLeaf(1, 2, 3, 4), mkPolyLeaf(5, 6, 7, 8)})
	forward := NTT[p97](leaf)
	require.Equal(t, AccessMultiple, forward.Access())

	materialized := Materialize[poly.Poly[p97]](forward)
	require.Equal(t, AccessOnce, materialized.Access())
	require.Equal(t, poly.NumberTheoretic, materialized.Eval(0).Representation())

	back := INTT[p97](materialized)
	restored := Materialize[poly.Poly[p97]](back)
	require.Equal(t, leaf.Eval(0).Coeffs(), restored.Eval(0).Coeffs())
	require.Equal(t, leaf.Eval(1).Coeffs(), restored.Eval(1).Coeffs())
}

func TestBinaryMaterializesAccessMultipleOperand(t *testing.T) {
	leaf := NewLeaf(shape.New(2), []poly.Poly[p97]{mkPolyLeaf(1, 2, 3, 4), mkPolyLeaf(5, 6, 7, 8)})
	forward := NTT[p97](leaf)
	require.Equal(t, AccessMultiple, forward.Access())

	other := NewLeaf(shape.New(2), []poly.Poly[p97]{mkPolyLeaf(1), mkPolyLeaf(1)})
	combined := Binary[poly.Poly[p97]](forward, other, poly.Mul[p97])

	b, ok := combined.(binary[poly.Poly[p97]])
	require.True(t, ok)
	require.Equal(t, AccessOnce, b.left.Access(), "binary must materialize an AccessMultiple operand at construction time")
	require.Equal(t, poly.NumberTheoretic, b.left.Eval(0).Representation())
}

func TestUnsqueezeMaterializesAccessMultipleChild(t *testing.T) {
	leaf := NewLeaf(shape.New(2), []poly.Poly[p97]{mkPolyLeaf(1, 2, 3, 4), mkPolyLeaf(5, 6, 7, 8)})
	forward := NTT[p97](leaf)
	u := Unsqueeze[poly.Poly[p97]](forward, 0)

	un, ok := u.(unsqueeze[poly.Poly[p97]])
	require.True(t, ok)
	require.Equal(t, AccessOnce, un.child.Access())
}

func TestVectoriseMaterializesAccessMultipleChild(t *testing.T) {
	leaf := NewLeaf(shape.New(2), []poly.Poly[p97]{mkPolyLeaf(1, 2, 3, 4), mkPolyLeaf(5, 6, 7, 8)})
	forward := NTT[p97](leaf)
	v := Vectorise[poly.Poly[p97]](forward, 3)

	vn, ok := v.(vectorise[poly.Poly[p97]])
	require.True(t, ok)
	require.Equal(t, AccessOnce, vn.child.Access())
}

func TestNumberGeneratorDeterministic(t *testing.T) {
	key := prg.Key{1, 2, 3}
	nonce := prg.Nonce{4, 5, 6}
	g1 := NumberGenerator[p97](shape.New(8), key, nonce, 0)
	g2 := NumberGenerator[p97](shape.New(8), key, nonce, 0)
	for i := 0; i < 8; i++ {
		require.True(t, modular.Equal[p97](g1.Eval(i), g2.Eval(i)))
	}
}

func TestNumberGeneratorOffsetChangesStream(t *testing.T) {
	key := prg.Key{7}
	nonce := prg.Nonce{1, 1, 1}
	g0 := NumberGenerator[p97](shape.New(4), key, nonce, 0)
	g1 := NumberGenerator[p97](shape.New(4), key, nonce, 1)
	differs := false
	for i := 0; i < 4; i++ {
		if !modular.Equal[p97](g0.Eval(i), g1.Eval(i)) {
			differs = true
		}
	}
	require.True(t, differs)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	message := mkPolyLeaf(3, 0, 0, 0)
	a := mkPolyLeaf(11, 2, 9, 4)
	s := mkPolyLeaf(1, 1, 0, 0)
	u := mkPolyLeaf(1, 0, 0, 0)
	zero := poly.Zero[p97](4, poly.Coefficient)

	ct := EncryptPoly[p97](message, a, a, u, zero, zero, modular.Zero[p97]())
	decNTT := DecryptPoly[p97](ct, s)
	dec := poly.ToRepresentation[p97](decNTT, poly.Coefficient)

	want := computeExpectedDecrypt(a, u, s, message)
	require.Equal(t, want.Coeffs(), dec.Coeffs())
}

func computeExpectedDecrypt(a, u, s, message poly.Poly[p97]) poly.Poly[p97] {
	toNTT := func(p poly.Poly[p97]) poly.Poly[p97] { return poly.ToRepresentation[p97](p, poly.NumberTheoretic) }
	aN, uN, sN, mN := toNTT(a), toNTT(u), toNTT(s), toNTT(message)
	c0 := poly.Add[p97](poly.Mul[p97](aN, uN), mN)
	c1 := poly.Mul[p97](aN, uN)
	x := poly.Sub[p97](c0, poly.Mul[p97](sN, c1))
	return poly.ToRepresentation[p97](x, poly.Coefficient)
}
