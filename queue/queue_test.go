// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"math/big"
	"testing"
	"unsafe"

	"github.com/luxfi/hecore/device"
	"github.com/luxfi/hecore/expr"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/shape"
	"github.com/stretchr/testify/require"
)

func TestSubmitElementwise(t *testing.T) {
	q := New(device.NewCPUQueue())
	a := expr.NewLeaf(shape.New(4), []int{1, 2, 3, 4})
	b := expr.NewLeaf(shape.New(4), []int{10, 20, 30, 40})
	sum := expr.Binary[int](a, b, func(x, y int) int { return x + y })

	out := Submit[int](q, sum)
	require.Equal(t, []int{11, 22, 33, 44}, out.Data())

	stats := q.Stats()
	require.Equal(t, uint64(1), stats.KernelsSubmitted)
	require.Equal(t, uint64(0), stats.IntermediatesMaterialized)
	require.Equal(t, uint64(4)*uint64(unsafe.Sizeof(int(0))), stats.BytesResident)
}

type p97 struct{}

func (p97) P() *big.Int { return big.NewInt(97) }

func mkPoly(vals ...int64) poly.Poly[p97] {
	m := make([]modular.Mod[p97], 4)
	for i := range m {
		m[i] = modular.FromUint64[p97](uint64(vals[i]))
	}
	return poly.New[p97](4, poly.Coefficient, m)
}

func TestSubmitMaterializesAccessMultiple(t *testing.T) {
	q := New(device.NewCPUQueue())
	leaf := expr.NewLeaf(shape.New(2), []poly.Poly[p97]{mkPoly(1, 2, 3, 4), mkPoly(5, 6, 7, 8)})
	forward := expr.NTT[p97](leaf)

	out := Submit[poly.Poly[p97]](q, forward)
	require.Equal(t, poly.NumberTheoretic, out.At(0).Representation())

	stats := q.Stats()
	require.Equal(t, uint64(1), stats.IntermediatesMaterialized)
}
