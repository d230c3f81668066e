// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package tensor

import (
	"math/big"
	"testing"

	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/shape"
	"github.com/stretchr/testify/require"
)

func TestAtSetRoundTrip(t *testing.T) {
	s := shape.New(2, 3)
	ten := Zero[int](s)
	ten.Set(42, 1, 2)
	require.Equal(t, 42, ten.At(1, 2))
	require.Equal(t, 0, ten.At(0, 0))
}

func TestNewRejectsWrongLength(t *testing.T) {
	require.Panics(t, func() {
		New[int](shape.New(2, 2), []int{1, 2, 3})
	})
}

type p97 struct{}

func (p97) P() *big.Int { return big.NewInt(97) }

func TestPolyTensorRoundTrip(t *testing.T) {
	s := shape.New(2)
	pt := ZeroPoly[p97](s, 4, poly.Coefficient)
	require.Equal(t, 4, pt.N())
	require.Equal(t, 8, len(pt.FlatCoeffs()))

	vals := make([]modular.Mod[p97], 4)
	for i := range vals {
		vals[i] = modular.FromUint64[p97](uint64(i + 1))
	}
	p := poly.New[p97](4, poly.Coefficient, vals)
	pt.Set(p, 1)
	got := pt.At(1)
	require.Equal(t, p.Coeffs(), got.Coeffs())
	require.Equal(t, modular.Zero[p97](), pt.At(0).Coeffs()[0])
}

func TestPolyTensorSetRejectsMismatch(t *testing.T) {
	s := shape.New(1)
	pt := ZeroPoly[p97](s, 4, poly.Coefficient)
	wrong := poly.Zero[p97](4, poly.NumberTheoretic)
	require.Panics(t, func() { pt.Set(wrong, 0) })
}
