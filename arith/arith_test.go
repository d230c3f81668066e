// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package arith

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/luxfi/hecore/bitspan"
	"github.com/luxfi/hecore/limb"
	"github.com/stretchr/testify/require"
)

func mkSpan(bits int, signed bitspan.Signedness, vals ...limb.Limb) bitspan.Span {
	limbs := make([]limb.Limb, bitspan.LimbSize(bits))
	copy(limbs, vals)
	return bitspan.New(limbs, bits, signed, bitspan.ReadWrite, bitspan.Normal)
}

func TestAddSubtractRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := mkSpan(128, bitspan.Unsigned, r.Uint32(), r.Uint32(), r.Uint32(), r.Uint32())
		c := mkSpan(128, bitspan.Unsigned, r.Uint32(), r.Uint32(), r.Uint32(), r.Uint32())
		sum := mkSpan(128, bitspan.Unsigned)
		Add(sum, a, c, limb.Zero)
		back := mkSpan(128, bitspan.Unsigned)
		Subtract(back, sum, c, limb.Zero)
		require.Equal(t, a.Limbs(), back.Limbs())
	}
}

func TestMultiplyAgainstBig(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		av := []limb.Limb{r.Uint32(), r.Uint32()}
		bv := []limb.Limb{r.Uint32(), r.Uint32()}
		a := mkSpan(64, bitspan.Unsigned, av...)
		b := mkSpan(64, bitspan.Unsigned, bv...)
		result := mkSpan(128, bitspan.Unsigned)
		Multiply(result, a, b)

		want := new(big.Int).Mul(LimbsToBig(av), LimbsToBig(bv))
		require.Equal(t, want, LimbsToBig(result.Limbs()))
	}
}

func TestCompare(t *testing.T) {
	a := mkSpan(32, bitspan.Unsigned, 5)
	b := mkSpan(32, bitspan.Unsigned, 10)
	require.Equal(t, -1, Compare(a, b))
	require.Equal(t, 1, Compare(b, a))
	require.Equal(t, 0, Compare(a, a))
}

func TestShiftLeftRight(t *testing.T) {
	a := mkSpan(64, bitspan.Unsigned, 0x1, 0)
	shifted := mkSpan(64, bitspan.Unsigned)
	ShiftLeft(shifted, a, 40)
	want := new(big.Int).Lsh(big.NewInt(1), 40)
	require.Equal(t, want, LimbsToBig(shifted.Limbs()))

	back := mkSpan(64, bitspan.Unsigned)
	ShiftRight(back, shifted, 40)
	require.Equal(t, a.Limbs(), back.Limbs())
}

func TestBitWidthAndCountTrailingZeros(t *testing.T) {
	zero := mkSpan(32, bitspan.Unsigned, 0)
	require.Equal(t, 0, BitWidth(zero))
	require.Equal(t, 32, CountTrailingZeros(zero))

	four := mkSpan(32, bitspan.Unsigned, 4)
	require.Equal(t, 3, BitWidth(four))
	require.Equal(t, 2, CountTrailingZeros(four))
}

func TestMontgomeryReduceMatchesBigMod(t *testing.T) {
	// p = 97 (prime), R = 2^32, p' = -p^-1 mod 2^32
	p := big.NewInt(97)
	modulus := mkSpan(32, bitspan.Unsigned, 97)
	pPrime := montgomeryPPrime(p)

	r := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		x := new(big.Int).Rand(r, new(big.Int).Mul(p, p))
		t64 := mkSpan(64, bitspan.Unsigned, BigToLimbs(x, 2)...)
		result := mkSpan(32, bitspan.Unsigned)
		MontgomeryReduce(result, t64, modulus, pPrime)

		R := new(big.Int).Lsh(big.NewInt(1), 32)
		want := new(big.Int).Mod(new(big.Int).Mul(x, new(big.Int).ModInverse(R, p)), p)
		require.Equal(t, want.String(), LimbsToBig(result.Limbs()).String())
	}
}

func montgomeryPPrime(p *big.Int) limb.Limb {
	R := new(big.Int).Lsh(big.NewInt(1), 32)
	inv := new(big.Int).ModInverse(p, R)
	neg := new(big.Int).Neg(inv)
	neg.Mod(neg, R)
	return limb.Limb(neg.Uint64())
}

func TestDivide(t *testing.T) {
	dividend := []limb.Limb{0, 1} // 2^32
	divisor := []limb.Limb{3}
	q, r := Divide(dividend, divisor)
	require.Equal(t, big.NewInt((1<<32)/3), LimbsToBig(q))
	require.Equal(t, big.NewInt((1<<32)%3), LimbsToBig(r))
}

func TestExtendedEuclidean(t *testing.T) {
	a, b := big.NewInt(240), big.NewInt(46)
	g, x, y := ExtendedEuclidean(a, b)
	require.Equal(t, big.NewInt(2), g)
	check := new(big.Int).Add(new(big.Int).Mul(x, a), new(big.Int).Mul(y, b))
	require.Equal(t, g, check)
}
