// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package bigint

import (
	"math/big"
	"testing"

	"github.com/luxfi/hecore/bitspan"
	"github.com/stretchr/testify/require"
)

func TestParseThenWidenPreservesValue(t *testing.T) {
	for _, lit := range []string{"0x95d13129b10a9d6e4bfc74319391cce9", "0b1010", "0o17", "12_345", "0x00_FF"} {
		v, err := ParseLiteral(lit)
		require.NoError(t, err, lit)
		wide := v.Widen(v.Bits() + 64)
		require.Equal(t, v.BigInt(), wide.BigInt(), lit)
	}
}

func TestFormatThenParseRoundTrips(t *testing.T) {
	for _, v := range []uint64{0, 1, 97, 0xFFFFFFFF, 1 << 40} {
		x := FromUint64(64, v)
		back, err := ParseLiteral(x.String())
		require.NoError(t, err)
		require.Equal(t, x.BigInt(), back.BigInt())
	}
}

func TestParseLeadingZerosAndUnderscores(t *testing.T) {
	a, err := ParseLiteral("0x0001")
	require.NoError(t, err)
	b, err := ParseLiteral("0x1")
	require.NoError(t, err)
	require.Equal(t, a.BigInt(), b.BigInt())

	c, err := ParseLiteral("1_000_000")
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000000), c.BigInt())
}

func TestAddSubRoundTrip(t *testing.T) {
	a := FromUint64(128, 123456789)
	b := FromUint64(128, 987654321)
	require.True(t, a.Equal(a.Add(b).Sub(b)))
}

func TestSignedNegative(t *testing.T) {
	x := FromInt64(32, -5)
	require.Equal(t, big.NewInt(-5), x.BigInt())
	y := FromInt64(32, 3)
	require.Equal(t, big.NewInt(-2), x.Add(y).BigInt())
}

func TestNegAbs(t *testing.T) {
	x := FromInt64(32, -5)
	require.Equal(t, big.NewInt(5), x.Neg().BigInt())
	require.Equal(t, big.NewInt(5), x.Abs().BigInt())
	require.Equal(t, big.NewInt(3), FromInt64(32, 3).Abs().BigInt())

	u := FromUint64(32, 7)
	require.Equal(t, big.NewInt(7), u.Abs().BigInt())
}

func TestCastNarrowAndWiden(t *testing.T) {
	x := FromUint64(32, 0xFF)
	narrow := x.Cast(8, bitspan.Unsigned)
	require.Equal(t, big.NewInt(0xFF), narrow.BigInt())

	wide := narrow.Widen(32)
	require.Equal(t, narrow.BigInt(), wide.BigInt())
}

func TestMulMatchesBig(t *testing.T) {
	a := FromUint64(64, 123456)
	b := FromUint64(64, 654321)
	got := a.Mul(b)
	want := new(big.Int).Mod(new(big.Int).Mul(big.NewInt(123456), big.NewInt(654321)), new(big.Int).Lsh(big.NewInt(1), 64))
	require.Equal(t, want, got.BigInt())
}

func TestCmp(t *testing.T) {
	a := FromUint64(32, 5)
	b := FromUint64(32, 9)
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.True(t, a.Equal(a))
}
