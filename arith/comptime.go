// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package arith

import (
	"encoding/binary"
	"math/big"

	"github.com/luxfi/hecore/limb"
)

// The "compile-time" form of the multi-limb kernel layer: arbitrary-
// precision operations used only for constant folding (literal parsing,
// Montgomery-constant derivation, NTT twiddle-table generation) and never
// submitted to a device. math/big covers this rather than a third-party
// bignum library since nothing here is floating point and no integer
// arbitrary-precision package is in play elsewhere in this module. See
// DESIGN.md.
//
// LimbsToBig/BigToLimbs go through big-endian bytes rather than
// big.Int.SetBits/Bits: a big.Word is platform-width (64 bits on amd64/
// arm64), not limb.BitSize, so packing one limb.Limb per big.Word would
// silently reinterpret every pair of limbs as a single word on a 64-bit
// host.

// LimbsToBig interprets limbs as a little-endian unsigned magnitude.
func LimbsToBig(limbs []limb.Limb) *big.Int {
	buf := make([]byte, len(limbs)*4)
	for i, l := range limbs {
		off := (len(limbs) - 1 - i) * 4
		binary.BigEndian.PutUint32(buf[off:off+4], l)
	}
	return new(big.Int).SetBytes(buf)
}

// BigToLimbs writes the unsigned magnitude of v into exactly n little-
// endian limbs, truncating high bits that don't fit.
func BigToLimbs(v *big.Int, n int) []limb.Limb {
	buf := make([]byte, n*4)
	b := v.Bytes()
	if len(b) > len(buf) {
		b = b[len(b)-len(buf):]
	}
	copy(buf[len(buf)-len(b):], b)

	out := make([]limb.Limb, n)
	for i := 0; i < n; i++ {
		off := (n - 1 - i) * 4
		out[i] = limb.Limb(binary.BigEndian.Uint32(buf[off : off+4]))
	}
	return out
}

// Divide performs long division, returning quotient and remainder with
// len(dividend) limbs each.
func Divide(dividend, divisor []limb.Limb) (quotient, remainder []limb.Limb) {
	d := LimbsToBig(dividend)
	v := LimbsToBig(divisor)
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(d, v, r)
	return BigToLimbs(q, len(dividend)), BigToLimbs(r, len(dividend))
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b []limb.Limb) []limb.Limb {
	g := new(big.Int).GCD(nil, nil, LimbsToBig(a), LimbsToBig(b))
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	return BigToLimbs(g, n)
}

// ExtendedEuclidean returns (g, x, y) such that x*a + y*b = g = gcd(a, b).
func ExtendedEuclidean(a, b *big.Int) (g, x, y *big.Int) {
	g, x, y = new(big.Int), new(big.Int), new(big.Int)
	g.GCD(x, y, a, b)
	return
}
