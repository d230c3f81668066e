// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package bigint implements a fixed-width big integer: a
// {bit_size, signedness}-parameterised owner of limbs with value
// semantics, always kept in normal form after any exposed write.
package bigint

import (
	"fmt"
	"math/big"

	"github.com/luxfi/hecore/arith"
	"github.com/luxfi/hecore/bitspan"
	"github.com/luxfi/hecore/limb"
)

// Int is a fixed-width big integer. The zero value is not meaningful; use
// Zero, FromUint64, FromBig, or ParseLiteral to construct one.
type Int struct {
	bits   int
	signed bitspan.Signedness
	limbs  []limb.Limb
}

// Zero returns the zero value of the given width and signedness.
func Zero(bits int, signed bitspan.Signedness) Int {
	return Int{bits: bits, signed: signed, limbs: make([]limb.Limb, bitspan.LimbSize(bits))}
}

// Bits reports the declared bit width.
func (x Int) Bits() int { return x.bits }

// Signed reports whether x is a signed integer.
func (x Int) Signed() bool { return x.signed == bitspan.Signed }

// clone returns a deep copy so every exposed operation preserves value
// semantics: no two Int values ever alias the same backing limb slice.
func (x Int) clone() Int {
	limbs := make([]limb.Limb, len(x.limbs))
	copy(limbs, x.limbs)
	return Int{bits: x.bits, signed: x.signed, limbs: limbs}
}

// Span projects x over a read-write bitspan for use by arith routines.
// Callers must treat the projection as borrowing x for its own lifetime.
func (x Int) span() bitspan.Span {
	return bitspan.New(x.limbs, x.bits, x.signed, bitspan.ReadWrite, bitspan.Normal)
}

// ReadSpan projects x over a read-only bitspan.
func (x Int) ReadSpan() bitspan.Span {
	return bitspan.New(x.limbs, x.bits, x.signed, bitspan.ReadOnly, bitspan.Normal)
}

// FromBig constructs an Int of the given width/signedness from an
// arbitrary-precision value, masking to width and (for signed) applying
// two's complement for negative values.
func FromBig(bits int, signed bitspan.Signedness, v *big.Int) Int {
	z := Zero(bits, signed)
	t := new(big.Int).Set(v)
	if signed == bitspan.Signed && t.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
		t.Add(t, mod)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	t.Mod(t, mod)
	limbs := arith.BigToLimbs(t, len(z.limbs))
	copy(z.limbs, limbs)
	return z
}

// FromUint64 constructs an unsigned Int from a machine-width value.
func FromUint64(bits int, v uint64) Int {
	return FromBig(bits, bitspan.Unsigned, new(big.Int).SetUint64(v))
}

// FromInt64 constructs a signed Int from a machine-width value.
func FromInt64(bits int, v int64) Int {
	return FromBig(bits, bitspan.Signed, big.NewInt(v))
}

// FromLimbs constructs an Int directly from limbs, checked and
// renormalised against the declared signedness.
func FromLimbs(bits int, signed bitspan.Signedness, limbs []limb.Limb) (Int, error) {
	if len(limbs) < bitspan.LimbSize(bits) {
		return Int{}, fmt.Errorf("bigint: need %d limbs for %d bits, got %d", bitspan.LimbSize(bits), bits, len(limbs))
	}
	z := Zero(bits, signed)
	copy(z.limbs, limbs)
	z.span().Normalise()
	return z, nil
}

// BigInt returns x's value as an arbitrary-precision integer (negative for
// a signed x with its sign bit set).
func (x Int) BigInt() *big.Int {
	v := arith.LimbsToBig(x.limbs)
	if x.signed == bitspan.Signed {
		top := new(big.Int).Lsh(big.NewInt(1), uint(x.bits-1))
		if v.Cmp(top) >= 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), uint(x.bits))
			v.Sub(v, mod)
		}
	}
	return v
}

// Widen returns x re-hosted at a wider bit size of the same signedness;
// the new high limbs are sign/zero-extended. Widening is always exact.
func (x Int) Widen(bits int) Int {
	if bits < x.bits {
		panic("bigint: Widen to a narrower width, use Cast")
	}
	return FromBig(bits, x.signed, x.BigInt())
}

// Cast performs an explicit, possibly narrowing, possibly sign-changing
// conversion: the result is masked to its new width and, for a signed
// destination, sign-extended from its own top bit.
func (x Int) Cast(bits int, signed bitspan.Signedness) Int {
	return FromBig(bits, signed, x.BigInt())
}

// Add returns x+y, truncated to x's width (both operands must share width
// and signedness).
func (x Int) Add(y Int) Int {
	x.mustMatch(y)
	z := Zero(x.bits, x.signed)
	arith.Add(z.span(), x.ReadSpan(), y.ReadSpan(), limb.Zero)
	z.span().Normalise()
	return z
}

// Sub returns x-y, truncated to x's width.
func (x Int) Sub(y Int) Int {
	x.mustMatch(y)
	z := Zero(x.bits, x.signed)
	arith.Subtract(z.span(), x.ReadSpan(), y.ReadSpan(), limb.Zero)
	z.span().Normalise()
	return z
}

// Mul returns the low x.bits bits of x*y.
func (x Int) Mul(y Int) Int {
	x.mustMatch(y)
	wide := Zero(x.bits*2, x.signed)
	arith.Multiply(wide.span(), x.ReadSpan(), y.ReadSpan())
	return wide.Cast(x.bits, x.signed)
}

// Neg returns -x, truncated to x's width; the minimum signed value maps to
// itself, as in two's complement.
func (x Int) Neg() Int {
	return Zero(x.bits, x.signed).Sub(x)
}

// Abs returns the absolute value of x. On an unsigned Int it is x itself.
func (x Int) Abs() Int {
	if x.signed == bitspan.Signed && x.BigInt().Sign() < 0 {
		return x.Neg()
	}
	return x.clone()
}

// Cmp returns -1, 0, or 1 as x is less than, equal to, or greater than y.
func (x Int) Cmp(y Int) int {
	x.mustMatch(y)
	return arith.Compare(x.ReadSpan(), y.ReadSpan())
}

// Equal reports whether x and y have the same value (width/signedness
// must match).
func (x Int) Equal(y Int) bool { return x.Cmp(y) == 0 }

// Shl returns x << shift, shift < x.bits.
func (x Int) Shl(shift uint) Int {
	z := Zero(x.bits, x.signed)
	arith.ShiftLeft(z.span(), x.ReadSpan(), shift)
	z.span().Normalise()
	return z
}

// Shr returns x >> shift, shift < x.bits, sign-filling for signed x.
func (x Int) Shr(shift uint) Int {
	z := Zero(x.bits, x.signed)
	arith.ShiftRight(z.span(), x.ReadSpan(), shift)
	z.span().Normalise()
	return z
}

// BitWidth returns arith.BitWidth(x).
func (x Int) BitWidth() int { return arith.BitWidth(x.ReadSpan()) }

// CountTrailingZeros returns arith.CountTrailingZeros(x).
func (x Int) CountTrailingZeros() int { return arith.CountTrailingZeros(x.ReadSpan()) }

func (x Int) mustMatch(y Int) {
	if x.bits != y.bits || x.signed != y.signed {
		panic(fmt.Sprintf("bigint: mismatched operands (%d/%v vs %d/%v)", x.bits, x.signed, y.bits, y.signed))
	}
}

// String renders x in decimal.
func (x Int) String() string { return x.BigInt().String() }
