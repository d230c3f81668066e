// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package arith implements the multi-limb numeric kernels.
// The functions in this file take bitspan.Span arguments with statically
// (construction-time) known limb counts — the "runtime/device" form that
// would be submitted to an accelerator kernel. Compare, BitWidth,
// CountTrailingZeros, Multiply (its carry-propagation loop) and
// MontgomeryReduce (its carry loop and final correction) contain branches
// and loop exits that depend on limb values. comptime.go holds the arbitrary-precision
// "compile-time" counterparts used only for constant folding.
package arith

import (
	"github.com/luxfi/hecore/bitspan"
	"github.com/luxfi/hecore/limb"
)

// Add computes result = left + right + carryIn over result.LimbSize()
// limbs, sign-extending the shorter of left/right as needed, and returns
// the final carry out.
func Add(result, left, right bitspan.Span, carryIn limb.Bit) limb.Bit {
	carry := carryIn
	for i := 0; i < result.LimbSize(); i++ {
		sum, c := limb.ExtendedAdd(left.ExtendedRead(i), right.ExtendedRead(i), carry)
		result.Write(i, sum)
		carry = c
	}
	return carry
}

// Subtract computes result = left - right - borrowIn and returns the final
// borrow out.
func Subtract(result, left, right bitspan.Span, borrowIn limb.Bit) limb.Bit {
	borrow := borrowIn
	for i := 0; i < result.LimbSize(); i++ {
		diff, b := limb.Subtract(left.ExtendedRead(i), right.ExtendedRead(i), borrow)
		result.Write(i, diff)
		borrow = b
	}
	return borrow
}

// Multiply computes the schoolbook product of left and right into result,
// which must have limb size >= left.LimbSize()+right.LimbSize().
func Multiply(result, left, right bitspan.Span) {
	n, m := left.LimbSize(), right.LimbSize()
	acc := make([]limb.Limb, result.LimbSize())
	for i := 0; i < n; i++ {
		var carry limb.Limb
		li := left.ExtendedRead(i)
		for j := 0; j < m; j++ {
			lo, hi := limb.Multiply(li, right.ExtendedRead(j))
			s1, c1 := limb.Add(acc[i+j], lo)
			s2, c2 := limb.Add(s1, carry)
			acc[i+j] = s2
			carry = hi + limb.Limb(c1) + limb.Limb(c2)
		}
		k := i + m
		for carry != 0 && k < len(acc) {
			s, c := limb.Add(acc[k], carry)
			acc[k] = s
			carry = limb.Limb(c)
			k++
		}
	}
	for i := range acc {
		result.Write(i, acc[i])
	}
}

// Compare returns -1, 0, or 1 as left is less than, equal to, or greater
// than right, treating both operands as having left's signedness (callers
// are responsible for comparing like-signed spans).
func Compare(left, right bitspan.Span) int {
	n := left.LimbSize()
	if right.LimbSize() > n {
		n = right.LimbSize()
	}
	if left.IsSigned() {
		ls, rs := left.ExtendedRead(n-1), right.ExtendedRead(n-1)
		lNeg, rNeg := limb.ExtractBit(ls, limb.BitSize-1), limb.ExtractBit(rs, limb.BitSize-1)
		if lNeg != rNeg {
			if lNeg == limb.One {
				return -1
			}
			return 1
		}
	}
	for i := n - 1; i >= 0; i-- {
		a, b := left.ExtendedRead(i), right.ExtendedRead(i)
		if a == b {
			continue
		}
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}

// ShiftLeft computes result = value << shift, shift < value.BitSize().
// Shifted-out high bits are discarded; the result is not renormalised.
func ShiftLeft(result, value bitspan.Span, shift uint) {
	limbShift := int(shift / limb.BitSize)
	bitShift := shift % limb.BitSize
	n := result.LimbSize()
	for i := n - 1; i >= 0; i-- {
		srcIdx := i - limbShift
		current := readOrZero(value, srcIdx)
		if bitShift == 0 {
			result.Write(i, current)
			continue
		}
		prev := readOrZero(value, srcIdx-1)
		result.Write(i, (current<<bitShift)|(prev>>(limb.BitSize-bitShift)))
	}
}

func readOrZero(s bitspan.Span, i int) limb.Limb {
	if i < 0 || i >= s.LimbSize() {
		return limb.Zeros
	}
	return s.Read(i)
}

// ShiftRight computes result = value >> shift for shift < value.BitSize(),
// filling with the sign (or zero, for unsigned spans). A shift of exactly
// value.BitSize() yields zero or the sign-extended mask; larger shifts are
// the caller's precondition to avoid.
func ShiftRight(result, value bitspan.Span, shift uint) {
	limbShift := int(shift / limb.BitSize)
	bitShift := shift % limb.BitSize
	for i := 0; i < result.LimbSize(); i++ {
		current := value.ExtendedRead(i + limbShift)
		if bitShift == 0 {
			result.Write(i, current)
			continue
		}
		next := value.ExtendedRead(i + limbShift + 1)
		result.Write(i, limb.CombinedShiftRight(current, next, uint(bitShift)))
	}
}

// BitWidth returns the position of the highest bit differing from the sign
// mask, plus one (plus one more for a negative signed value, to account
// for the sign bit).
func BitWidth(value bitspan.Span) int {
	mask := value.SignMask()
	n := value.LimbSize()
	highest := -1
	for i := n - 1; i >= 0; i-- {
		v := value.Read(i) ^ mask
		if v != 0 {
			highest = i*limb.BitSize + limb.BitWidth(v) - 1
			break
		}
	}
	width := highest + 1
	if value.IsSigned() && mask != 0 {
		width++
	}
	return width
}

// CountTrailingZeros returns value.BitSize() for an all-zero span.
func CountTrailingZeros(value bitspan.Span) int {
	n := value.LimbSize()
	for i := 0; i < n; i++ {
		v := value.Read(i)
		if v != 0 {
			return i*limb.BitSize + limb.CountTrailingZeros(v)
		}
	}
	return value.BitSize()
}

// MontgomeryReduce implements REDC: given a double-width product T spread
// across the low and high halves of t (t.LimbSize() == 2*n), a modulus p
// of n limbs, and pPrime = -p^-1 mod 2^limb.BitSize, it computes
// (T + (T mod R)*pPrime mod R * p) / R, then conditionally subtracts p
// once, leaving the result in [0, p) written into result (n limbs).
func MontgomeryReduce(result, t, modulus bitspan.Span, pPrime limb.Limb) {
	n := modulus.LimbSize()
	acc := make([]limb.Limb, t.LimbSize()+2)
	for i := 0; i < t.LimbSize(); i++ {
		acc[i] = t.ExtendedRead(i)
	}

	for i := 0; i < n; i++ {
		m := acc[i] * pPrime // low limb.BitSize bits of (acc[i] * p') mod 2^W
		var carry limb.Limb
		for j := 0; j < n; j++ {
			lo, hi := limb.Multiply(m, modulus.ExtendedRead(j))
			s1, c1 := limb.Add(acc[i+j], lo)
			s2, c2 := limb.Add(s1, carry)
			acc[i+j] = s2
			carry = hi + limb.Limb(c1) + limb.Limb(c2)
		}
		k := i + n
		for carry != 0 {
			s, c := limb.Add(acc[k], carry)
			acc[k] = s
			carry = limb.Limb(c)
			k++
		}
	}

	// Result sits in acc[n:2n+?]; acc[2n] is the final carry bit from the
	// reduction loop (at most 1, since T < p*R and the folded sum < 2*R*p).
	reduced := acc[n : n+n+1]
	// Conditionally subtract p once.
	borrow := limb.Bit(0)
	diff := make([]limb.Limb, n)
	for i := 0; i < n; i++ {
		d, b := limb.Subtract(reduced[i], modulus.ExtendedRead(i), borrow)
		diff[i] = d
		borrow = b
	}
	finalBorrow := borrow
	if reduced[n] != 0 {
		finalBorrow = 0 // overflow limb means reduced >= R > p, so the subtraction's borrow is spurious
	}
	useDiff := finalBorrow == 0
	for i := 0; i < n; i++ {
		result.Write(i, limb.Select(reduced[i], diff[i], boolBit(useDiff)))
	}
}

func boolBit(b bool) limb.Bit {
	if b {
		return limb.One
	}
	return limb.Zero
}
