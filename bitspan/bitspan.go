// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package bitspan implements typed views over contiguous limb slices. A
// span never owns its limbs; bigint.Int is the owning type that projects a
// span over its internal storage.
package bitspan

import (
	"fmt"

	"github.com/luxfi/hecore/limb"
)

// Signedness selects whether a span's extension bits are zero or
// sign-replicated.
type Signedness int

const (
	Unsigned Signedness = iota
	Signed
)

// AccessMode restricts what a span's caller may do with it, mirroring the
// device accessor access modes.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	WriteOnly
	ReadWrite
)

func (m AccessMode) CanRead() bool  { return m == ReadOnly || m == ReadWrite }
func (m AccessMode) CanWrite() bool { return m == WriteOnly || m == ReadWrite }

// Normalisation records whether a span's top limb is guaranteed to carry
// the sign mask in its unused high bits (Normal), or makes no such
// promise (Unnormal).
type Normalisation int

const (
	Normal Normalisation = iota
	Unnormal
)

// Span is a view over a run of limbs with static (for this repo: per-value,
// since Go has no const-generic integers) parameters: bit size, signedness,
// access mode, and normalisation, held as fields rather than type
// parameters.
type Span struct {
	limbs   []limb.Limb
	bitSize int
	signed  Signedness
	mode    AccessMode
	norm    Normalisation
}

// LimbSize returns ceil(bitSize/limb.BitSize).
func LimbSize(bitSize int) int {
	return (bitSize + limb.BitSize - 1) / limb.BitSize
}

// New constructs a span over limbs, which must have at least LimbSize(bitSize)
// elements.
func New(limbs []limb.Limb, bitSize int, signed Signedness, mode AccessMode, norm Normalisation) Span {
	if len(limbs) < LimbSize(bitSize) {
		panic(fmt.Sprintf("bitspan: need %d limbs for %d bits, got %d", LimbSize(bitSize), bitSize, len(limbs)))
	}
	return Span{limbs: limbs, bitSize: bitSize, signed: signed, mode: mode, norm: norm}
}

func (s Span) BitSize() int            { return s.bitSize }
func (s Span) LimbSize() int           { return LimbSize(s.bitSize) }
func (s Span) Signed() Signedness      { return s.signed }
func (s Span) Mode() AccessMode        { return s.mode }
func (s Span) Normalisation() Normalisation { return s.norm }
func (s Span) IsSigned() bool          { return s.signed == Signed }

// topBitPos is the bit index of the sign bit within the top limb.
func (s Span) topBitPos() uint {
	if s.bitSize%limb.BitSize == 0 {
		return limb.BitSize - 1
	}
	return uint(s.bitSize%limb.BitSize) - 1
}

// signMask returns Zeros for an unsigned span, and the sign bit of the top
// limb replicated across a whole limb for a signed one.
func (s Span) signMask() limb.Limb {
	if s.signed == Unsigned {
		return limb.Zeros
	}
	n := s.LimbSize()
	if n == 0 {
		return limb.Zeros
	}
	return limb.MaskFromBit(limb.ExtractBit(s.limbs[n-1], s.topBitPos()))
}

// SignMask exposes signMask for callers (arith) that sign-extend a shorter
// operand to match a wider one.
func (s Span) SignMask() limb.Limb { return s.signMask() }

// Read returns limb i, which must be < LimbSize().
func (s Span) Read(i int) limb.Limb {
	if !s.mode.CanRead() {
		panic("bitspan: span is not readable")
	}
	return s.limbs[i]
}

// ExtendedRead returns limb i when i < LimbSize(), and the sign mask
// otherwise, giving bounded arithmetic over mixed widths.
func (s Span) ExtendedRead(i int) limb.Limb {
	if i < 0 {
		panic("bitspan: negative limb index")
	}
	if i < s.LimbSize() {
		return s.Read(i)
	}
	return s.signMask()
}

// Write stores v at limb i, which must be < LimbSize().
func (s Span) Write(i int, v limb.Limb) {
	if !s.mode.CanWrite() {
		panic("bitspan: span is not writable")
	}
	s.limbs[i] = v
}

// usedHighBits returns the bit range [lo, hi) (within the top limb) of bits that are
// actually part of bitSize, i.e. the complement of the "unused" region a
// normal span must keep equal to the sign mask.
func (s Span) usedHighBits() (lo, hi uint) {
	rem := uint(s.bitSize % limb.BitSize)
	if rem == 0 {
		return 0, limb.BitSize
	}
	return 0, rem
}

// IsNormal reports whether the unused high bits of the top limb equal the
// sign mask, i.e. whether this span currently satisfies the "normal"
// contract regardless of what Normalisation it is tagged with.
func (s Span) IsNormal() bool {
	n := s.LimbSize()
	if n == 0 {
		return true
	}
	lo, hi := s.usedHighBits()
	if hi >= limb.BitSize {
		return true
	}
	return limb.IsNormal(s.limbs[n-1], hi, s.signMask()) && lo == 0
}

// Normalise rewrites the top limb's unused high bits to the sign mask,
// turning an Unnormal span's contents into normal form in place.
func (s Span) Normalise() {
	n := s.LimbSize()
	if n == 0 {
		return
	}
	_, hi := s.usedHighBits()
	if hi >= limb.BitSize {
		return
	}
	keep := limb.MaskInside(0, hi)
	extend := limb.MaskOutside(0, hi) & s.signMask()
	s.Write(n-1, (s.Read(n-1)&keep)|extend)
}

// Slice returns the sub-span of limbs [lo, hi), re-tagged with the given
// bit size; it is used to build arith routines that operate over a window
// of a larger owner without copying.
func (s Span) Slice(loLimb, hiLimb int, bitSize int, signed Signedness, norm Normalisation) Span {
	return New(s.limbs[loLimb:hiLimb], bitSize, signed, s.mode, norm)
}

// Limbs exposes the raw backing slice for arith routines that need direct
// indexing across a double-width result.
func (s Span) Limbs() []limb.Limb { return s.limbs }
