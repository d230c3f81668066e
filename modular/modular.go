// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package modular implements a modular integer mod p: an unsigned big
// integer of width ceil(log2 p), tagged with a compile-time modulus and
// always stored in Montgomery form. Go has no value-level
// generics, so the modulus witness is a type parameter constrained to the
// Modulus interface (a zero-sized marker type with a P() method) rather
// than a literal const-generic parameter — see DESIGN.md.
package modular

import (
	"fmt"
	"math/big"
	"reflect"
	"sync"

	"github.com/luxfi/hecore/arith"
	"github.com/luxfi/hecore/bigint"
	"github.com/luxfi/hecore/bitspan"
	"github.com/luxfi/hecore/limb"
)

// Modulus is implemented by zero-sized marker types naming a compile-time
// prime, e.g.:
//
//	type P97 struct{}
//	func (P97) P() *big.Int { return big.NewInt(97) }
type Modulus interface {
	P() *big.Int
}

// MustParse parses a modulus literal (hex, binary, octal, or decimal, with
// underscores allowed) into an arbitrary-precision integer, panicking on a
// malformed literal. Moduli are fixed when a marker type is defined, so a
// parse failure here is a definition error, not a runtime condition:
//
//	type P95D1 struct{}
//	func (P95D1) P() *big.Int { return modular.MustParse("0x95d13129b10a9d6e4bfc74319391cce9") }
func MustParse(s string) *big.Int {
	v, err := bigint.ParseLiteral(s)
	if err != nil {
		panic(fmt.Sprintf("modular: %v", err))
	}
	return v.BigInt()
}

// params holds the Montgomery constants derived once per Modulus type:
// p', R mod p, R^2 mod p, and 1 in Montgomery form.
type params struct {
	p       *big.Int
	bits    int
	limbs   int
	pPrime  limb.Limb
	rModP   []limb.Limb
	r2ModP  []limb.Limb
	oneMont []limb.Limb
}

var paramsCache sync.Map // map[reflect.Type]*params

func paramsFor[M Modulus]() *params {
	var m M
	t := reflect.TypeOf(m)
	if v, ok := paramsCache.Load(t); ok {
		return v.(*params)
	}
	p := m.P()
	if p.Sign() <= 0 {
		panic(fmt.Sprintf("modular: modulus %v must be positive", p))
	}
	bits := p.BitLen()
	n := bitspan.LimbSize(bits)
	R := new(big.Int).Lsh(big.NewInt(1), uint(n*limb.BitSize))

	// p' = -p^-1 mod 2^W
	mod2W := new(big.Int).Lsh(big.NewInt(1), limb.BitSize)
	pPrimeInv := new(big.Int).ModInverse(new(big.Int).Mod(p, mod2W), mod2W)
	negInv := new(big.Int).Neg(pPrimeInv)
	negInv.Mod(negInv, mod2W)

	rModP := new(big.Int).Mod(R, p)
	r2ModP := new(big.Int).Mod(new(big.Int).Mul(rModP, rModP), p)
	oneMont := new(big.Int).Mod(R, p)

	pr := &params{
		p:       p,
		bits:    bits,
		limbs:   n,
		pPrime:  limb.Limb(negInv.Uint64()),
		rModP:   arith.BigToLimbs(rModP, n),
		r2ModP:  arith.BigToLimbs(r2ModP, n),
		oneMont: arith.BigToLimbs(oneMont, n),
	}
	actual, _ := paramsCache.LoadOrStore(t, pr)
	return actual.(*params)
}

// Mod is an element of Z/pZ stored in Montgomery form: limbs represent
// x*R mod p for the true value x.
type Mod[M Modulus] struct {
	limbs []limb.Limb
}

func (x Mod[M]) span() bitspan.Span {
	return bitspan.New(x.limbs, paramsFor[M]().bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
}

func (x Mod[M]) readSpan() bitspan.Span {
	return bitspan.New(x.limbs, paramsFor[M]().bits, bitspan.Unsigned, bitspan.ReadOnly, bitspan.Normal)
}

func modulusSpan[M Modulus]() bitspan.Span {
	p := paramsFor[M]()
	limbs := make([]limb.Limb, p.limbs)
	copy(limbs, arith.BigToLimbs(p.p, p.limbs))
	return bitspan.New(limbs, p.bits, bitspan.Unsigned, bitspan.ReadOnly, bitspan.Normal)
}

// P returns the modulus as an arbitrary-precision integer.
func P[M Modulus]() *big.Int { return new(big.Int).Set(paramsFor[M]().p) }

// Zero returns the additive identity.
func Zero[M Modulus]() Mod[M] {
	p := paramsFor[M]()
	return Mod[M]{limbs: make([]limb.Limb, p.limbs)}
}

// One returns the multiplicative identity, i.e. R mod p in Montgomery form.
func One[M Modulus]() Mod[M] {
	p := paramsFor[M]()
	limbs := make([]limb.Limb, p.limbs)
	copy(limbs, p.oneMont)
	return Mod[M]{limbs: limbs}
}

// FromPlain raises a plain integer x into Montgomery form: x*R mod p.
func FromPlain[M Modulus](x *big.Int) Mod[M] {
	p := paramsFor[M]()
	v := new(big.Int).Mod(x, p.p)
	v.Mul(v, new(big.Int).Lsh(big.NewInt(1), uint(p.limbs*limb.BitSize)))
	v.Mod(v, p.p)
	limbs := make([]limb.Limb, p.limbs)
	copy(limbs, arith.BigToLimbs(v, p.limbs))
	return Mod[M]{limbs: limbs}
}

// FromUint64 is a convenience wrapper over FromPlain.
func FromUint64[M Modulus](x uint64) Mod[M] {
	return FromPlain[M](new(big.Int).SetUint64(x))
}

// ToPlain lowers x out of Montgomery form back to a plain integer in
// [0, p).
func (x Mod[M]) ToPlain() *big.Int {
	p := paramsFor[M]()
	v := arith.LimbsToBig(x.limbs)
	R := new(big.Int).Lsh(big.NewInt(1), uint(p.limbs*limb.BitSize))
	inv := new(big.Int).ModInverse(R, p.p)
	v.Mul(v, inv)
	v.Mod(v, p.p)
	return v
}

// conditionalSubP subtracts p from x once if x >= p or if carry (a bit above
// x's top limb) is set, selecting branchlessly on the borrow and carry bits.
func conditionalSubP[M Modulus](x Mod[M], carry limb.Bit) Mod[M] {
	p := paramsFor[M]()
	mp := modulusSpan[M]()
	diff := make([]limb.Limb, p.limbs)
	diffSpan := bitspan.New(diff, p.bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	borrow := arith.Subtract(diffSpan, x.readSpan(), mp, limb.Zero)

	out := make([]limb.Limb, p.limbs)
	useDiff := limb.Bit(1-borrow) | carry
	for i := range out {
		out[i] = limb.Select(x.limbs[i], diff[i], useDiff)
	}
	return Mod[M]{limbs: out}
}

// Add returns x+y mod p.
func Add[M Modulus](x, y Mod[M]) Mod[M] {
	p := paramsFor[M]()
	sumLimbs := make([]limb.Limb, p.limbs)
	sumSpan := bitspan.New(sumLimbs, p.bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	carry := arith.Add(sumSpan, x.readSpan(), y.readSpan(), limb.Zero)
	return conditionalSubP[M](Mod[M]{limbs: sumLimbs}, carry)
}

// Sub returns x-y mod p.
func Sub[M Modulus](x, y Mod[M]) Mod[M] {
	p := paramsFor[M]()
	diffLimbs := make([]limb.Limb, p.limbs)
	diffSpan := bitspan.New(diffLimbs, p.bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	borrow := arith.Subtract(diffSpan, x.readSpan(), y.readSpan(), limb.Zero)
	mp := modulusSpan[M]()
	corrected := make([]limb.Limb, p.limbs)
	correctedSpan := bitspan.New(corrected, p.bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	arith.Add(correctedSpan, diffSpan, mp, limb.Zero)
	out := make([]limb.Limb, p.limbs)
	for i := range out {
		out[i] = limb.Select(diffLimbs[i], corrected[i], borrow)
	}
	return Mod[M]{limbs: out}
}

// Neg returns -x mod p.
func Neg[M Modulus](x Mod[M]) Mod[M] { return Sub[M](Zero[M](), x) }

// Mul returns x*y mod p via schoolbook multiplication followed by
// Montgomery reduction.
func Mul[M Modulus](x, y Mod[M]) Mod[M] {
	p := paramsFor[M]()
	wide := make([]limb.Limb, p.limbs*2)
	wideSpan := bitspan.New(wide, p.limbs*2*limb.BitSize, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	arith.Multiply(wideSpan, x.readSpan(), y.readSpan())

	out := make([]limb.Limb, p.limbs)
	outSpan := bitspan.New(out, p.bits, bitspan.Unsigned, bitspan.ReadWrite, bitspan.Normal)
	arith.MontgomeryReduce(outSpan, wideSpan, modulusSpan[M](), p.pPrime)
	return Mod[M]{limbs: out}
}

// Equal compares stored (Montgomery) representations, which is equivalent
// to comparing plain values since the Montgomery map is injective on
// [0, p).
func Equal[M Modulus](x, y Mod[M]) bool {
	return arith.Compare(x.readSpan(), y.readSpan()) == 0
}

// Pow computes x^e by square-and-multiply, scanning e's bits high to low.
func Pow[M Modulus](x Mod[M], e *big.Int) Mod[M] {
	result := One[M]()
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = Mul[M](result, result)
		if e.Bit(i) == 1 {
			result = Mul[M](result, x)
		}
	}
	return result
}

// PowUint64 is a convenience wrapper over Pow for machine-width exponents.
func PowUint64[M Modulus](x Mod[M], e uint64) Mod[M] {
	return Pow[M](x, new(big.Int).SetUint64(e))
}

// Inv returns x^-1 mod p via Fermat's little theorem (p must be prime).
func Inv[M Modulus](x Mod[M]) Mod[M] {
	p := paramsFor[M]()
	exp := new(big.Int).Sub(p.p, big.NewInt(2))
	return Pow[M](x, exp)
}

// String renders x's plain value in decimal.
func (x Mod[M]) String() string { return x.ToPlain().String() }
