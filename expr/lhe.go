// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// lhe.go implements leveled/linear-homomorphic-encryption composite
// expression nodes: encrypt combines a public key and fresh
// randomness with a plaintext polynomial, decrypt inverts it with the
// matching secret key. The exact algebra (c0 = a*u + v*scale + NTT(m),
// c1 = b*u + w*scale; dec: x = c0 - s*c1, then cast down to the plaintext
// ring) follows the usual RLWE construction.
package expr

import (
	"github.com/luxfi/hecore/assert"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/poly"
	"github.com/luxfi/hecore/shape"
)

// Ciphertext is an LHE ciphertext: a pair of ring elements over the
// ciphertext modulus M.
type Ciphertext[M modular.Modulus] struct {
	C0, C1 poly.Poly[M]
}

// CastPoly re-hosts every coefficient of p from ring From into ring To,
// coercing p to coefficient representation first if it wasn't already
// there — the cast is only meaningful coefficient-by-coefficient, not
// point-by-point in a representation keyed to From's own root of unity.
func CastPoly[From, To modular.Modulus](p poly.Poly[From]) poly.Poly[To] {
	coeff := poly.ToRepresentation[From](p, poly.Coefficient)
	vals := coeff.Coeffs()
	out := make([]modular.Mod[To], len(vals))
	for i, v := range vals {
		out[i] = modular.FromPlain[To](v.ToPlain())
	}
	return poly.New[To](p.N(), poly.Coefficient, out)
}

func scalePoly[M modular.Modulus](p poly.Poly[M], scale modular.Mod[M]) poly.Poly[M] {
	vals := p.Coeffs()
	out := make([]modular.Mod[M], len(vals))
	for i, v := range vals {
		out[i] = modular.Mul[M](v, scale)
	}
	return poly.New[M](p.N(), p.Representation(), out)
}

// EncryptPoly computes one ciphertext from a plaintext polynomial, public
// key (a, b), fresh randomness (u, v, w), and a plaintext scale baked into
// the ciphertext modulus: c0 = a*u + v*scale + NTT(message),
// c1 = b*u + w*scale.
func EncryptPoly[M modular.Modulus](message, a, b, u, v, w poly.Poly[M], scale modular.Mod[M]) Ciphertext[M] {
	toNTT := func(p poly.Poly[M]) poly.Poly[M] { return poly.ToRepresentation[M](p, poly.NumberTheoretic) }
	aN, bN, uN, vN, wN, mN := toNTT(a), toNTT(b), toNTT(u), toNTT(v), toNTT(w), toNTT(message)

	c0 := poly.Add[M](poly.Add[M](poly.Mul[M](aN, uN), scalePoly[M](vN, scale)), mN)
	c1 := poly.Add[M](poly.Mul[M](bN, uN), scalePoly[M](wN, scale))
	return Ciphertext[M]{C0: c0, C1: c1}
}

// DecryptPoly recovers the plaintext polynomial under secret key s:
// x = c0 - s*c1, computed pointwise in NTT representation and returned in
// coefficient form. The caller casts the result down into the plaintext
// ring with CastPoly.
func DecryptPoly[M modular.Modulus](ct Ciphertext[M], s poly.Poly[M]) poly.Poly[M] {
	toNTT := func(p poly.Poly[M]) poly.Poly[M] { return poly.ToRepresentation[M](p, poly.NumberTheoretic) }
	sN, c0N, c1N := toNTT(s), toNTT(ct.C0), toNTT(ct.C1)
	x := poly.Sub[M](c0N, poly.Mul[M](sN, c1N))
	return poly.ToRepresentation[M](x, poly.Coefficient)
}

// EncryptCrossRing casts message from plaintext ring P into ciphertext ring
// M before delegating to EncryptPoly, covering the case where the plaintext
// modulus differs from the ciphertext modulus. That is the common case: a
// plaintext ring is normally much smaller than the ciphertext ring it is
// embedded in.
func EncryptCrossRing[P, M modular.Modulus](message poly.Poly[P], a, b, u, v, w poly.Poly[M], scale modular.Mod[M]) Ciphertext[M] {
	return EncryptPoly[M](CastPoly[P, M](message), a, b, u, v, w, scale)
}

// DecryptCrossRing inverts EncryptCrossRing: it recovers the ciphertext-ring
// plaintext polynomial via DecryptPoly, then casts it back down into
// plaintext ring P.
func DecryptCrossRing[M, P modular.Modulus](ct Ciphertext[M], s poly.Poly[M]) poly.Poly[P] {
	return CastPoly[M, P](DecryptPoly[M](ct, s))
}

// encryptCrossRing is the lazy Node wrapper around EncryptCrossRing.
type encryptCrossRing[P, M modular.Modulus] struct {
	message       Node[poly.Poly[P]]
	a, b, u, v, w Node[poly.Poly[M]]
	scale         modular.Mod[M]
	shp           shape.Shape
}

// EncryptCast builds a tensor-of-ciphertexts Node whose plaintext input
// lives in a different ring (P) than the key/randomness/ciphertext inputs
// (M). message, a, b, u, v, w must all share one shape.
func EncryptCast[P, M modular.Modulus](message Node[poly.Poly[P]], a, b, u, v, w Node[poly.Poly[M]], scale modular.Mod[M]) Node[Ciphertext[M]] {
	message = Materialize[poly.Poly[P]](message)
	a, b, u, v, w = Materialize[poly.Poly[M]](a), Materialize[poly.Poly[M]](b), Materialize[poly.Poly[M]](u), Materialize[poly.Poly[M]](v), Materialize[poly.Poly[M]](w)
	shp := message.Shape()
	for _, n := range []Node[poly.Poly[M]]{a, b, u, v, w} {
		assert.That(n.Shape().Equal(shp), "expr: encrypt operands must share a shape, got %v and %v", shp, n.Shape())
	}
	return encryptCrossRing[P, M]{message: message, a: a, b: b, u: u, v: v, w: w, scale: scale, shp: shp}
}

func (e encryptCrossRing[P, M]) Shape() shape.Shape { return e.shp }
func (e encryptCrossRing[P, M]) Access() Access     { return AccessOnce }
func (e encryptCrossRing[P, M]) Eval(i int) Ciphertext[M] {
	return EncryptCrossRing[P, M](e.message.Eval(i), e.a.Eval(i), e.b.Eval(i), e.u.Eval(i), e.v.Eval(i), e.w.Eval(i), e.scale)
}

// decryptCrossRing is the lazy Node wrapper around DecryptCrossRing.
type decryptCrossRing[M, P modular.Modulus] struct {
	ct Node[Ciphertext[M]]
	s  Node[poly.Poly[M]]
}

// DecryptCast builds a tensor-of-plaintext-polynomials Node in ring P from
// a tensor-of-ciphertexts and matching secret key, both in ring M. ct and s
// must share a shape.
func DecryptCast[M, P modular.Modulus](ct Node[Ciphertext[M]], s Node[poly.Poly[M]]) Node[poly.Poly[P]] {
	ct = Materialize[Ciphertext[M]](ct)
	s = Materialize[poly.Poly[M]](s)
	assert.That(ct.Shape().Equal(s.Shape()), "expr: decrypt operands must share a shape, got %v and %v", ct.Shape(), s.Shape())
	return decryptCrossRing[M, P]{ct: ct, s: s}
}

func (d decryptCrossRing[M, P]) Shape() shape.Shape { return d.ct.Shape() }
func (d decryptCrossRing[M, P]) Access() Access     { return AccessOnce }
func (d decryptCrossRing[M, P]) Eval(i int) poly.Poly[P] {
	return DecryptCrossRing[M, P](d.ct.Eval(i), d.s.Eval(i))
}

// encrypt is the lazy Node wrapper around EncryptPoly, zipping six
// same-shaped input tensors of polynomials together element-by-element.
type encrypt[M modular.Modulus] struct {
	message, a, b, u, v, w Node[poly.Poly[M]]
	scale                  modular.Mod[M]
	shp                    shape.Shape
}

// Encrypt builds a tensor-of-ciphertexts Node. All six inputs must share
// the same shape.
func Encrypt[M modular.Modulus](message, a, b, u, v, w Node[poly.Poly[M]], scale modular.Mod[M]) Node[Ciphertext[M]] {
	message = Materialize[poly.Poly[M]](message)
	a, b, u, v, w = Materialize[poly.Poly[M]](a), Materialize[poly.Poly[M]](b), Materialize[poly.Poly[M]](u), Materialize[poly.Poly[M]](v), Materialize[poly.Poly[M]](w)
	shp := message.Shape()
	for _, n := range []Node[poly.Poly[M]]{a, b, u, v, w} {
		assert.That(n.Shape().Equal(shp), "expr: encrypt operands must share a shape, got %v and %v", shp, n.Shape())
	}
	return encrypt[M]{message: message, a: a, b: b, u: u, v: v, w: w, scale: scale, shp: shp}
}

func (e encrypt[M]) Shape() shape.Shape { return e.shp }
func (e encrypt[M]) Access() Access     { return AccessOnce }
func (e encrypt[M]) Eval(i int) Ciphertext[M] {
	return EncryptPoly[M](e.message.Eval(i), e.a.Eval(i), e.b.Eval(i), e.u.Eval(i), e.v.Eval(i), e.w.Eval(i), e.scale)
}

// decrypt is the lazy Node wrapper around DecryptPoly.
type decrypt[M modular.Modulus] struct {
	ct Node[Ciphertext[M]]
	s  Node[poly.Poly[M]]
}

// Decrypt builds a tensor-of-plaintext-polynomials Node from a
// tensor-of-ciphertexts and matching secret-key Node. ct and s must share
// a shape.
func Decrypt[M modular.Modulus](ct Node[Ciphertext[M]], s Node[poly.Poly[M]]) Node[poly.Poly[M]] {
	ct = Materialize[Ciphertext[M]](ct)
	s = Materialize[poly.Poly[M]](s)
	assert.That(ct.Shape().Equal(s.Shape()), "expr: decrypt operands must share a shape, got %v and %v", ct.Shape(), s.Shape())
	return decrypt[M]{ct: ct, s: s}
}

func (d decrypt[M]) Shape() shape.Shape { return d.ct.Shape() }
func (d decrypt[M]) Access() Access     { return AccessOnce }
func (d decrypt[M]) Eval(i int) poly.Poly[M] {
	return DecryptPoly[M](d.ct.Eval(i), d.s.Eval(i))
}
