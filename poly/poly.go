// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package poly implements the polynomial ring Z_p[X]/(X^N+1) in
// either coefficient or number-theoretic-transform representation, with a
// compile-time (construction-time, memoized) search for a primitive 2N-th
// root of unity kept reproducible by seeding the search from the modulus
// and degree rather than from wall-clock entropy.
package poly

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"reflect"
	"sync"

	"github.com/luxfi/hecore/assert"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/prg"
)

// Representation tags whether a Poly's coefficients are in coefficient form
// or number-theoretic-transform (evaluation) form.
type Representation int

const (
	Coefficient Representation = iota
	NumberTheoretic
)

func (r Representation) String() string {
	if r == NumberTheoretic {
		return "ntt"
	}
	return "coefficient"
}

// Poly is a length-N vector of modular.Mod[M] elements, N a power of two.
type Poly[M modular.Modulus] struct {
	n    int
	rep  Representation
	vals []modular.Mod[M]
}

// N reports the ring degree.
func (p Poly[M]) N() int { return p.n }

// Representation reports the current representation.
func (p Poly[M]) Representation() Representation { return p.rep }

// Coeffs returns a defensive copy of the underlying values.
func (p Poly[M]) Coeffs() []modular.Mod[M] {
	out := make([]modular.Mod[M], len(p.vals))
	copy(out, p.vals)
	return out
}

func mustPowerOfTwo(n int) {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("poly: degree %d is not a power of two", n))
	}
}

// New constructs a Poly from n coefficients/evaluations (copied).
func New[M modular.Modulus](n int, rep Representation, vals []modular.Mod[M]) Poly[M] {
	mustPowerOfTwo(n)
	assert.That(len(vals) == n, "poly: need %d values, got %d", n, len(vals))
	out := make([]modular.Mod[M], n)
	copy(out, vals)
	return Poly[M]{n: n, rep: rep, vals: out}
}

// Zero returns the additive identity of the given degree/representation.
func Zero[M modular.Modulus](n int, rep Representation) Poly[M] {
	mustPowerOfTwo(n)
	vals := make([]modular.Mod[M], n)
	for i := range vals {
		vals[i] = modular.Zero[M]()
	}
	return Poly[M]{n: n, rep: rep, vals: vals}
}

func (p Poly[M]) mustMatch(q Poly[M]) {
	assert.That(p.n == q.n && p.rep == q.rep,
		"poly: mismatched operands (n=%d/%v vs n=%d/%v)", p.n, p.rep, q.n, q.rep)
}

// Add is elementwise addition, valid in either representation.
func Add[M modular.Modulus](p, q Poly[M]) Poly[M] {
	p.mustMatch(q)
	out := make([]modular.Mod[M], p.n)
	for i := range out {
		out[i] = modular.Add[M](p.vals[i], q.vals[i])
	}
	return Poly[M]{n: p.n, rep: p.rep, vals: out}
}

// Sub is elementwise subtraction, valid in either representation.
func Sub[M modular.Modulus](p, q Poly[M]) Poly[M] {
	p.mustMatch(q)
	out := make([]modular.Mod[M], p.n)
	for i := range out {
		out[i] = modular.Sub[M](p.vals[i], q.vals[i])
	}
	return Poly[M]{n: p.n, rep: p.rep, vals: out}
}

// Mul is pointwise multiplication, valid only in NTT representation — the
// coefficient-form product is a convolution, not an elementwise op, so
// this package exposes no coefficient-form multiply.
func Mul[M modular.Modulus](p, q Poly[M]) Poly[M] {
	p.mustMatch(q)
	assert.That(p.rep == NumberTheoretic, "poly: Mul requires both operands in NTT representation")
	out := make([]modular.Mod[M], p.n)
	for i := range out {
		out[i] = modular.Mul[M](p.vals[i], q.vals[i])
	}
	return Poly[M]{n: p.n, rep: NumberTheoretic, vals: out}
}

// ShiftMonomial computes X^k * p mod (X^n+1) directly on coefficients,
// negating any coefficient that wraps around the ring's sign boundary —
// the "bit monomial" multiplication.
func ShiftMonomial[M modular.Modulus](p Poly[M], k int) Poly[M] {
	assert.That(p.rep == Coefficient, "poly: ShiftMonomial requires coefficient representation")
	n := p.n
	period := 2 * n
	k = ((k % period) + period) % period

	out := make([]modular.Mod[M], n)
	for i := 0; i < n; i++ {
		src := ((i-k)%period + period) % period
		if src < n {
			out[i] = p.vals[src]
		} else {
			out[i] = modular.Neg[M](p.vals[src-n])
		}
	}
	return Poly[M]{n: n, rep: Coefficient, vals: out}
}

// ToRepresentation converts p to the target representation, returning p
// unchanged (copied) if it is already there — this is the coercion the LHE
// encrypt/decrypt formulas in package expr rely on so a plaintext already
// carried in NTT form isn't round-tripped needlessly.
func ToRepresentation[M modular.Modulus](p Poly[M], target Representation) Poly[M] {
	if p.rep == target {
		return New[M](p.n, p.rep, p.vals)
	}
	params := paramsFor[M](p.n)
	vals := make([]modular.Mod[M], p.n)
	copy(vals, p.vals)

	if target == NumberTheoretic {
		for i, psi := range params.psiPowers {
			vals[i] = modular.Mul[M](vals[i], psi)
		}
		nttInPlace(vals, params.omegaPowers)
	} else {
		inttInPlace(vals, params.omegaInvPowers)
		for i := range vals {
			vals[i] = modular.Mul[M](vals[i], params.nInv)
			vals[i] = modular.Mul[M](vals[i], params.psiInvPowers[i])
		}
	}
	return Poly[M]{n: p.n, rep: target, vals: vals}
}

func bitReverse[M modular.Modulus](vals []modular.Mod[M]) {
	n := len(vals)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			vals[i], vals[j] = vals[j], vals[i]
		}
	}
}

// nttInPlace runs the standard iterative Cooley-Tukey NTT: bit-reverse the
// input, then butterfly stage by stage using precomputed powers of omega.
// twiddles[i] = omega^i for i in [0, n/2).
func nttInPlace[M modular.Modulus](vals []modular.Mod[M], twiddles []modular.Mod[M]) {
	n := len(vals)
	bitReverse[M](vals)
	for length := 2; length <= n; length <<= 1 {
		step := n / length
		half := length / 2
		for i := 0; i < n; i += length {
			for j := 0; j < half; j++ {
				w := twiddles[j*step]
				u := vals[i+j]
				v := modular.Mul[M](vals[i+j+half], w)
				vals[i+j] = modular.Add[M](u, v)
				vals[i+j+half] = modular.Sub[M](u, v)
			}
		}
	}
}

// inttInPlace is the same butterfly network run with powers of omega^-1;
// the caller is responsible for the final scale-by-n^-1.
func inttInPlace[M modular.Modulus](vals []modular.Mod[M], twiddlesInv []modular.Mod[M]) {
	nttInPlace[M](vals, twiddlesInv)
}

// params holds the per-(modulus, degree) constants needed for the NTT:
// powers of psi (primitive 2N-th root) and its inverse for the negacyclic
// twist, and powers of omega=psi^2 and its inverse for the transform
// proper.
type params[M modular.Modulus] struct {
	psiPowers      []modular.Mod[M]
	psiInvPowers   []modular.Mod[M]
	omegaPowers    []modular.Mod[M]
	omegaInvPowers []modular.Mod[M]
	nInv           modular.Mod[M]
}

type cacheKey struct {
	modulus reflect.Type
	n       int
}

var paramsCache sync.Map // map[cacheKey]any (*params[M] for the matching M)

func paramsFor[M modular.Modulus](n int) *params[M] {
	var m M
	key := cacheKey{modulus: reflect.TypeOf(m), n: n}
	if v, ok := paramsCache.Load(key); ok {
		return v.(*params[M])
	}

	p := modular.P[M]()
	psi := findPrimitive2NthRoot(p, n)
	psiInv := new(big.Int).ModInverse(psi, p)
	nInv := new(big.Int).ModInverse(big.NewInt(int64(n)), p)

	pr := &params[M]{
		psiPowers:      powersOf[M](psi, p, n),
		psiInvPowers:   powersOf[M](psiInv, p, n),
		omegaPowers:    powersOf[M](new(big.Int).Exp(psi, big.NewInt(2), p), p, n/2),
		omegaInvPowers: powersOf[M](new(big.Int).Exp(psiInv, big.NewInt(2), p), p, n/2),
		nInv:           modular.FromPlain[M](nInv),
	}
	actual, _ := paramsCache.LoadOrStore(key, pr)
	return actual.(*params[M])
}

func powersOf[M modular.Modulus](base, p *big.Int, count int) []modular.Mod[M] {
	out := make([]modular.Mod[M], count)
	acc := big.NewInt(1)
	for i := 0; i < count; i++ {
		out[i] = modular.FromPlain[M](acc)
		acc = new(big.Int).Mod(new(big.Int).Mul(acc, base), p)
	}
	return out
}

// findPrimitive2NthRoot searches for a primitive 2N-th root of unity modulo
// p: sample a candidate, raise it to the (p-1)/(2N)-th power, and accept it
// only if the result has order exactly 2N (i.e. its N-th power isn't 1 but
// its 2N-th power is). Sampling uses the counter-mode PRG seeded
// deterministically from (p, n) so the search is reproducible rather than
// depending on wall-clock entropy. The candidate draw itself is biased mod
// p with no resampling; the loop below is the order test retrying against
// the next candidate, not a bias correction.
func findPrimitive2NthRoot(p *big.Int, n int) *big.Int {
	twoN := big.NewInt(int64(2 * n))
	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	if new(big.Int).Mod(pMinus1, twoN).Sign() != 0 {
		panic(fmt.Sprintf("poly: modulus %v has no primitive %d-th root of unity", p, 2*n))
	}
	exponent := new(big.Int).Div(pMinus1, twoN)

	seed := sha256.Sum256(append(p.Bytes(), seedSuffix(n)...))
	var key prg.Key
	copy(key[:], seed[:])
	gen := prg.New(key, prg.Nonce{uint32(n), uint32(n >> 16), 0})

	one := big.NewInt(1)
	nBig := big.NewInt(int64(n))
	for {
		x := sampleBiasedModP(gen, p)
		if x.Sign() == 0 {
			continue
		}
		g := new(big.Int).Exp(x, exponent, p)
		if new(big.Int).Exp(g, nBig, p).Cmp(one) == 0 {
			continue
		}
		if new(big.Int).Exp(g, twoN, p).Cmp(one) != 0 {
			continue
		}
		return g
	}
}

func seedSuffix(n int) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(n))
	return b[:]
}

// sampleBiasedModP draws one PRG block's worth of limbs from gen and
// reduces the result modulo p with a single pass — no rejection, no
// resampling. The candidate this produces is biased toward the low end of
// [0, p), which this search's own "advance on failure" retry against the
// next PRG block already tolerates.
func sampleBiasedModP(gen *prg.Generator, p *big.Int) *big.Int {
	block := gen.NextBlock()
	buf := make([]byte, 0, len(block)*4)
	for _, l := range block {
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], l)
		buf = append(buf, lb[:]...)
	}
	return new(big.Int).Mod(new(big.Int).SetBytes(buf), p)
}
