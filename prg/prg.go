// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package prg implements a counter-mode pseudorandom generator:
// a ChaCha20 keystream addressed by a 3-word nonce plus a 1-word counter,
// emitting one 512-bit (16-limb) block per (nonce, counter) pair. This is
// the same primitive used throughout the random-number-generator expression
// nodes in package expr to derive per-element randomness deterministically
// from a tensor index, rather than from a shared mutable stream.
package prg

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/luxfi/hecore/limb"
)

// KeySize is the ChaCha20 key size in bytes.
const KeySize = chacha20.KeySize

// BlockLimbs is the number of limb.Limb words in one generated block: a
// single ChaCha20 block is 64 bytes, i.e. 16 32-bit limbs.
const BlockLimbs = 16

// Key is an opaque symmetric key used to seed a generator.
type Key [KeySize]byte

// RandomKey draws a fresh key from the OS CSPRNG. Used only for key
// generation at setup time (e.g. producing a fresh encryption/PRG key) —
// never invoked from inside a kernel evaluator, where randomness must be
// reproducible from (key, nonce, counter) alone.
func RandomKey() (Key, error) {
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		return Key{}, fmt.Errorf("prg: reading random key: %w", err)
	}
	return k, nil
}

// Nonce is the 3-word (96-bit) nonce half of a ChaCha20 block address. The
// number-generator node in package expr uses one caller-supplied nonce for
// every element and derives the block counter from a tensor element's flat
// index and the expression's access offset.
type Nonce [3]uint32

// Block produces the keystream block addressed by (key, nonce, counter) as
// 16 limbs, matching the little-endian word layout of the ChaCha20 state.
func Block(key Key, nonce Nonce, counter uint32) [BlockLimbs]limb.Limb {
	var nonceBytes [12]byte
	binary.LittleEndian.PutUint32(nonceBytes[0:4], nonce[0])
	binary.LittleEndian.PutUint32(nonceBytes[4:8], nonce[1])
	binary.LittleEndian.PutUint32(nonceBytes[8:12], nonce[2])

	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonceBytes[:])
	if err != nil {
		panic(fmt.Sprintf("prg: constructing cipher: %v", err))
	}
	c.SetCounter(counter)

	var zero, keystream [64]byte
	c.XORKeyStream(keystream[:], zero[:])

	var block [BlockLimbs]limb.Limb
	for i := range block {
		block[i] = limb.Limb(binary.LittleEndian.Uint32(keystream[i*4 : i*4+4]))
	}
	return block
}

// Generator produces a deterministic sequence of blocks for a fixed key and
// nonce, auto-incrementing the counter.
type Generator struct {
	key     Key
	nonce   Nonce
	counter uint32
}

// New returns a Generator seeded with key and nonce, counter starting at
// zero.
func New(key Key, nonce Nonce) *Generator {
	return &Generator{key: key, nonce: nonce}
}

// NextBlock returns the next 16-limb block and advances the counter.
func (g *Generator) NextBlock() [BlockLimbs]limb.Limb {
	b := Block(g.key, g.nonce, g.counter)
	g.counter++
	return b
}

// Counter reports the next counter value that will be consumed.
func (g *Generator) Counter() uint32 { return g.counter }

// Seek repositions the generator at an explicit counter value, used when an
// expression needs the block for a specific tensor index without replaying
// every prior one.
func (g *Generator) Seek(counter uint32) { g.counter = counter }

// UniformLimb draws a value uniform on [0, bound) by rejection sampling
// over generated limbs, discarding any value that would bias the result.
// Package expr's number generator takes this fast path for moduli that fit
// in a single limb; moduli wider than one limb need the multi-limb
// rejection sampler in expr/rng.go instead, since a single accepted limb
// can't bound a multi-limb comparison against p. This is deliberately a
// different policy than package poly's root-of-unity search, which
// tolerates bias and never resamples — unbiased sampling matters for
// cryptographic randomness, not for picking an arbitrary NTT root.
func UniformLimb(g *Generator, bound limb.Limb) limb.Limb {
	if bound == 0 {
		panic("prg: UniformLimb with zero bound")
	}
	limit := (limb.Ones / bound) * bound
	for {
		block := g.NextBlock()
		for _, v := range block {
			if v < limit {
				return v % bound
			}
		}
	}
}
