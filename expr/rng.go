// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package expr

import (
	binaryenc "encoding/binary"
	"math/big"

	"github.com/luxfi/hecore/limb"
	"github.com/luxfi/hecore/modular"
	"github.com/luxfi/hecore/prg"
	"github.com/luxfi/hecore/shape"
)

// numberGenerator is a leaf Node producing deterministic pseudorandom field
// elements: element i of a tensor of size n at generator offset k addresses
// PRG block counter i + n*k. Because each element's value
// depends only on its own flat index, not on any neighbor, this needs no
// materialization and stays AccessOnce even though it is built on the same
// PRG primitive the compile-time root-of-unity search in package poly uses.
type numberGenerator[M modular.Modulus] struct {
	shp    shape.Shape
	key    prg.Key
	nonce  prg.Nonce
	offset uint64
}

// NumberGenerator constructs a Node of shp's size filled with independent
// uniform elements of Z/pZ, addressed by (key, nonce, offset).
func NumberGenerator[M modular.Modulus](shp shape.Shape, key prg.Key, nonce prg.Nonce, offset uint64) Node[modular.Mod[M]] {
	return numberGenerator[M]{shp: shp, key: key, nonce: nonce, offset: offset}
}

func (g numberGenerator[M]) Shape() shape.Shape { return g.shp }
func (g numberGenerator[M]) Access() Access     { return AccessOnce }

func (g numberGenerator[M]) Eval(i int) modular.Mod[M] {
	size := uint64(g.shp.NumElements())
	counter := uint32(uint64(i) + size*g.offset)
	return sampleFieldElement[M](g.key, g.nonce, counter, modular.P[M]())
}

// sampleFieldElement draws a uniform element of [0, p) by rejection
// sampling over consecutive PRG blocks starting at counter — deterministic
// and safe to call for the same (key, nonce, counter) from any goroutine.
// Each call constructs and discards its own local prg.Generator rather than
// sharing one, so a data-parallel Submit never serializes on it the way it
// would if every element's draw advanced one shared stateful Generator.
//
// A modulus that fits in a single limb takes the fast path through
// prg.UniformLimb directly; wider moduli fall back to the byte-buffer
// rejection loop below since no single accepted limb can bound a
// multi-limb comparison against p.
func sampleFieldElement[M modular.Modulus](key prg.Key, nonce prg.Nonce, counter uint32, p *big.Int) modular.Mod[M] {
	if p.BitLen() <= limb.BitSize {
		gen := prg.New(key, nonce)
		gen.Seek(counter)
		v := prg.UniformLimb(gen, limb.Limb(p.Uint64()))
		return modular.FromPlain[M](new(big.Int).SetUint64(uint64(v)))
	}

	byteLen := (p.BitLen() + 7) / 8
	for {
		block := prg.Block(key, nonce, counter)
		buf := make([]byte, 0, len(block)*4)
		for _, l := range block {
			var lb [4]byte
			binaryenc.LittleEndian.PutUint32(lb[:], l)
			buf = append(buf, lb[:]...)
			if len(buf) >= byteLen {
				break
			}
		}
		v := new(big.Int).SetBytes(buf[:byteLen])
		if v.Cmp(p) < 0 {
			return modular.FromPlain[M](v)
		}
		counter++
	}
}
