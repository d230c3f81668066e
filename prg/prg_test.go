// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package prg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	key := Key{1, 2, 3}
	nonce := Nonce{10, 20, 30}
	a := New(key, nonce)
	b := New(key, nonce)
	for i := 0; i < 4; i++ {
		require.Equal(t, a.NextBlock(), b.NextBlock())
	}
}

func TestDifferentNonceDiffers(t *testing.T) {
	key := Key{1, 2, 3}
	a := New(key, Nonce{1, 0, 0})
	b := New(key, Nonce{2, 0, 0})
	require.NotEqual(t, a.NextBlock(), b.NextBlock())
}

func TestSeekMatchesReplay(t *testing.T) {
	key := Key{9}
	nonce := Nonce{4, 5, 6}
	g := New(key, nonce)
	for i := 0; i < 5; i++ {
		g.NextBlock()
	}
	want := g.NextBlock()

	seeked := New(key, nonce)
	seeked.Seek(5)
	require.Equal(t, want, seeked.NextBlock())
}

func TestRandomKeyNotAllZero(t *testing.T) {
	k, err := RandomKey()
	require.NoError(t, err)
	require.NotEqual(t, Key{}, k)
}

func TestUniformLimbWithinBound(t *testing.T) {
	g := New(Key{5}, Nonce{1, 1, 1})
	for i := 0; i < 200; i++ {
		v := UniformLimb(g, 97)
		require.True(t, v < 97)
	}
}
