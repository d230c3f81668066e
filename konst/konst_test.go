// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package konst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAndAbsorbingZero(t *testing.T) {
	got := And(Runtime[Limb](0x1234), Const[Limb](0))
	require.True(t, got.IsConst())
	require.Equal(t, Limb(0), got.Value())
}

func TestOrAbsorbingOnes(t *testing.T) {
	got := Or(Runtime[Limb](0x1234), Const(^Limb(0)))
	require.True(t, got.IsConst())
	require.Equal(t, ^Limb(0), got.Value())
}

func TestBothConstFolds(t *testing.T) {
	got := Add(Const[Limb](2), Const[Limb](3))
	require.True(t, got.IsConst())
	require.Equal(t, Limb(5), got.Value())
}

func TestMixedDoesNotFold(t *testing.T) {
	got := Add(Const[Limb](2), Runtime[Limb](3))
	require.False(t, got.IsConst())
	require.Equal(t, Limb(5), got.Value())
}

func TestSelectConstantChoice(t *testing.T) {
	f, tr := Runtime[Limb](10), Runtime[Limb](20)
	require.Equal(t, Limb(20), Select(f, tr, Const[Bit](1)).Value())
	require.Equal(t, Limb(10), Select(f, tr, Const[Bit](0)).Value())
}
