//go:build cgo

// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/hecore/device"
)

func TestGPUBufferGetAfterSet(t *testing.T) {
	var _ device.Buffer[uint32] = (*Buffer)(nil)

	buf := NewBuffer(4)
	require.Equal(t, 4, buf.Len())

	acc := buf.Access(device.ReadWrite)
	for i := 0; i < 4; i++ {
		acc.Set(i, uint32(i*7+1))
	}
	for i := 0; i < 4; i++ {
		require.Equal(t, uint32(i*7+1), acc.Get(i), "a Set must not disturb other elements")
	}
}

func TestGPUBufferFromRoundTrips(t *testing.T) {
	data := []uint32{5, 0, 0xFFFFFFFF, 9}
	buf := NewBufferFrom(data)
	for i, want := range data {
		require.Equal(t, want, buf.Get(i))
	}

	data[0] = 99
	require.Equal(t, uint32(5), buf.Get(0), "NewBufferFrom must copy, not alias")
}

func TestGPUQueueRunsEveryIndex(t *testing.T) {
	q := NewQueue()
	buf := NewBuffer(64)
	acc := buf.Access(device.WriteOnly)
	q.Submit(buf.Len(), func(i int) {
		acc.Set(i, uint32(i*i))
	})
	q.Wait()
	for i := 0; i < buf.Len(); i++ {
		require.Equal(t, uint32(i*i), buf.Get(i))
	}
	stats := q.Stats()
	require.Equal(t, uint64(1), stats.KernelsSubmitted)
	require.Equal(t, uint64(64), stats.WorkItemsRun)
}
