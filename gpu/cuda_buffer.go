// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"unsafe"

	"github.com/luxfi/hecore/device"
)

// CUDABuffer is a host-resident uint32 device.Buffer that stages its
// reads/writes through the CUDA memcpy helpers in memory.go/memory_stub.go
// when syncing against a real device pointer. On a build without cgo and
// the cuda tag, every sync method returns ErrNoCUDA and the buffer behaves
// as plain host storage — the same fallback memory_stub.go already gives
// the raw helpers, just surfaced through device.Buffer instead of left
// unreachable.
type CUDABuffer struct {
	host   []byte
	pinned *PinnedBuffer
	n      int
}

// NewCUDABuffer allocates an n-element host buffer backed by ordinary Go
// memory.
func NewCUDABuffer(n int) *CUDABuffer {
	return &CUDABuffer{host: make([]byte, n*4), n: n}
}

// NewCUDABufferPinned allocates an n-element buffer backed by pinned host
// memory for faster PCIe transfer on a real CUDA build; on a non-CUDA
// build NewPinnedBuffer returns nil and this falls back to NewCUDABuffer.
func NewCUDABufferPinned(n int) *CUDABuffer {
	pb := NewPinnedBuffer(n * 4)
	if pb == nil {
		return NewCUDABuffer(n)
	}
	return &CUDABuffer{host: pb.Bytes(), pinned: pb, n: n}
}

// Close releases the pinned allocation, if any.
func (b *CUDABuffer) Close() {
	if b.pinned != nil {
		b.pinned.Free()
		b.pinned = nil
	}
}

// Len reports the buffer's element count.
func (b *CUDABuffer) Len() int { return b.n }

// Access returns b itself as its own Accessor.
func (b *CUDABuffer) Access(device.AccessMode) device.Accessor[uint32] { return b }

// Get reads element i from the host-resident copy.
func (b *CUDABuffer) Get(i int) uint32 {
	return binary.LittleEndian.Uint32(b.host[i*4 : i*4+4])
}

// Set writes element i to the host-resident copy.
func (b *CUDABuffer) Set(i int, v uint32) {
	binary.LittleEndian.PutUint32(b.host[i*4:i*4+4], v)
}

// SyncToDevice stages the entire host buffer to GPU memory at dst via
// CUDA memcpy.
func (b *CUDABuffer) SyncToDevice(dst unsafe.Pointer) error {
	return CopyToDevice(dst, b.host)
}

// SyncFromDevice reads GPU memory at src back into the host buffer.
func (b *CUDABuffer) SyncFromDevice(src unsafe.Pointer) error {
	return CopyFromDevice(b.host, src)
}

// MirrorDevice copies directly between two device pointers without
// round-tripping through the host.
func (b *CUDABuffer) MirrorDevice(dst, src unsafe.Pointer) error {
	return CopyDeviceToDevice(dst, src, len(b.host))
}

// ZeroHostAndDevice clears the host-resident copy and, if devicePtr is
// non-nil, the device buffer it mirrors.
func (b *CUDABuffer) ZeroHostAndDevice(devicePtr unsafe.Pointer) error {
	for i := range b.host {
		b.host[i] = 0
	}
	if devicePtr == nil {
		return nil
	}
	return ZeroDevice(devicePtr, len(b.host))
}

// fastCopyTo is the low-level, unchecked transfer cgoMemcpy backs: it
// assumes dst has at least b.Len() elements of room and skips the
// error-returning wrapper CopyToDevice pays for.
func (b *CUDABuffer) fastCopyTo(dst unsafe.Pointer) {
	if len(b.host) == 0 {
		return
	}
	cgoMemcpy(dst, unsafe.Pointer(&b.host[0]), len(b.host))
}
