// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package device defines the accelerator contract that package queue
// compiles expressions down to: a data-parallel Queue that runs one
// work-item per output element and a buffer/accessor pair mediating
// reads and writes under a declared access mode. The real GPU backend is
// out of scope for this module (see package gpu for the mlx-backed
// implementation of this same contract); device/cpu.go provides the
// goroutine-parallel reference implementation this module's tests and
// queue.Queue run against.
package device

import "fmt"

// AccessMode declares how a kernel intends to touch a buffer, mirroring
// bitspan.AccessMode's three-way split for plain tensor storage instead of
// limb spans.
type AccessMode int

const (
	ReadOnly AccessMode = iota
	WriteOnly
	ReadWrite
)

// CanRead reports whether a reader may call Accessor.Get under this mode.
func (m AccessMode) CanRead() bool { return m == ReadOnly || m == ReadWrite }

// CanWrite reports whether a reader may call Accessor.Set under this mode.
func (m AccessMode) CanWrite() bool { return m == WriteOnly || m == ReadWrite }

func (m AccessMode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return fmt.Sprintf("AccessMode(%d)", int(m))
	}
}

// Accessor is a bounds-checked view over a Buffer's elements, acquired for
// the lifetime of one kernel submission under a fixed AccessMode.
type Accessor[T any] interface {
	Len() int
	Get(i int) T
	Set(i int, v T)
}

// Buffer is a device-resident (or, for the CPU reference backend,
// host-resident) owner of a flat element array.
type Buffer[T any] interface {
	Len() int
	// Access acquires an Accessor for the given mode. Implementations may
	// serialize concurrent WriteOnly/ReadWrite access; the CPU reference
	// backend does not need to, since it never aliases a buffer across
	// concurrently submitted kernels.
	Access(mode AccessMode) Accessor[T]
}

// Queue is the contract package queue compiles a materialization pass
// down to: submit a data-parallel kernel over n work-items, then later
// wait for all outstanding work to finish.
type Queue interface {
	// Submit dispatches fn once per i in [0, n), in no particular order
	// and potentially concurrently.
	Submit(n int, fn func(i int))
	// Wait blocks until every kernel submitted so far has completed.
	Wait()
	// Stats reports cumulative lifecycle counters for diagnostics/logging.
	Stats() Stats
}

// Stats mirrors the lifecycle counters a production accelerator queue
// would expose for observability.
type Stats struct {
	KernelsSubmitted uint64
	WorkItemsRun     uint64
}
