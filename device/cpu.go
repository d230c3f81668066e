// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

var logFeaturesOnce sync.Once

// logFeatures prints the SIMD feature bits detected on this host once per
// process, the way a production accelerator backend logs the capabilities
// it negotiated at startup.
func logFeatures() {
	logFeaturesOnce.Do(func() {
		switch runtime.GOARCH {
		case "amd64":
			fmt.Printf("hecore: cpu queue starting (amd64, avx2=%v avx512f=%v)\n", cpu.X86.HasAVX2, cpu.X86.HasAVX512F)
		case "arm64":
			fmt.Printf("hecore: cpu queue starting (arm64, asimd=%v)\n", cpu.ARM64.HasASIMD)
		default:
			fmt.Printf("hecore: cpu queue starting (%s)\n", runtime.GOARCH)
		}
	})
}

// CPUQueue is a goroutine-parallel reference implementation of Queue. It
// partitions each Submit's work-items across GOMAXPROCS workers and blocks
// the submitting goroutine until they finish, so Wait is a no-op — there is
// no cross-submission overlap to wait out.
type CPUQueue struct {
	kernels   atomic.Uint64
	workItems atomic.Uint64
}

// NewCPUQueue constructs a CPUQueue, logging detected host SIMD features
// the first time any CPUQueue is created in this process.
func NewCPUQueue() *CPUQueue {
	logFeatures()
	return &CPUQueue{}
}

// Submit runs fn(i) for every i in [0, n), parallelized across
// GOMAXPROCS workers, and returns once all of them have completed.
func (q *CPUQueue) Submit(n int, fn func(i int)) {
	q.kernels.Add(1)
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
	q.workItems.Add(uint64(n))
}

// Wait is a no-op: Submit is already synchronous on this reference backend.
func (q *CPUQueue) Wait() {}

// Stats reports cumulative submission counters.
func (q *CPUQueue) Stats() Stats {
	return Stats{KernelsSubmitted: q.kernels.Load(), WorkItemsRun: q.workItems.Load()}
}

// HostBuffer is a plain-slice Buffer/Accessor implementation used by the
// CPU reference Queue.
type HostBuffer[T any] struct {
	data []T
}

// NewHostBuffer constructs a HostBuffer over a fresh zero-valued slice of
// length n.
func NewHostBuffer[T any](n int) *HostBuffer[T] {
	return &HostBuffer[T]{data: make([]T, n)}
}

// NewHostBufferFrom wraps an existing slice without copying.
func NewHostBufferFrom[T any](data []T) *HostBuffer[T] {
	return &HostBuffer[T]{data: data}
}

// Len reports the buffer's element count.
func (b *HostBuffer[T]) Len() int { return len(b.data) }

// Access returns b itself as its own Accessor: a plain slice needs no
// per-access bookkeeping.
func (b *HostBuffer[T]) Access(AccessMode) Accessor[T] { return b }

// Get reads element i.
func (b *HostBuffer[T]) Get(i int) T { return b.data[i] }

// Set writes element i.
func (b *HostBuffer[T]) Set(i int, v T) { b.data[i] = v }

// Raw exposes the backing slice directly, e.g. for handing data to a
// tensor.Tensor once a compiled expression has finished executing.
func (b *HostBuffer[T]) Raw() []T { return b.data }
