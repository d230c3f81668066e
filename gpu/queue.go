//go:build cgo

// Package gpu implements device.Queue over github.com/luxfi/mlx, giving
// hecore an accelerator backend alongside device.CPUQueue. MLX's own API
// operates on whole arrays, not the arbitrary per-element Go closures
// device.Queue.Submit takes, so kernel dispatch itself still runs across
// host goroutines exactly like device.CPUQueue; what MLX actually buys
// this package is an array-resident mirror of each buffer for callers
// that want to hand a whole tensor to MLX for a batched transform instead
// of one element at a time.
package gpu

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/luxfi/mlx"

	"github.com/luxfi/hecore/device"
)

// Queue is a device.Queue backed by MLX-resident buffers.
type Queue struct {
	kernels   atomic.Uint64
	workItems atomic.Uint64
}

var logBannerOnce sync.Once

func logBanner() {
	logBannerOnce.Do(func() {
		fmt.Printf("hecore: gpu queue starting (mlx backend=%v)\n", mlx.GetBackend())
	})
}

// NewQueue constructs an MLX-backed Queue.
func NewQueue() *Queue {
	logBanner()
	return &Queue{}
}

// Submit runs fn(i) for every i in [0, n), parallelized across host
// goroutines. See the package doc for why this mirrors device.CPUQueue's
// dispatch rather than compiling to an MLX kernel.
func (q *Queue) Submit(n int, fn func(i int)) {
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
		lo, hi := w*chunk, w*chunk+chunk
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

// Wait is a no-op: Submit already blocks until its work completes.
func (q *Queue) Wait() {}

// Stats reports cumulative submission counters.
func (q *Queue) Stats() device.Stats {
	return device.Stats{KernelsSubmitted: q.kernels.Load(), WorkItemsRun: q.workItems.Load()}
}

// Buffer is a device.Buffer of uint32 elements, the width hecore's
// limb-based numeric kernels operate on. The host-resident shadow slice —
// the same pattern CUDABuffer uses — is authoritative: Get and Set operate
// on it directly, so concurrent work items writing disjoint elements never
// contend. The MLX array mirror is rebuilt lazily by Array for callers
// that hand the whole buffer to MLX as an array, since the vendored
// bindings expose no in-place scalar write or host-side read.
type Buffer struct {
	host []uint32
}

// NewBuffer allocates an n-element buffer of zeros.
func NewBuffer(n int) *Buffer {
	return &Buffer{host: make([]uint32, n)}
}

// Len reports the buffer's element count.
func (b *Buffer) Len() int { return len(b.host) }

// Access returns b itself as its own Accessor. Mode is currently
// unenforced: MLX has no notion of the access-mode contention the real
// transport/accelerator boundary would need to serialize.
func (b *Buffer) Access(device.AccessMode) device.Accessor[uint32] { return b }

// Get reads element i from the host-resident shadow.
func (b *Buffer) Get(i int) uint32 { return b.host[i] }

// Set writes element i to the host-resident shadow.
func (b *Buffer) Set(i int, v uint32) { b.host[i] = v }

// NewBufferFrom copies data into a fresh buffer.
func NewBufferFrom(data []uint32) *Buffer {
	b := NewBuffer(len(data))
	copy(b.host, data)
	return b
}

// Array uploads the current buffer contents as a fresh MLX array. Callers
// must not interleave Array with concurrent Sets; the snapshot is taken
// element by element.
func (b *Buffer) Array() *mlx.Array {
	i32 := make([]int32, len(b.host))
	for i, v := range b.host {
		i32[i] = int32(v)
	}
	return mlx.ArrayFromSlice(i32, []int{len(b.host)}, mlx.Int32)
}
