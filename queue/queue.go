// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package queue implements the expression compiler: it takes a finished
// expr.Node, runs the materialization pass over any subtree that
// needs its whole output gathered before anything downstream can read it,
// then submits one device.Queue kernel with one work item per output
// element and returns the resulting tensor.Tensor.
package queue

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/luxfi/hecore/device"
	"github.com/luxfi/hecore/expr"
	"github.com/luxfi/hecore/tensor"
)

// Queue wraps a device.Queue, adding the lifecycle counters a production
// accelerator queue exposes (submitted kernels, work items run, and how
// many AccessMultiple subtrees needed materializing).
type Queue struct {
	dev                       device.Queue
	intermediatesMaterialized atomic.Uint64
	bytesResident             atomic.Uint64
}

// New attaches a compiler Queue to a device backend.
func New(dev device.Queue) *Queue {
	fmt.Println("hecore: expression queue attached to device backend")
	return &Queue{dev: dev}
}

// Stats aggregates this Queue's own counters with its device backend's.
// BytesResident counts the backing-array bytes of every result tensor
// Submit has allocated on this queue; elements that themselves own heap
// storage (slices inside a Mod or Poly) count at header size only.
type Stats struct {
	KernelsSubmitted          uint64
	WorkItemsRun              uint64
	IntermediatesMaterialized uint64
	BytesResident             uint64
}

// Stats reports cumulative lifecycle counters.
func (q *Queue) Stats() Stats {
	d := q.dev.Stats()
	return Stats{
		KernelsSubmitted:          d.KernelsSubmitted,
		WorkItemsRun:              d.WorkItemsRun,
		IntermediatesMaterialized: q.intermediatesMaterialized.Load(),
		BytesResident:             q.bytesResident.Load(),
	}
}

// Submit compiles root and runs it to completion, returning the resulting
// tensor. If root itself needs materializing (Access() == AccessMultiple),
// that pass runs first and is counted as one intermediate.
func Submit[T any](q *Queue, root expr.Node[T]) tensor.Tensor[T] {
	if root.Access() == expr.AccessMultiple {
		q.intermediatesMaterialized.Add(1)
	}
	materialized := expr.Materialize[T](root)
	shp := materialized.Shape()
	n := shp.NumElements()
	buf := make([]T, n)
	var zero T
	q.bytesResident.Add(uint64(n) * uint64(unsafe.Sizeof(zero)))
	q.dev.Submit(n, func(i int) {
		buf[i] = materialized.Eval(i)
	})
	q.dev.Wait()
	return tensor.New[T](shp, buf)
}
