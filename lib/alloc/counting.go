// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package alloc

import "sync/atomic"

// Counting wraps another allocator and tracks usage with atomic
// counters. It adds two atomic operations per Alloc and one per Free,
// cheap enough to leave enabled outside of benchmarks.
type Counting[T any] struct {
	inner Allocator[T]

	allocs       atomic.Int64
	frees        atomic.Int64
	failed       atomic.Int64
	liveBuffers  atomic.Int64
	liveElements atomic.Int64
	peakElements atomic.Int64
}

// Stats is a point-in-time snapshot of a [Counting] allocator's
// counters. Live values are exact; Peak is the high-water mark of
// live elements.
type Stats struct {
	Allocs       int64 // successful allocations
	Frees        int64 // buffers released
	Failed       int64 // allocations rejected by the inner allocator
	LiveBuffers  int64 // buffers currently outstanding
	LiveElements int64 // elements currently outstanding
	PeakElements int64 // maximum of LiveElements over the lifetime
}

// NewCounting wraps inner with usage counters. A nil inner defaults
// to [Heap].
func NewCounting[T any](inner Allocator[T]) *Counting[T] {
	if inner == nil {
		inner = Heap[T]{}
	}
	return &Counting[T]{inner: inner}
}

// Alloc delegates to the wrapped allocator, counting the outcome.
func (c *Counting[T]) Alloc(n int) ([]T, error) {
	buf, err := c.inner.Alloc(n)
	if err != nil {
		c.failed.Add(1)
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	c.allocs.Add(1)
	c.liveBuffers.Add(1)
	live := c.liveElements.Add(int64(n))
	for {
		peak := c.peakElements.Load()
		if live <= peak || c.peakElements.CompareAndSwap(peak, live) {
			break
		}
	}
	return buf, nil
}

// Free releases buf to the wrapped allocator, counting the release.
func (c *Counting[T]) Free(buf []T) {
	if buf == nil {
		return
	}
	c.inner.Free(buf)
	c.frees.Add(1)
	c.liveBuffers.Add(-1)
	c.liveElements.Add(-int64(cap(buf)))
}

// Stats returns a snapshot of the counters. Counters read
// individually; a snapshot taken while allocations are in flight may
// be momentarily inconsistent between fields.
func (c *Counting[T]) Stats() Stats {
	return Stats{
		Allocs:       c.allocs.Load(),
		Frees:        c.frees.Load(),
		Failed:       c.failed.Load(),
		LiveBuffers:  c.liveBuffers.Load(),
		LiveElements: c.liveElements.Load(),
		PeakElements: c.peakElements.Load(),
	}
}
