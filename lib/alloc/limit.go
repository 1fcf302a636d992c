// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"fmt"
	"sync/atomic"
)

// Limit wraps another allocator and rejects allocations that would
// push the number of live elements past a fixed ceiling. The error
// wraps [ErrOutOfMemory], so containers sized against a Limit see the
// same failure mode as a genuinely exhausted system.
type Limit[T any] struct {
	inner Allocator[T]
	max   int64
	live  atomic.Int64
}

// NewLimit wraps inner with a ceiling of maxElements live elements.
// A nil inner defaults to [Heap]. maxElements must be positive.
func NewLimit[T any](inner Allocator[T], maxElements int) *Limit[T] {
	if maxElements <= 0 {
		panic(fmt.Sprintf("alloc: non-positive element limit %d", maxElements))
	}
	if inner == nil {
		inner = Heap[T]{}
	}
	return &Limit[T]{inner: inner, max: int64(maxElements)}
}

// Alloc reserves n elements against the ceiling, then delegates. If
// the reservation or the inner allocation fails, the ceiling is left
// unchanged.
func (l *Limit[T]) Alloc(n int) ([]T, error) {
	if n == 0 {
		return nil, nil
	}
	for {
		cur := l.live.Load()
		next := cur + int64(n)
		if next > l.max {
			return nil, fmt.Errorf("alloc: %d elements requested with %d of %d live: %w",
				n, cur, l.max, ErrOutOfMemory)
		}
		if l.live.CompareAndSwap(cur, next) {
			break
		}
	}
	buf, err := l.inner.Alloc(n)
	if err != nil {
		l.live.Add(-int64(n))
		return nil, err
	}
	return buf, nil
}

// Free releases buf to the wrapped allocator and returns its elements
// to the ceiling.
func (l *Limit[T]) Free(buf []T) {
	if buf == nil {
		return
	}
	l.inner.Free(buf)
	l.live.Add(-int64(cap(buf)))
}

// Live returns the number of elements currently counted against the
// ceiling.
func (l *Limit[T]) Live() int64 {
	return l.live.Load()
}
