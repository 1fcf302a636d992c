// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package alloc

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is wrapped by every allocation failure. Callers
// detect exhaustion with errors.Is(err, alloc.ErrOutOfMemory)
// regardless of which allocator produced the error.
var ErrOutOfMemory = errors.New("out of memory")

// Allocator hands out element buffers for container storage.
//
// Alloc returns a zeroed buffer with len == cap == n, or an error
// wrapping [ErrOutOfMemory] if the allocator cannot satisfy the
// request. Alloc(0) returns a nil buffer and no error. n must not be
// negative.
//
// Free releases a buffer previously returned by Alloc on the same
// allocator, at its original length. Free(nil) is a no-op. A buffer
// must be freed at most once, and must not be accessed afterwards.
//
// Implementations must be safe for concurrent use.
type Allocator[T any] interface {
	Alloc(n int) ([]T, error)
	Free(buf []T)
}

// Heap allocates buffers from the Go heap. Free is a no-op; the
// garbage collector reclaims buffers once unreferenced. The zero
// value is ready to use.
type Heap[T any] struct{}

// Alloc returns a zeroed buffer of n elements.
func (Heap[T]) Alloc(n int) ([]T, error) {
	if n < 0 {
		panic(fmt.Sprintf("alloc: negative buffer size %d", n))
	}
	if n == 0 {
		return nil, nil
	}
	return make([]T, n), nil
}

// Free is a no-op.
func (Heap[T]) Free([]T) {}
