// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cowarray

import (
	"sync/atomic"

	"github.com/plinth-foundation/plinth/lib/dynarray"
)

// snapshot is one published version of the array: an immutable
// dynarray plus the reference count that decides when its buffer goes
// back to the allocator.
//
// refs counts one reference for the container slot while the snapshot
// is the published version, plus one per live Iter pinned to it. The
// buffer is released when refs reaches zero; the freed flag makes
// that release happen exactly once even if a racing reader briefly
// resurrects the count (see Array.acquire).
type snapshot[T any] struct {
	arr *dynarray.Array[T]

	// seq is the publication sequence number, strictly increasing
	// per container. It orders iterators across snapshots.
	seq uint64

	refs  atomic.Int64
	freed atomic.Bool
}

// newSnapshot wraps arr with the container slot's reference already
// counted.
func newSnapshot[T any](arr *dynarray.Array[T], seq uint64) *snapshot[T] {
	s := &snapshot[T]{arr: arr, seq: seq}
	s.refs.Store(1)
	return s
}

// retain adds a reference. The caller must either hold a counted
// reference already, or immediately validate the pin as acquire does.
func (s *snapshot[T]) retain() {
	s.refs.Add(1)
}

// release drops one reference. The last release returns the buffer
// to the allocator. The snapshot struct itself stays valid (the
// garbage collector owns it); only the element buffer is reclaimed,
// so a late reader that lost the acquire race can still run its
// release without touching freed memory.
func (s *snapshot[T]) release() {
	if s.refs.Add(-1) == 0 {
		if s.freed.CompareAndSwap(false, true) {
			s.arr.Release()
		}
	}
}
