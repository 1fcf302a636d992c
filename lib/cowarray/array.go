// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cowarray

import (
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/plinth-foundation/plinth/lib/alloc"
	"github.com/plinth-foundation/plinth/lib/dynarray"
)

var (
	// ErrClosed is returned by operations on a closed Array, and by
	// Close itself when the array is already closed.
	ErrClosed = errors.New("cowarray: array closed")

	// ErrCommitted is returned by MutIter operations after the
	// iterator has been closed, published, or discarded.
	ErrCommitted = errors.New("cowarray: mutation iterator already finished")

	// ErrNoMark is returned by Iter.ResetToMark when no mark is set.
	ErrNoMark = errors.New("cowarray: no mark set")
)

// Options configures a new Array.
type Options[T any] struct {
	// Allocator supplies element buffers. Nil defaults to the Go
	// heap.
	Allocator alloc.Allocator[T]

	// Capacity preallocates room for that many elements in the
	// first published version.
	Capacity int
}

// Array is a copy-on-write dynamic array safe for any number of
// concurrent readers and serialized writers. See the package
// documentation for the concurrency model.
type Array[T any] struct {
	// mu is the mutation lock. Holding it is the only way to
	// publish, so writers are serialized; readers never take it.
	mu sync.Mutex

	// published is the current version, nil once the array is
	// closed. Replaced only under mu; read by anyone.
	published atomic.Pointer[snapshot[T]]

	// alloc builds fresh storage for Clear. Clones inherit their
	// allocator from the storage they copy.
	alloc alloc.Allocator[T]

	// lastSeq is the publication sequence counter, guarded by mu.
	lastSeq uint64
}

// New returns an empty array backed by the Go heap.
func New[T any]() *Array[T] {
	a, err := NewWith(Options[T]{})
	if err != nil {
		// Unreachable: zero capacity allocates nothing.
		panic(err)
	}
	return a
}

// NewWith returns an empty array configured by opts. It fails only if
// preallocating opts.Capacity elements fails.
func NewWith[T any](opts Options[T]) (*Array[T], error) {
	alc := opts.Allocator
	if alc == nil {
		alc = alloc.Heap[T]{}
	}
	storage, err := dynarray.NewWithCapacity(alc, opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("cowarray: new: %w", err)
	}
	a := &Array[T]{alloc: alc}
	a.published.Store(newSnapshot(storage, 0))
	return a, nil
}

// acquire pins the current version and returns it with a reference
// held. It is lock-free: the retry loop runs only when a publish
// lands between the load and the validation, and each retry observes
// a strictly newer version.
//
// The validation makes the pin safe against the release in publish:
// if the second load still returns s, the container slot's reference
// was still counted when retain ran, so refs never hit zero before
// the pin and the buffer cannot have been freed. If the second load
// disagrees, the pin may have landed after the final release; undo
// it and retry. Each snapshot pointer is published exactly once, so
// pointer equality cannot be fooled by reuse.
func (a *Array[T]) acquire() (*snapshot[T], error) {
	for {
		s := a.published.Load()
		if s == nil {
			return nil, ErrClosed
		}
		s.retain()
		if a.published.Load() == s {
			return s, nil
		}
		s.release()
	}
}

// publishLocked makes arr the current version. Caller holds mu and
// has verified the array is not closed. The store is the
// linearization point of the mutation; the old version's slot
// reference is dropped only afterwards, which acquire's validation
// relies on.
func (a *Array[T]) publishLocked(arr *dynarray.Array[T]) *snapshot[T] {
	a.lastSeq++
	next := newSnapshot(arr, a.lastSeq)
	prev := a.published.Swap(next)
	prev.release()
	return next
}

// mutate runs one clone-apply-publish cycle. If fn fails, the clone
// is released and the published version is untouched.
func (a *Array[T]) mutate(op string, fn func(*dynarray.Array[T]) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.published.Load()
	if cur == nil {
		return ErrClosed
	}
	clone, err := cur.arr.Clone()
	if err != nil {
		return fmt.Errorf("cowarray: %s: %w", op, err)
	}
	if err := fn(clone); err != nil {
		clone.Release()
		return err
	}
	a.publishLocked(clone)
	return nil
}

// Len returns the number of elements in the current version, or 0 if
// the array is closed.
func (a *Array[T]) Len() int {
	s, err := a.acquire()
	if err != nil {
		return 0
	}
	defer s.release()
	return s.arr.Len()
}

// Cap returns the capacity of the current version, or 0 if the array
// is closed.
func (a *Array[T]) Cap() int {
	s, err := a.acquire()
	if err != nil {
		return 0
	}
	defer s.release()
	return s.arr.Cap()
}

// Empty reports whether the current version holds no elements.
func (a *Array[T]) Empty() bool {
	return a.Len() == 0
}

// Get returns the element at index i of the current version. The
// second result is false if i is out of range or the array is
// closed.
func (a *Array[T]) Get(i int) (T, bool) {
	var zero T
	s, err := a.acquire()
	if err != nil {
		return zero, false
	}
	defer s.release()
	if i < 0 || i >= s.arr.Len() {
		return zero, false
	}
	return s.arr.At(i), true
}

// All returns an iterator over index/element pairs. The whole walk
// observes one pinned version; concurrent writes do not affect it.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s, err := a.acquire()
		if err != nil {
			return
		}
		defer s.release()
		for i, v := range s.arr.All() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns an iterator over elements. The whole walk observes
// one pinned version.
func (a *Array[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		s, err := a.acquire()
		if err != nil {
			return
		}
		defer s.release()
		for v := range s.arr.Values() {
			if !yield(v) {
				return
			}
		}
	}
}

// Snapshot pins the current version and returns a read-only iterator
// over it, positioned at the first element. O(1), no copying. The
// caller must Close the iterator to release the pin.
func (a *Array[T]) Snapshot() (*Iter[T], error) {
	s, err := a.acquire()
	if err != nil {
		return nil, err
	}
	return &Iter[T]{snap: s, mark: -1}, nil
}

// Edit clones the current version and returns a mutation iterator
// over the clone, positioned at the first element. O(n). The
// mutation lock is held until the iterator is closed, published, or
// discarded: other writers block, readers are unaffected.
func (a *Array[T]) Edit() (*MutIter[T], error) {
	a.mu.Lock()
	cur := a.published.Load()
	if cur == nil {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	clone, err := cur.arr.Clone()
	if err != nil {
		a.mu.Unlock()
		return nil, fmt.Errorf("cowarray: edit: %w", err)
	}
	return &MutIter[T]{owner: a, arr: clone}, nil
}

// Reserve publishes a version with capacity for at least n elements.
// If the current capacity already suffices, nothing is published and
// existing snapshots remain current.
func (a *Array[T]) Reserve(n int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.published.Load()
	if cur == nil {
		return ErrClosed
	}
	if n <= cur.arr.Cap() {
		return nil
	}
	clone, err := cur.arr.CloneWithCapacity(n)
	if err != nil {
		return fmt.Errorf("cowarray: reserve: %w", err)
	}
	a.publishLocked(clone)
	return nil
}

// ShrinkToFit publishes a version whose capacity equals its length.
// A no-op if they are already equal.
func (a *Array[T]) ShrinkToFit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.published.Load()
	if cur == nil {
		return ErrClosed
	}
	if cur.arr.Cap() == cur.arr.Len() {
		return nil
	}
	clone, err := cur.arr.CloneWithCapacity(cur.arr.Len())
	if err != nil {
		return fmt.Errorf("cowarray: shrink: %w", err)
	}
	a.publishLocked(clone)
	return nil
}

// Clear publishes an empty version with the current capacity. A
// no-op if the array is already empty. No elements are copied.
func (a *Array[T]) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.published.Load()
	if cur == nil {
		return ErrClosed
	}
	if cur.arr.Len() == 0 {
		return nil
	}
	empty, err := dynarray.NewWithCapacity(a.alloc, cur.arr.Cap())
	if err != nil {
		return fmt.Errorf("cowarray: clear: %w", err)
	}
	a.publishLocked(empty)
	return nil
}

// PushBack publishes a version with v appended.
func (a *Array[T]) PushBack(v T) error {
	return a.mutate("push back", func(c *dynarray.Array[T]) error {
		return c.PushBack(v)
	})
}

// Append publishes a version with the given elements appended.
// Appending nothing is a no-op.
func (a *Array[T]) Append(vs ...T) error {
	if len(vs) == 0 {
		return nil
	}
	return a.mutate("append", func(c *dynarray.Array[T]) error {
		return c.Append(vs...)
	})
}

// EmplaceBack appends a zero-value element, hands it to construct
// for in-place initialization, and publishes. A nil construct
// publishes the zero value.
func (a *Array[T]) EmplaceBack(construct func(*T)) error {
	return a.mutate("emplace back", func(c *dynarray.Array[T]) error {
		p, err := c.EmplaceBack()
		if err != nil {
			return err
		}
		if construct != nil {
			construct(p)
		}
		return nil
	})
}

// Insert publishes a version with the given elements inserted at
// index i. i may equal Len, which appends. Inserting nothing is a
// no-op.
func (a *Array[T]) Insert(i int, vs ...T) error {
	if len(vs) == 0 {
		return nil
	}
	return a.mutate("insert", func(c *dynarray.Array[T]) error {
		return c.Insert(i, vs...)
	})
}

// Set publishes a version with the element at index i replaced.
func (a *Array[T]) Set(i int, v T) error {
	return a.mutate("set", func(c *dynarray.Array[T]) error {
		if i < 0 || i >= c.Len() {
			return fmt.Errorf("cowarray: set at %d with size %d: %w", i, c.Len(), dynarray.ErrOutOfBounds)
		}
		c.Set(i, v)
		return nil
	})
}

// Delete publishes a version with the element at index i removed.
func (a *Array[T]) Delete(i int) error {
	return a.mutate("delete", func(c *dynarray.Array[T]) error {
		return c.Delete(i)
	})
}

// DeleteRange publishes a version with elements in [i, j) removed.
// An empty range is a no-op.
func (a *Array[T]) DeleteRange(i, j int) error {
	if i == j {
		return nil
	}
	return a.mutate("delete range", func(c *dynarray.Array[T]) error {
		return c.DeleteRange(i, j)
	})
}

// PopBack removes and returns the last element, publishing the
// shortened version.
func (a *Array[T]) PopBack() (T, error) {
	var v T
	err := a.mutate("pop back", func(c *dynarray.Array[T]) error {
		popped, err := c.PopBack()
		if err != nil {
			return err
		}
		v = popped
		return nil
	})
	return v, err
}

// Close retires the array. The published version's slot reference is
// dropped; its buffer is reclaimed once the last reader unpins it.
// Open Iters remain fully usable until they are closed. Further
// operations, and a second Close, return ErrClosed.
func (a *Array[T]) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	cur := a.published.Swap(nil)
	if cur == nil {
		return ErrClosed
	}
	cur.release()
	return nil
}
