// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cowarray

import (
	"cmp"
	"fmt"
	"iter"
)

// Iter is a read-only random-access cursor over one pinned snapshot.
// The snapshot never changes: every read through the iterator
// observes the version that was current when it was created, no
// matter what writers do meanwhile.
//
// The position ranges over [0, Len], where Len is the
// past-the-last-element end position. Value panics at the end
// position, like indexing past a slice.
//
// An Iter is cheap (no copying, one reference count increment) but
// pins its snapshot's buffer: Close it when done so the allocator
// can reclaim retired versions. It is not safe for concurrent use;
// goroutines share the Array and take their own iterators.
type Iter[T any] struct {
	snap  *snapshot[T]
	index int
	mark  int // -1 when unset
}

func (it *Iter[T]) live() *snapshot[T] {
	if it.snap == nil {
		panic("cowarray: iterator used after Close")
	}
	return it.snap
}

// Len returns the number of elements in the pinned snapshot.
func (it *Iter[T]) Len() int { return it.live().arr.Len() }

// Cap returns the capacity of the pinned snapshot.
func (it *Iter[T]) Cap() int { return it.live().arr.Cap() }

// Index returns the current position, in [0, Len].
func (it *Iter[T]) Index() int {
	it.live()
	return it.index
}

// AtEnd reports whether the position is past the last element.
func (it *Iter[T]) AtEnd() bool {
	return it.index >= it.live().arr.Len()
}

// Value returns the element at the current position. Panics at the
// end position.
func (it *Iter[T]) Value() T {
	s := it.live()
	if it.index >= s.arr.Len() {
		panic(fmt.Sprintf("cowarray: value at end position %d", it.index))
	}
	return s.arr.At(it.index)
}

// At returns the element at position i without moving the cursor.
// Panics if i is out of range, like indexing a slice.
func (it *Iter[T]) At(i int) T {
	s := it.live()
	if i < 0 || i >= s.arr.Len() {
		panic(fmt.Sprintf("cowarray: index %d out of range with size %d", i, s.arr.Len()))
	}
	return s.arr.At(i)
}

// Next advances one position unless already at the end. It reports
// whether the new position holds an element.
func (it *Iter[T]) Next() bool {
	s := it.live()
	if it.index < s.arr.Len() {
		it.index++
	}
	return it.index < s.arr.Len()
}

// Prev moves back one position and reports whether it moved. At
// position 0 it stays and reports false.
func (it *Iter[T]) Prev() bool {
	it.live()
	if it.index == 0 {
		return false
	}
	it.index--
	return true
}

// Skip moves the position by n, which may be negative. If the
// target falls outside [0, Len], the position is unchanged and Skip
// reports false.
func (it *Iter[T]) Skip(n int) bool {
	s := it.live()
	i := it.index + n
	if i < 0 || i > s.arr.Len() {
		return false
	}
	it.index = i
	return true
}

// Seek moves the position to i. If i falls outside [0, Len], the
// position is unchanged and Seek reports false.
func (it *Iter[T]) Seek(i int) bool {
	s := it.live()
	if i < 0 || i > s.arr.Len() {
		return false
	}
	it.index = i
	return true
}

// Rewind moves the position to the first element.
func (it *Iter[T]) Rewind() {
	it.live()
	it.index = 0
}

// Mark remembers the current position for ResetToMark.
func (it *Iter[T]) Mark() {
	it.live()
	it.mark = it.index
}

// ResetToMark moves the position back to the marked one. Returns
// ErrNoMark if Mark has not been called. The mark itself is kept, so
// repeated resets return to the same place.
func (it *Iter[T]) ResetToMark() error {
	it.live()
	if it.mark < 0 {
		return ErrNoMark
	}
	it.index = it.mark
	return nil
}

// SameSnapshot reports whether both iterators pin the same published
// version.
func (it *Iter[T]) SameSnapshot(o *Iter[T]) bool {
	return it.live() == o.live()
}

// Compare orders iterators from the same Array: first by publication
// order of their snapshots, then by position. It returns -1, 0, or
// +1.
func (it *Iter[T]) Compare(o *Iter[T]) int {
	a, b := it.live(), o.live()
	if a.seq != b.seq {
		return cmp.Compare(a.seq, b.seq)
	}
	return cmp.Compare(it.index, o.index)
}

// Distance returns it.Index() - o.Index() when both iterators pin
// the same snapshot: the element offset between them. When they pin
// different snapshots it returns the publication distance instead,
// which is non-zero and agrees in sign with Compare but is not an
// element offset.
func (it *Iter[T]) Distance(o *Iter[T]) int {
	a, b := it.live(), o.live()
	if a == b {
		return it.index - o.index
	}
	return int(int64(a.seq) - int64(b.seq))
}

// All returns an iterator over index/element pairs from the current
// position to the end. The cursor does not move.
func (it *Iter[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s := it.live()
		for i := it.index; i < s.arr.Len(); i++ {
			if !yield(i, s.arr.At(i)) {
				return
			}
		}
	}
}

// Close unpins the snapshot. Idempotent. After Close, any other
// method panics.
func (it *Iter[T]) Close() {
	if it.snap != nil {
		it.snap.release()
		it.snap = nil
	}
}
