// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cowarray

import (
	"fmt"

	"github.com/plinth-foundation/plinth/lib/dynarray"
)

// noCopy makes go vet's copylocks check flag value copies of MutIter.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// MutIter is a mutation iterator: a cursor over a private clone of
// the array, holding the mutation lock. Mutations apply directly to
// the clone, in place, and become visible to readers all at once
// when the iterator finishes:
//
//   - [MutIter.Close] publishes the clone as the new version.
//   - [MutIter.Publish] publishes early and hands back a read-only
//     Iter at the same position.
//   - [MutIter.Discard] releases the clone and publishes nothing.
//
// Exactly one of these must be called, exactly once. Until then,
// other writers block and readers continue on the old version. After
// the iterator finishes, mutations and lifecycle calls return
// [ErrCommitted] (Discard stays an idempotent no-op) and reads
// panic, matching the split between recoverable misuse and plain
// bugs.
//
// The position ranges over [0, Len] like an [Iter]. After Insert or
// Emplace the position is on the first inserted element; after Erase
// or EraseN it is on the element that followed the erased range.
//
// A MutIter must not be copied and is not safe for concurrent use.
type MutIter[T any] struct {
	_     noCopy
	owner *Array[T]
	arr   *dynarray.Array[T]
	index int
	done  bool
}

// storage backs the read and navigation surface, where use after
// finish is a caller bug and panics. Mutations go through guard
// instead and fail softly with ErrCommitted.
func (m *MutIter[T]) storage() *dynarray.Array[T] {
	if m.done {
		panic("cowarray: mutation iterator used after finish")
	}
	return m.arr
}

func (m *MutIter[T]) guard() error {
	if m.done {
		return ErrCommitted
	}
	return nil
}

// Len returns the clone's element count, including uncommitted
// mutations.
func (m *MutIter[T]) Len() int { return m.storage().Len() }

// Cap returns the clone's capacity.
func (m *MutIter[T]) Cap() int { return m.storage().Cap() }

// Index returns the current position, in [0, Len].
func (m *MutIter[T]) Index() int {
	m.storage()
	return m.index
}

// AtEnd reports whether the position is past the last element.
func (m *MutIter[T]) AtEnd() bool {
	return m.index >= m.storage().Len()
}

// Value returns the element at the current position. Panics at the
// end position.
func (m *MutIter[T]) Value() T {
	s := m.storage()
	if m.index >= s.Len() {
		panic(fmt.Sprintf("cowarray: value at end position %d", m.index))
	}
	return s.At(m.index)
}

// At returns the element at position i without moving the cursor.
// Panics if i is out of range.
func (m *MutIter[T]) At(i int) T {
	s := m.storage()
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("cowarray: index %d out of range with size %d", i, s.Len()))
	}
	return s.At(i)
}

// Next advances one position unless already at the end. It reports
// whether the new position holds an element.
func (m *MutIter[T]) Next() bool {
	s := m.storage()
	if m.index < s.Len() {
		m.index++
	}
	return m.index < s.Len()
}

// Prev moves back one position and reports whether it moved.
func (m *MutIter[T]) Prev() bool {
	m.storage()
	if m.index == 0 {
		return false
	}
	m.index--
	return true
}

// Skip moves the position by n, which may be negative. If the
// target falls outside [0, Len], the position is unchanged and Skip
// reports false.
func (m *MutIter[T]) Skip(n int) bool {
	s := m.storage()
	i := m.index + n
	if i < 0 || i > s.Len() {
		return false
	}
	m.index = i
	return true
}

// Seek moves the position to i. If i falls outside [0, Len], the
// position is unchanged and Seek reports false.
func (m *MutIter[T]) Seek(i int) bool {
	s := m.storage()
	if i < 0 || i > s.Len() {
		return false
	}
	m.index = i
	return true
}

// Rewind moves the position to the first element.
func (m *MutIter[T]) Rewind() {
	m.storage()
	m.index = 0
}

// Set replaces the element at the current position.
func (m *MutIter[T]) Set(v T) error {
	if err := m.guard(); err != nil {
		return err
	}
	if m.index >= m.arr.Len() {
		return fmt.Errorf("cowarray: set at end position %d: %w", m.index, dynarray.ErrOutOfBounds)
	}
	m.arr.Set(m.index, v)
	return nil
}

// SetAt replaces the element at position i without moving the
// cursor.
func (m *MutIter[T]) SetAt(i int, v T) error {
	if err := m.guard(); err != nil {
		return err
	}
	if i < 0 || i >= m.arr.Len() {
		return fmt.Errorf("cowarray: set at %d with size %d: %w", i, m.arr.Len(), dynarray.ErrOutOfBounds)
	}
	m.arr.Set(i, v)
	return nil
}

// PushBack appends one element. The position does not move.
func (m *MutIter[T]) PushBack(v T) error {
	if err := m.guard(); err != nil {
		return err
	}
	return m.arr.PushBack(v)
}

// EmplaceBack appends a zero-value element and returns a pointer to
// it, valid until the next structural operation and never after the
// iterator finishes.
func (m *MutIter[T]) EmplaceBack() (*T, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.arr.EmplaceBack()
}

// PopBack removes and returns the last element. If the cursor was
// past the new end it moves to the new end.
func (m *MutIter[T]) PopBack() (T, error) {
	if err := m.guard(); err != nil {
		var zero T
		return zero, err
	}
	v, err := m.arr.PopBack()
	if err != nil {
		return v, err
	}
	if m.index > m.arr.Len() {
		m.index = m.arr.Len()
	}
	return v, nil
}

// Insert places the given elements at the current position, shifting
// the tail right. The position is unchanged, so it lands on the
// first inserted element. At the end position, Insert appends.
func (m *MutIter[T]) Insert(vs ...T) error {
	if err := m.guard(); err != nil {
		return err
	}
	return m.arr.Insert(m.index, vs...)
}

// Emplace inserts a zero-value element at the current position and
// returns a pointer to it, valid until the next structural
// operation. The position lands on the inserted element.
func (m *MutIter[T]) Emplace() (*T, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.arr.Emplace(m.index)
}

// Erase removes the element at the current position, shifting the
// tail left. The position is unchanged, so it lands on the element
// that followed; erasing the last element leaves the cursor at the
// end. Fails at the end position.
func (m *MutIter[T]) Erase() error {
	if err := m.guard(); err != nil {
		return err
	}
	if m.index >= m.arr.Len() {
		return fmt.Errorf("cowarray: erase at end position %d: %w", m.index, dynarray.ErrOutOfBounds)
	}
	return m.arr.Delete(m.index)
}

// EraseN removes n elements starting at the current position. The
// position is unchanged.
func (m *MutIter[T]) EraseN(n int) error {
	if err := m.guard(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("cowarray: erase %d elements: %w", n, dynarray.ErrOutOfBounds)
	}
	return m.arr.DeleteRange(m.index, m.index+n)
}

// Close publishes the clone as the new version and releases the
// mutation lock. Exactly one publication happens per MutIter; a
// second Close returns ErrCommitted.
func (m *MutIter[T]) Close() error {
	if m.done {
		return ErrCommitted
	}
	m.done = true
	m.owner.publishLocked(m.arr)
	m.arr = nil
	m.owner.mu.Unlock()
	return nil
}

// Publish publishes the clone immediately and returns a read-only
// Iter pinned to the just-published version, at the same position.
// The MutIter is finished afterwards, exactly as after Close.
func (m *MutIter[T]) Publish() (*Iter[T], error) {
	if m.done {
		return nil, ErrCommitted
	}
	m.done = true
	next := m.owner.publishLocked(m.arr)
	// Safe to pin directly: the slot reference is counted and the
	// held lock keeps this version current.
	next.retain()
	m.arr = nil
	it := &Iter[T]{snap: next, index: m.index, mark: -1}
	m.owner.mu.Unlock()
	return it, nil
}

// Discard releases the clone and the mutation lock without
// publishing: readers never see any of the iterator's mutations.
// Idempotent, including after Close or Publish.
func (m *MutIter[T]) Discard() {
	if m.done {
		return
	}
	m.done = true
	m.arr.Release()
	m.arr = nil
	m.owner.mu.Unlock()
}
