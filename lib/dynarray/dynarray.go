// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package dynarray

import (
	"errors"
	"fmt"
	"iter"

	"github.com/plinth-foundation/plinth/lib/alloc"
)

// ErrOutOfBounds is wrapped by every structural operation handed a
// position outside the array. Match with errors.Is.
var ErrOutOfBounds = errors.New("index out of bounds")

// Growth policy: double while small, grow by half once the buffer is
// large enough that doubling wastes real memory. The factor stays
// between 1.5 and 2.0, which keeps appends amortized O(1).
const (
	minCapacity   = 4
	halveGrowthAt = 256
)

// Array is a growable array backed by a single allocator-owned
// buffer. The zero value is not usable; create arrays with [New] or
// [NewWithCapacity]. Not safe for concurrent use.
//
// Invariant: the buffer's slots at index >= Len are zero. Structural
// operations maintain this so that freed slots never pin heap objects
// and emplaced slots start from the zero value.
type Array[T any] struct {
	items []T // whole buffer; len(items) is the capacity
	size  int
	alloc alloc.Allocator[T]
}

// New returns an empty array that allocates from a. A nil a defaults
// to the Go heap.
func New[T any](a alloc.Allocator[T]) *Array[T] {
	if a == nil {
		a = alloc.Heap[T]{}
	}
	return &Array[T]{alloc: a}
}

// NewWithCapacity returns an empty array with room for capacity
// elements already allocated.
func NewWithCapacity[T any](a alloc.Allocator[T], capacity int) (*Array[T], error) {
	arr := New[T](a)
	if err := arr.Reserve(capacity); err != nil {
		return nil, err
	}
	return arr, nil
}

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.size }

// Cap returns the number of elements the buffer can hold before the
// next growth.
func (a *Array[T]) Cap() int { return len(a.items) }

// Empty reports whether the array holds no elements.
func (a *Array[T]) Empty() bool { return a.size == 0 }

// At returns the element at index i. Panics if i is out of range,
// like indexing a slice.
func (a *Array[T]) At(i int) T {
	a.check(i)
	return a.items[i]
}

// Set replaces the element at index i. Panics if i is out of range.
func (a *Array[T]) Set(i int, v T) {
	a.check(i)
	a.items[i] = v
}

// Ptr returns a pointer to the element at index i, valid until the
// next structural operation. Panics if i is out of range.
func (a *Array[T]) Ptr(i int) *T {
	a.check(i)
	return &a.items[i]
}

func (a *Array[T]) check(i int) {
	if i < 0 || i >= a.size {
		panic(fmt.Sprintf("dynarray: index %d out of range with size %d", i, a.size))
	}
}

// All returns an iterator over index/element pairs in order.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < a.size; i++ {
			if !yield(i, a.items[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over elements in order.
func (a *Array[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < a.size; i++ {
			if !yield(a.items[i]) {
				return
			}
		}
	}
}

// Reserve grows the buffer to hold exactly n elements. If n does not
// exceed the current capacity, Reserve does nothing. Elements and
// their order are preserved.
func (a *Array[T]) Reserve(n int) error {
	if n <= len(a.items) {
		return nil
	}
	if err := a.realloc(n); err != nil {
		return fmt.Errorf("dynarray: reserve %d elements: %w", n, err)
	}
	return nil
}

// ShrinkToFit reallocates the buffer down to the current length,
// releasing the backing buffer entirely when the array is empty.
func (a *Array[T]) ShrinkToFit() error {
	if a.size == len(a.items) {
		return nil
	}
	if err := a.realloc(a.size); err != nil {
		return fmt.Errorf("dynarray: shrink to %d elements: %w", a.size, err)
	}
	return nil
}

// PushBack appends one element.
func (a *Array[T]) PushBack(v T) error {
	if err := a.ensure(a.size + 1); err != nil {
		return err
	}
	a.items[a.size] = v
	a.size++
	return nil
}

// Append appends the given elements in order.
func (a *Array[T]) Append(vs ...T) error {
	return a.Insert(a.size, vs...)
}

// EmplaceBack appends a zero-value element and returns a pointer to
// it for in-place construction. The pointer is valid until the next
// structural operation.
func (a *Array[T]) EmplaceBack() (*T, error) {
	if err := a.ensure(a.size + 1); err != nil {
		return nil, err
	}
	p := &a.items[a.size]
	a.size++
	return p, nil
}

// Insert places the given elements starting at index i, shifting the
// tail right. i may equal Len, which appends. On error the array is
// unchanged.
func (a *Array[T]) Insert(i int, vs ...T) error {
	if i < 0 || i > a.size {
		return fmt.Errorf("dynarray: insert at %d with size %d: %w", i, a.size, ErrOutOfBounds)
	}
	k := len(vs)
	if k == 0 {
		return nil
	}
	need := a.size + k
	if need <= len(a.items) {
		copy(a.items[i+k:need], a.items[i:a.size])
		copy(a.items[i:], vs)
		a.size = need
		return nil
	}

	// Growing: build the new buffer directly so each element moves
	// exactly once.
	next, err := a.alloc.Alloc(nextCapacity(len(a.items), need))
	if err != nil {
		return fmt.Errorf("dynarray: grow to %d elements: %w", need, err)
	}
	copy(next, a.items[:i])
	copy(next[i:], vs)
	copy(next[i+k:], a.items[i:a.size])
	prev := a.items
	a.items = next
	a.size = need
	if prev != nil {
		a.alloc.Free(prev)
	}
	return nil
}

// Emplace inserts a zero-value element at index i and returns a
// pointer to it for in-place construction. The pointer is valid until
// the next structural operation.
func (a *Array[T]) Emplace(i int) (*T, error) {
	if i < 0 || i > a.size {
		return nil, fmt.Errorf("dynarray: emplace at %d with size %d: %w", i, a.size, ErrOutOfBounds)
	}
	if err := a.ensure(a.size + 1); err != nil {
		return nil, err
	}
	copy(a.items[i+1:a.size+1], a.items[i:a.size])
	var zero T
	a.items[i] = zero
	a.size++
	return &a.items[i], nil
}

// Delete removes the element at index i, shifting the tail left.
func (a *Array[T]) Delete(i int) error {
	if i < 0 || i >= a.size {
		return fmt.Errorf("dynarray: delete at %d with size %d: %w", i, a.size, ErrOutOfBounds)
	}
	return a.DeleteRange(i, i+1)
}

// DeleteRange removes elements in [i, j), shifting the tail left.
// An empty range is a no-op.
func (a *Array[T]) DeleteRange(i, j int) error {
	if i < 0 || j < i || j > a.size {
		return fmt.Errorf("dynarray: delete range [%d:%d) with size %d: %w", i, j, a.size, ErrOutOfBounds)
	}
	if i == j {
		return nil
	}
	copy(a.items[i:], a.items[j:a.size])
	clear(a.items[a.size-(j-i) : a.size])
	a.size -= j - i
	return nil
}

// PopBack removes and returns the last element.
func (a *Array[T]) PopBack() (T, error) {
	var zero T
	if a.size == 0 {
		return zero, fmt.Errorf("dynarray: pop from empty array: %w", ErrOutOfBounds)
	}
	a.size--
	v := a.items[a.size]
	a.items[a.size] = zero
	return v, nil
}

// Clear removes all elements, keeping the buffer.
func (a *Array[T]) Clear() {
	clear(a.items[:a.size])
	a.size = 0
}

// Release returns the buffer to the allocator and resets the array
// to empty with zero capacity. The array remains usable.
func (a *Array[T]) Release() {
	if a.items != nil {
		a.alloc.Free(a.items)
		a.items = nil
	}
	a.size = 0
}

// Clone returns an independent copy with the same elements, length,
// and capacity, allocated from the same allocator. Each element is
// copied exactly once.
func (a *Array[T]) Clone() (*Array[T], error) {
	return a.CloneWithCapacity(len(a.items))
}

// CloneWithCapacity returns an independent copy with capacity
// max(capacity, Len). Facade-level reserve and shrink use this to
// resize and copy in a single allocation.
func (a *Array[T]) CloneWithCapacity(capacity int) (*Array[T], error) {
	if capacity < a.size {
		capacity = a.size
	}
	out := &Array[T]{alloc: a.alloc}
	if capacity > 0 {
		buf, err := a.alloc.Alloc(capacity)
		if err != nil {
			return nil, fmt.Errorf("dynarray: clone with capacity %d: %w", capacity, err)
		}
		copy(buf, a.items[:a.size])
		out.items = buf
		out.size = a.size
	}
	return out, nil
}

// ensure grows the buffer if needed so that it holds at least need
// elements.
func (a *Array[T]) ensure(need int) error {
	if need <= len(a.items) {
		return nil
	}
	if err := a.realloc(nextCapacity(len(a.items), need)); err != nil {
		return fmt.Errorf("dynarray: grow to %d elements: %w", need, err)
	}
	return nil
}

// realloc moves the elements into a fresh buffer of newCap slots and
// frees the old buffer. newCap must be at least Len. On error the
// array is unchanged.
func (a *Array[T]) realloc(newCap int) error {
	var next []T
	if newCap > 0 {
		buf, err := a.alloc.Alloc(newCap)
		if err != nil {
			return err
		}
		copy(buf, a.items[:a.size])
		next = buf
	}
	prev := a.items
	a.items = next
	if prev != nil {
		a.alloc.Free(prev)
	}
	return nil
}

// nextCapacity returns the buffer size for growing from cur to at
// least need elements.
func nextCapacity(cur, need int) int {
	next := max(cur, minCapacity)
	for next < need {
		if next < halveGrowthAt {
			next *= 2
		} else {
			next += next / 2
		}
		if next <= 0 {
			// Overflow; fall back to the exact request.
			return need
		}
	}
	return next
}
