// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cowarray

import (
	"errors"
	"testing"
	"time"

	"github.com/plinth-foundation/plinth/lib/dynarray"
	"github.com/plinth-foundation/plinth/lib/testutil"
)

func edit(t *testing.T, a *Array[int]) *MutIter[int] {
	t.Helper()
	mi, err := a.Edit()
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	return mi
}

func TestBatchInsertAtPosition(t *testing.T) {
	// Batch scenario: 100 elements, insert three at position 20
	// through a mutation iterator, publish once.
	a := New[int]()
	defer a.Close()
	push(t, a, 100)

	before := snapshotOf(t, a)
	defer before.Close()

	mi := edit(t, a)
	if !mi.Seek(20) {
		t.Fatal("Seek(20) = false")
	}
	if err := mi.Insert(-1, -2, -3); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if mi.Index() != 20 {
		t.Fatalf("Index = %d after insert, want 20 (first inserted element)", mi.Index())
	}
	if got := mi.Value(); got != -1 {
		t.Fatalf("Value after insert = %d, want -1", got)
	}
	if mi.Len() != 103 {
		t.Fatalf("Len = %d after insert, want 103", mi.Len())
	}

	// Readers still see the old version until commit.
	if before.Len() != 100 || a.Len() != 100 {
		t.Fatalf("pre-commit visibility: pinned %d facade %d, want 100/100", before.Len(), a.Len())
	}

	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if a.Len() != 103 {
		t.Fatalf("Len = %d after commit, want 103", a.Len())
	}
	got := contents(a)
	for i := 0; i < 20; i++ {
		if got[i] != i {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], i)
		}
	}
	if got[20] != -1 || got[21] != -2 || got[22] != -3 {
		t.Fatalf("inserted run = %v, want [-1 -2 -3]", got[20:23])
	}
	for i := 23; i < 103; i++ {
		if got[i] != i-3 {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], i-3)
		}
	}
	if before.Len() != 100 {
		t.Fatalf("pinned snapshot Len = %d after commit, want 100", before.Len())
	}
}

func TestErasePositionLaw(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 5) // [0 1 2 3 4]

	mi := edit(t, a)
	mi.Seek(1)
	if err := mi.Erase(); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	// Cursor lands on the element that followed.
	if mi.Index() != 1 || mi.Value() != 2 {
		t.Fatalf("after erase: Index=%d Value=%d, want 1/2", mi.Index(), mi.Value())
	}

	// Erasing the last element leaves the cursor at the end.
	mi.Seek(mi.Len() - 1)
	if err := mi.Erase(); err != nil {
		t.Fatalf("Erase(last): %v", err)
	}
	if !mi.AtEnd() {
		t.Fatalf("Index = %d after erasing last element, want end", mi.Index())
	}
	if err := mi.Erase(); !errors.Is(err, dynarray.ErrOutOfBounds) {
		t.Fatalf("Erase at end: err = %v, want ErrOutOfBounds", err)
	}

	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if want := []int{0, 2, 3}; !equal(contents(a), want) {
		t.Fatalf("contents = %v, want %v", contents(a), want)
	}
}

func TestEraseN(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 10)

	mi := edit(t, a)
	mi.Seek(3)
	if err := mi.EraseN(4); err != nil {
		t.Fatalf("EraseN(4): %v", err)
	}
	if mi.Index() != 3 || mi.Value() != 7 {
		t.Fatalf("after EraseN: Index=%d Value=%d, want 3/7", mi.Index(), mi.Value())
	}
	if err := mi.EraseN(100); !errors.Is(err, dynarray.ErrOutOfBounds) {
		t.Fatalf("oversized EraseN: err = %v, want ErrOutOfBounds", err)
	}
	if err := mi.EraseN(-1); !errors.Is(err, dynarray.ErrOutOfBounds) {
		t.Fatalf("negative EraseN: err = %v, want ErrOutOfBounds", err)
	}
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if want := []int{0, 1, 2, 7, 8, 9}; !equal(contents(a), want) {
		t.Fatalf("contents = %v, want %v", contents(a), want)
	}
}

func TestInsertThenEraseRoundTrip(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 50)
	original := contents(a)

	mi := edit(t, a)
	mi.Seek(17)
	if err := mi.Insert(100, 101, 102); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mi.EraseN(3); err != nil {
		t.Fatalf("EraseN(3): %v", err)
	}
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !equal(contents(a), original) {
		t.Fatalf("insert+erase round trip changed contents:\n got %v\nwant %v", contents(a), original)
	}
}

func TestMutIterReadSurface(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 8)

	mi := edit(t, a)
	defer mi.Discard()

	if mi.Len() != 8 || mi.AtEnd() {
		t.Fatalf("fresh MutIter: Len=%d AtEnd=%v, want 8/false", mi.Len(), mi.AtEnd())
	}
	if got := mi.At(5); got != 5 {
		t.Fatalf("At(5) = %d, want 5", got)
	}
	var walk []int
	mi.Rewind()
	for !mi.AtEnd() {
		walk = append(walk, mi.Value())
		mi.Next()
	}
	if !equal(walk, testutil.Ints(8)) {
		t.Fatalf("walk = %v, want 0..7", walk)
	}
	if !mi.Skip(-3) || mi.Index() != 5 {
		t.Fatalf("Skip(-3) from end: Index = %d, want 5", mi.Index())
	}
	if mi.Prev() && mi.Index() != 4 {
		t.Fatalf("Prev: Index = %d, want 4", mi.Index())
	}
}

func TestSetAndSetAt(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 5)

	mi := edit(t, a)
	mi.Seek(2)
	if err := mi.Set(99); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mi.SetAt(4, 44); err != nil {
		t.Fatalf("SetAt: %v", err)
	}
	if err := mi.SetAt(5, 0); !errors.Is(err, dynarray.ErrOutOfBounds) {
		t.Fatalf("SetAt(5): err = %v, want ErrOutOfBounds", err)
	}
	mi.Seek(5)
	if err := mi.Set(0); !errors.Is(err, dynarray.ErrOutOfBounds) {
		t.Fatalf("Set at end: err = %v, want ErrOutOfBounds", err)
	}
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if want := []int{0, 1, 99, 3, 44}; !equal(contents(a), want) {
		t.Fatalf("contents = %v, want %v", contents(a), want)
	}
}

func TestEmplace(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 3)

	mi := edit(t, a)
	mi.Seek(1)
	p, err := mi.Emplace()
	if err != nil {
		t.Fatalf("Emplace: %v", err)
	}
	*p = 42
	if mi.Value() != 42 {
		t.Fatalf("Value = %d after emplace, want 42", mi.Value())
	}
	q, err := mi.EmplaceBack()
	if err != nil {
		t.Fatalf("EmplaceBack: %v", err)
	}
	*q = 7
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if want := []int{0, 42, 1, 2, 7}; !equal(contents(a), want) {
		t.Fatalf("contents = %v, want %v", contents(a), want)
	}
}

func TestPopBackClampsCursor(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 3)

	mi := edit(t, a)
	mi.Seek(3) // end position
	if _, err := mi.PopBack(); err != nil {
		t.Fatalf("PopBack: %v", err)
	}
	if mi.Index() != 2 || !mi.AtEnd() {
		t.Fatalf("after pop from end position: Index=%d AtEnd=%v, want 2/true", mi.Index(), mi.AtEnd())
	}
	mi.Discard()
}

func TestDiscardPublishesNothing(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 5)

	before := snapshotOf(t, a)
	defer before.Close()

	mi := edit(t, a)
	if err := mi.Insert(100, 200, 300); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := mi.PopBack(); err != nil {
		t.Fatalf("PopBack: %v", err)
	}
	mi.Discard()

	after := snapshotOf(t, a)
	defer after.Close()
	if !before.SameSnapshot(after) {
		t.Fatal("Discard published a new version")
	}
	if want := []int{0, 1, 2, 3, 4}; !equal(contents(a), want) {
		t.Fatalf("contents = %v after discard, want %v", contents(a), want)
	}

	// Discard released the lock: the next writer proceeds.
	if err := a.PushBack(5); err != nil {
		t.Fatalf("PushBack after discard: %v", err)
	}
}

func TestPublishEarly(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 10)

	mi := edit(t, a)
	mi.Seek(4)
	if err := mi.Insert(-4); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ro, err := mi.Publish()
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	defer ro.Close()

	// The read-only iterator continues at the same position over the
	// just-published version.
	if ro.Index() != 4 {
		t.Fatalf("ro.Index = %d, want 4", ro.Index())
	}
	if got := ro.Value(); got != -4 {
		t.Fatalf("ro.Value = %d, want -4", got)
	}
	if ro.Len() != 11 || a.Len() != 11 {
		t.Fatalf("post-publish lengths: iter %d facade %d, want 11/11", ro.Len(), a.Len())
	}

	// The MutIter is finished and the lock released.
	if _, err := mi.Publish(); !errors.Is(err, ErrCommitted) {
		t.Fatalf("second Publish: err = %v, want ErrCommitted", err)
	}
	if err := a.PushBack(99); err != nil {
		t.Fatalf("PushBack after Publish: %v", err)
	}
	// ...and the converted iterator still pins its own version.
	if ro.Len() != 11 {
		t.Fatalf("ro.Len = %d after later push, want 11", ro.Len())
	}
}

func TestMutIterFinished(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 3)

	mi := edit(t, a)
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := mi.Close(); !errors.Is(err, ErrCommitted) {
		t.Fatalf("second Close: err = %v, want ErrCommitted", err)
	}
	if err := mi.PushBack(1); !errors.Is(err, ErrCommitted) {
		t.Fatalf("PushBack after finish: err = %v, want ErrCommitted", err)
	}
	if err := mi.Set(1); !errors.Is(err, ErrCommitted) {
		t.Fatalf("Set after finish: err = %v, want ErrCommitted", err)
	}
	if _, err := mi.PopBack(); !errors.Is(err, ErrCommitted) {
		t.Fatalf("PopBack after finish: err = %v, want ErrCommitted", err)
	}
	mi.Discard() // idempotent no-op after Close

	defer func() {
		if recover() == nil {
			t.Error("Value after finish did not panic")
		}
	}()
	mi.Value()
}

func TestEditBlocksWritersNotReaders(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 5)

	mi := edit(t, a)
	if err := mi.PushBack(5); err != nil {
		t.Fatalf("PushBack: %v", err)
	}

	// A reader proceeds while the edit is open.
	readerDone := make(chan int, 1)
	go func() {
		it, err := a.Snapshot()
		if err != nil {
			readerDone <- -1
			return
		}
		defer it.Close()
		readerDone <- it.Len()
	}()
	if got := testutil.RequireReceive(t, readerDone, 2*time.Second, "reader during open edit"); got != 5 {
		t.Fatalf("reader saw Len = %d during edit, want 5", got)
	}

	// A writer blocks until the edit finishes.
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- a.PushBack(100)
	}()
	time.Sleep(20 * time.Millisecond)
	select {
	case err := <-writerDone:
		t.Fatalf("writer completed while edit open (err = %v)", err)
	default:
	}

	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := testutil.RequireReceive(t, writerDone, 2*time.Second, "writer after edit close"); err != nil {
		t.Fatalf("blocked writer failed: %v", err)
	}

	if want := []int{0, 1, 2, 3, 4, 5, 100}; !equal(contents(a), want) {
		t.Fatalf("contents = %v, want %v", contents(a), want)
	}
}

func TestMutIterNotAffectedByPriorSnapshots(t *testing.T) {
	a := New[int]()
	defer a.Close()
	push(t, a, 3)

	ro := snapshotOf(t, a)
	defer ro.Close()

	mi := edit(t, a)
	if err := mi.Set(99); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := ro.At(0); got != 0 {
		t.Fatalf("pinned snapshot sees uncommitted write: At(0) = %d", got)
	}
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := ro.At(0); got != 0 {
		t.Fatalf("pinned snapshot sees committed write: At(0) = %d", got)
	}
}
