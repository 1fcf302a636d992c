// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package cowarray provides a dynamic array with copy-on-write
// concurrency: any number of readers proceed without locks and
// without ever blocking a writer or each other, while writers are
// serialized and publish complete new versions atomically.
//
// # Model
//
// An [Array] never mutates published storage. Every mutation clones
// the current version (a dynarray.Array), applies the change to the
// private clone, and publishes the clone with a single atomic pointer
// store. Readers that pinned the previous version keep reading it
// unchanged; readers that arrive later see the new version. A version
// plus its reference count is a snapshot, and its buffer returns to
// the allocator when the container has moved on and the last reader
// unpins it.
//
// Two iterators expose the two roles:
//
//   - [Iter], from [Array.Snapshot], is a read-only random-access
//     cursor over one immutable snapshot. Acquisition is O(1): it
//     pins the snapshot by reference count and copies nothing.
//   - [MutIter], from [Array.Edit], owns a private clone and the
//     writer lock. Acquisition is O(n). Mutations apply to the clone
//     with no copying per operation, and the clone is published
//     exactly once, by [MutIter.Close] or [MutIter.Publish];
//     [MutIter.Discard] abandons it and publishes nothing.
//
// Single-shot facade mutations ([Array.PushBack], [Array.Insert],
// [Array.Delete], ...) each clone, apply, and publish one change, so
// each costs O(n). Batch work belongs in a MutIter, which clones once
// for any number of operations.
//
// # Guarantees
//
//   - Snapshot isolation: an Iter observes one version, bit for bit,
//     for its whole lifetime, regardless of concurrent writes.
//   - Linearization: versions are published in a total order; once a
//     reader has seen version n, no later acquisition returns a
//     version before n. [Iter.Compare] exposes the order.
//   - Abort safety: a mutation that fails (allocation failure, bad
//     position) or a discarded MutIter leaves the published version
//     untouched.
//   - No lost updates: writers are serialized by the mutation lock,
//     so every committed change builds on the previous one.
//
// While a MutIter is open it holds the mutation lock: facade
// mutations and other Edit calls block until it closes or discards,
// readers are unaffected. A MutIter leaked without Close or Discard
// wedges every future writer.
//
// Allocation failures surface as errors wrapping
// alloc.ErrOutOfMemory, bad positions as errors wrapping
// dynarray.ErrOutOfBounds, and use of a closed container or a
// finished MutIter as [ErrClosed] and [ErrCommitted].
package cowarray
