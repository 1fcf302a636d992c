// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package dynarray implements a growable array over an explicit
// allocator. It is the storage engine beneath cowarray and is not
// safe for concurrent use on its own.
//
// An [Array] owns one contiguous buffer obtained from an
// [alloc.Allocator] and tracks how many leading slots are occupied.
// Elements stay in insertion order; Insert and Delete shift the tail,
// so both are O(n - i) for position i, while appends are amortized
// O(1) under the growth policy (capacity doubles up to 256 elements,
// then grows by half).
//
// The API splits errors by caller intent:
//
//   - Structural operations (Reserve, Insert, Delete, PopBack, ...)
//     return errors: [ErrOutOfBounds] for a bad position, or the
//     allocator's error (wrapping alloc.ErrOutOfMemory) when growth
//     fails. On any error the array is unchanged.
//   - Element access (At, Set, Ptr) panics on a bad index, the same
//     contract as indexing a Go slice. An index that is out of range
//     here is a bug in the caller, not an environmental condition.
//
// Capacity is explicit and sticky: Reserve raises it, ShrinkToFit
// lowers it to the current length, and Clone preserves it, so a
// caller that sized an array once keeps that headroom across
// copy-on-write generations. Release returns the buffer to the
// allocator and resets the array to empty.
package dynarray
