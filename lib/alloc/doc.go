// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package alloc defines the buffer allocator contract used by the
// container packages and provides four implementations.
//
// [Allocator] hands out whole element buffers: Alloc returns a zeroed
// slice with len == cap == n, Free returns a buffer obtained from the
// same allocator. Containers own exactly one allocator and route every
// buffer acquisition and release through it, which makes allocation
// failure an explicit, testable error path rather than a crash.
//
// Implementations:
//
//   - [Heap] -- buffers from the Go heap; Free is a no-op and the
//     garbage collector reclaims the memory.
//   - [Counting] -- wraps another allocator and keeps atomic counters
//     of allocations, frees, and live buffers and elements. Tests use
//     it to prove that every buffer a container acquires is released
//     exactly once.
//   - [Limit] -- wraps another allocator and caps the number of live
//     elements, failing further allocations with [ErrOutOfMemory].
//     Tests use it to drive containers down their allocation-failure
//     paths at a chosen moment.
//   - [Mmap] -- buffers from anonymous mmap regions outside the Go
//     heap (Linux and macOS). Element types must be pointer-free and
//     non-zero-sized. Because Free unmaps the pages, any access to a
//     released buffer faults instead of silently reading stale data,
//     which makes lifetime bugs in refcounting protocols observable.
//
// Allocation failure is reported as an error wrapping
// [ErrOutOfMemory]; callers match it with errors.Is.
package alloc
