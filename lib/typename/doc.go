// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package typename provides reflection helpers for naming and
// inspecting Go types without requiring a value of the type.
//
// [Name], [Short], and [PkgPath] render a type parameter as a string
// for diagnostics and error messages. [SizeOf] and [AlignOf] report
// memory layout. [PointerFree] reports whether values of a type
// contain no pointers, which gates allocators that place elements in
// memory the garbage collector does not scan (see lib/alloc).
//
// All functions are pure and safe for concurrent use.
package typename
