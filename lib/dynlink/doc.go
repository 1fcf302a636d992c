// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

// Package dynlink opens shared libraries and resolves symbols at
// runtime without cgo.
//
// It wraps purego's dlopen/dlsym/dlclose bindings in a small handle
// type with path-qualified errors. [Open] loads one library,
// [OpenAny] tries a candidate list in order and is the usual entry
// point when a library's install name varies across distributions.
// Resolved symbol addresses are raw uintptrs; callers hand them to
// purego's calling machinery or keep them for comparison.
//
// The package builds on Linux and macOS only. There is deliberately
// no Windows port: nothing in this repository loads DLLs, and the
// dlopen semantics this package exposes do not map onto
// LoadLibrary.
package dynlink
