// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package cpufeat detects CPU identity, cache geometry, and the
// instruction-set features this repository cares about.
//
// [Detect] queries the CPU once and returns a plain [Profile] value;
// callers test capabilities with [Profile.Supports], print one-line
// reports with [Profile.Summary], and attach the whole profile to
// structured logs through its [slog.LogValuer] implementation.
//
// The feature list is deliberately short: the vector-math and
// hashing paths only ever branch on SSE4.2, AVX, AVX2, AVX-512F,
// FMA3, POPCNT, AES-NI, and SHA extensions on x86, and NEON or SVE
// on arm64. On Linux the profile is enriched with socket and NUMA
// node counts read from sysfs; elsewhere those fields stay zero.
package cpufeat
