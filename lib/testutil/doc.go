// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Plinth packages.
//
// [RequireReceive], [RequireSend], [RequireClosed], and [RequireDone]
// encapsulate the timeout safety valve pattern (select with a
// time.After fallback) so that concurrency tests fail with a message
// instead of hanging when a goroutine deadlocks. They are the only
// place the test suite touches the wall clock.
//
// [Ints] and [Strings] build deterministic element sequences for
// container tests, so expected contents can be recomputed instead of
// hard-coded.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Plinth-internal dependencies.
package testutil
