// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package numfmt renders numbers, byte sizes, rates, and durations
// for human-facing output.
//
// Command-line tools and diagnostics in this repository format
// through this package instead of calling formatting libraries
// directly, so quantities read the same everywhere: comma-grouped
// counts, SI and IEC byte sizes, prefix-scaled rates, and durations
// trimmed to a precision worth reading.
//
// Everything here is for display. Nothing in this package is meant
// to be parsed back.
package numfmt
