// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package numfmt

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Count formats an integer with comma grouping: 1234567 becomes
// "1,234,567".
func Count(n int64) string {
	return humanize.Comma(n)
}

// Bytes formats a byte count with SI units: 1500 becomes "1.5 kB".
func Bytes(n uint64) string {
	return humanize.Bytes(n)
}

// IBytes formats a byte count with IEC units: 1536 becomes "1.5 KiB".
func IBytes(n uint64) string {
	return humanize.IBytes(n)
}

// Rate formats n events over elapsed as a per-second rate with an SI
// prefix: "1.2 Mops/s". Elapsed durations of zero or less format as
// "n/a" rather than dividing by zero.
func Rate(n int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "n/a"
	}
	perSec := float64(n) / elapsed.Seconds()
	return humanize.SIWithDigits(perSec, 1, "ops/s")
}

// SI formats v with a metric prefix and the given unit: SI(0.00212,
// "s") becomes "2.12 ms".
func SI(v float64, unit string) string {
	return humanize.SI(v, unit)
}

// Duration formats d trimmed to a precision worth reading at its
// scale: "1.23s" instead of "1.234567891s".
func Duration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		d = d.Round(time.Second)
	case d >= time.Second:
		d = d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		d = d.Round(10 * time.Microsecond)
	case d >= time.Microsecond:
		d = d.Round(10 * time.Nanosecond)
	}
	return d.String()
}

// Quote returns s as a double-quoted Go string literal.
func Quote(s string) string {
	return strconv.Quote(s)
}

// Ellipsis shortens s to at most max runes, marking any truncation
// with a trailing "...". Strings within the limit come back
// unchanged.
func Ellipsis(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return "..."[:max]
	}
	return string(runes[:max-3]) + "..."
}
