// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "fmt"

// Ints returns the sequence 0, 1, ..., n-1.
func Ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Strings returns n distinct, ordered strings ("item-000",
// "item-001", ...).
func Strings(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%03d", i)
	}
	return out
}
