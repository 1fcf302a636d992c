// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package bench

import (
	"fmt"

	"github.com/plinth-foundation/plinth/lib/alloc"
)

// newBacking builds the counting allocator for the configured
// backing and a cleanup for any OS resources behind it. The cleanup
// is never nil.
func newBacking(name string) (*alloc.Counting[int64], func() error, error) {
	switch name {
	case "heap":
		return alloc.NewCounting[int64](alloc.Heap[int64]{}), func() error { return nil }, nil

	case "mmap":
		mm, err := alloc.NewMmap[int64]()
		if err != nil {
			return nil, nil, fmt.Errorf("bench: mmap backing: %w", err)
		}
		return alloc.NewCounting[int64](mm), mm.Close, nil
	}
	return nil, nil, fmt.Errorf("bench: unknown allocator %q", name)
}
