// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !darwin && !linux

package bench

import (
	"errors"
	"fmt"

	"github.com/plinth-foundation/plinth/lib/alloc"
)

func newBacking(name string) (*alloc.Counting[int64], func() error, error) {
	switch name {
	case "heap":
		return alloc.NewCounting[int64](alloc.Heap[int64]{}), func() error { return nil }, nil

	case "mmap":
		return nil, nil, errors.New("bench: mmap backing requires linux or darwin")
	}
	return nil, nil, fmt.Errorf("bench: unknown allocator %q", name)
}
