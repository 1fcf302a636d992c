// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package alloc

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/plinth-foundation/plinth/lib/typename"
)

// Mmap allocates element buffers from anonymous mmap regions outside
// the Go heap. The garbage collector never scans or moves these
// buffers, so the element type must be pointer-free (see
// typename.PointerFree) and must have a non-zero size.
//
// Free unmaps the region immediately. Any later access to the buffer
// faults instead of reading stale memory, which makes Mmap the
// allocator of choice for validating buffer-lifetime protocols.
type Mmap[T any] struct {
	mu      sync.Mutex
	regions map[uintptr][]byte // buffer base address to mmap region
}

// NewMmap returns an mmap-backed allocator for T. It fails if T
// contains pointers or has zero size.
func NewMmap[T any]() (*Mmap[T], error) {
	if !typename.PointerFree[T]() {
		return nil, fmt.Errorf("alloc: mmap allocator requires a pointer-free element type, %s contains pointers", typename.Name[T]())
	}
	if typename.SizeOf[T]() == 0 {
		return nil, fmt.Errorf("alloc: mmap allocator requires a non-zero-size element type, %s has size 0", typename.Name[T]())
	}
	return &Mmap[T]{regions: make(map[uintptr][]byte)}, nil
}

// Alloc maps an anonymous region large enough for n elements and
// returns it as a zeroed buffer. The kernel supplies zero pages, so
// no explicit clear is needed.
func (m *Mmap[T]) Alloc(n int) ([]T, error) {
	if n < 0 {
		panic(fmt.Sprintf("alloc: negative buffer size %d", n))
	}
	if n == 0 {
		return nil, nil
	}
	elemSize := int(typename.SizeOf[T]())
	if n > math.MaxInt/elemSize {
		return nil, fmt.Errorf("alloc: %d elements of %d bytes overflows: %w", n, elemSize, ErrOutOfMemory)
	}
	data, err := unix.Mmap(-1, 0, n*elemSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("alloc: mmap %d bytes: %w: %w", n*elemSize, ErrOutOfMemory, err)
	}
	base := unsafe.Pointer(unsafe.SliceData(data))
	buf := unsafe.Slice((*T)(base), n)

	m.mu.Lock()
	m.regions[uintptr(base)] = data
	m.mu.Unlock()
	return buf, nil
}

// Free unmaps the region backing buf. buf must have been returned by
// Alloc on this allocator and must not be accessed afterwards; reads
// or writes through a freed buffer fault.
func (m *Mmap[T]) Free(buf []T) {
	if buf == nil {
		return
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	m.mu.Lock()
	data, ok := m.regions[base]
	delete(m.regions, base)
	m.mu.Unlock()

	if !ok {
		panic("alloc: free of a buffer this allocator did not allocate")
	}
	// Munmap fails only for an invalid region, which the registry
	// rules out.
	_ = unix.Munmap(data)
}

// Live returns the number of buffers currently mapped.
func (m *Mmap[T]) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regions)
}

// Close unmaps any buffers still outstanding and reports how many
// there were. A non-nil error therefore means the owner leaked
// buffers. The allocator must not be used after Close.
func (m *Mmap[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	leaked := len(m.regions)
	for base, data := range m.regions {
		_ = unix.Munmap(data)
		delete(m.regions, base)
	}
	if leaked > 0 {
		return fmt.Errorf("alloc: %d buffers still mapped at close", leaked)
	}
	return nil
}
