// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package dynlink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// ErrClosed is returned by operations on a closed [Library].
var ErrClosed = errors.New("dynlink: library closed")

// Library is an open shared library. It is safe for concurrent use;
// Close releases the dlopen handle and fails all later calls with
// [ErrClosed].
type Library struct {
	path string

	mu     sync.Mutex
	handle uintptr
	closed bool
}

// Open loads the shared library at path with immediate binding.
// Paths without a slash are resolved through the platform's default
// search order, so "libc.so.6" works without knowing the multiarch
// directory.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dynlink: open %s: %w", path, err)
	}
	return &Library{path: path, handle: handle}, nil
}

// OpenAny tries each candidate path in order and returns the first
// library that opens. The error on total failure carries every
// per-path failure.
func OpenAny(paths ...string) (*Library, error) {
	if len(paths) == 0 {
		return nil, errors.New("dynlink: no library paths given")
	}
	var errs []error
	for _, path := range paths {
		lib, err := Open(path)
		if err == nil {
			return lib, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// Path returns the path the library was opened with.
func (l *Library) Path() string {
	return l.path
}

// Lookup resolves a symbol and returns its address. The address
// stays valid until Close.
func (l *Library) Lookup(symbol string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, fmt.Errorf("dynlink: lookup %q in %s: %w", symbol, l.path, ErrClosed)
	}
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return 0, fmt.Errorf("dynlink: lookup %q in %s: %w", symbol, l.path, err)
	}
	return addr, nil
}

// Close releases the library handle. Symbol addresses resolved from
// it must not be used afterwards. A second Close returns [ErrClosed].
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("dynlink: close %s: %w", l.path, ErrClosed)
	}
	l.closed = true
	if err := purego.Dlclose(l.handle); err != nil {
		return fmt.Errorf("dynlink: close %s: %w", l.path, err)
	}
	return nil
}
