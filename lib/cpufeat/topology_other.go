// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package cpufeat

// probeTopology has no portable source outside Linux sysfs; the
// profile reports zero sockets and NUMA nodes elsewhere.
func probeTopology() (sockets, numaNodes int) {
	return 0, 0
}
