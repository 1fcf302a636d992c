// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cpufeat

import (
	"os"
	"path/filepath"
	"strings"
)

// probeTopology reads socket and NUMA node counts from sysfs.
func probeTopology() (sockets, numaNodes int) {
	return probeTopologyFrom("/sys")
}

// probeTopologyFrom is the testable implementation of probeTopology.
// It accepts a root path for /sys so tests can point at synthetic
// filesystems. Missing or unreadable files produce zero counts, not
// errors.
func probeTopologyFrom(sysRoot string) (sockets, numaNodes int) {
	return countUniquePackageIDs(filepath.Join(sysRoot, "devices/system/cpu")),
		countNUMANodes(filepath.Join(sysRoot, "devices/system/node"))
}

// countUniquePackageIDs counts distinct physical_package_id values
// across all cpuN directories. Each distinct value is one socket.
func countUniquePackageIDs(cpuBase string) int {
	entries, err := os.ReadDir(cpuBase)
	if err != nil {
		return 0
	}

	unique := make(map[string]struct{})
	for _, entry := range entries {
		name := entry.Name()
		if !isCPUDir(name) {
			continue
		}
		value := readSysfsString(filepath.Join(cpuBase, name, "topology/physical_package_id"))
		if value != "" {
			unique[value] = struct{}{}
		}
	}
	return len(unique)
}

// countNUMANodes counts node* directories under the NUMA node base.
func countNUMANodes(nodeBase string) int {
	entries, err := os.ReadDir(nodeBase)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "node") {
			continue
		}
		suffix := entry.Name()[4:]
		if len(suffix) > 0 && suffix[0] >= '0' && suffix[0] <= '9' {
			count++
		}
	}
	return count
}

// isCPUDir reports whether name is a cpuN directory, filtering out
// siblings like cpufreq and cpuidle.
func isCPUDir(name string) bool {
	if !strings.HasPrefix(name, "cpu") {
		return false
	}
	suffix := name[3:]
	return len(suffix) > 0 && suffix[0] >= '0' && suffix[0] <= '9'
}

// readSysfsString reads a single-line sysfs file and returns its
// trimmed contents, or "" if the file is missing or unreadable.
func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
