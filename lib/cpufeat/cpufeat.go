// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package cpufeat

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/klauspost/cpuid/v2"

	"github.com/plinth-foundation/plinth/lib/numfmt"
)

// Profile describes the host CPU. Values are captured once by
// [Detect]; a Profile never changes after construction and is safe
// to copy and share.
type Profile struct {
	// Vendor is the friendly vendor name ("Intel", "AMD") when the
	// CPUID vendor string is recognized, otherwise the raw string.
	Vendor string `json:"vendor"`
	// Brand is the marketing name reported by the CPU, e.g.
	// "AMD EPYC 7763 64-Core Processor". May be empty inside VMs.
	Brand string `json:"brand"`

	PhysicalCores  int `json:"physical_cores"`
	LogicalCores   int `json:"logical_cores"`
	ThreadsPerCore int `json:"threads_per_core"`

	// CacheLine is the line size in bytes; L1D, L2, and L3 are total
	// cache sizes in bytes, zero when the CPU does not report them.
	CacheLine int `json:"cache_line"`
	L1D       int `json:"l1d"`
	L2        int `json:"l2"`
	L3        int `json:"l3"`

	// Features holds the detected subset of the watched feature set,
	// in a fixed order, using cpuid's canonical names ("SSE42",
	// "AESNI", "ASIMD", ...).
	Features []string `json:"features"`

	// Sockets and NUMANodes come from sysfs topology on Linux and
	// are zero on other platforms or when sysfs is unreadable.
	Sockets   int `json:"sockets"`
	NUMANodes int `json:"numa_nodes"`
}

// watched is the feature set this repository branches on. Order here
// is the order features appear in Profile.Features.
var watched = []cpuid.FeatureID{
	cpuid.SSE42,
	cpuid.AVX,
	cpuid.AVX2,
	cpuid.AVX512F,
	cpuid.FMA3,
	cpuid.POPCNT,
	cpuid.AESNI,
	cpuid.SHA,
	cpuid.ASIMD,
	cpuid.SVE,
}

// vendorNames translates raw CPUID vendor strings to the names
// people actually use.
var vendorNames = map[string]string{
	"GenuineIntel": "Intel",
	"AuthenticAMD": "AMD",
	"HygonGenuine": "Hygon",
}

// aliases maps common spellings to cpuid's canonical feature names,
// so Supports("SSE4.2") and Supports("NEON") do what the caller
// means.
var aliases = map[string]string{
	"SSE4.2":   "SSE42",
	"AVX-512F": "AVX512F",
	"AVX512":   "AVX512F",
	"AES":      "AESNI",
	"NEON":     "ASIMD",
}

// Detect queries the host CPU and sysfs topology and returns the
// resulting profile. It never fails: fields the platform cannot
// report are left zero, except LogicalCores which falls back to
// runtime.NumCPU so the count is always usable for sizing worker
// pools.
func Detect() Profile {
	info := &cpuid.CPU

	p := Profile{
		Vendor:         info.VendorString,
		Brand:          strings.TrimSpace(info.BrandName),
		PhysicalCores:  info.PhysicalCores,
		LogicalCores:   info.LogicalCores,
		ThreadsPerCore: info.ThreadsPerCore,
		CacheLine:      info.CacheLine,
	}
	if friendly, ok := vendorNames[p.Vendor]; ok {
		p.Vendor = friendly
	}
	if p.LogicalCores <= 0 {
		p.LogicalCores = runtime.NumCPU()
	}
	if p.PhysicalCores <= 0 {
		p.PhysicalCores = p.LogicalCores
	}
	if info.Cache.L1D > 0 {
		p.L1D = info.Cache.L1D
	}
	if info.Cache.L2 > 0 {
		p.L2 = info.Cache.L2
	}
	if info.Cache.L3 > 0 {
		p.L3 = info.Cache.L3
	}
	for _, id := range watched {
		if info.Supports(id) {
			p.Features = append(p.Features, id.String())
		}
	}
	p.Sockets, p.NUMANodes = probeTopology()
	return p
}

// Supports reports whether every named feature was detected. Names
// are case-insensitive and common spellings ("SSE4.2", "AES",
// "NEON") are accepted alongside cpuid's canonical names. Unknown
// names simply do not match.
func (p Profile) Supports(names ...string) bool {
	for _, name := range names {
		canonical := strings.ToUpper(strings.TrimSpace(name))
		if mapped, ok := aliases[canonical]; ok {
			canonical = mapped
		}
		found := false
		for _, have := range p.Features {
			if have == canonical {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Summary renders the profile as a single line for terminal output.
func (p Profile) Summary() string {
	var b strings.Builder
	brand := p.Brand
	if brand == "" {
		brand = "unknown cpu"
	}
	fmt.Fprintf(&b, "%s (%dc/%dt", brand, p.PhysicalCores, p.LogicalCores)
	if p.Sockets > 1 {
		fmt.Fprintf(&b, ", %d sockets", p.Sockets)
	}
	b.WriteString(")")
	if p.L3 > 0 {
		fmt.Fprintf(&b, ", L3 %s", numfmt.IBytes(uint64(p.L3)))
	}
	if len(p.Features) > 0 {
		fmt.Fprintf(&b, ", %s", strings.Join(p.Features, " "))
	}
	return b.String()
}

// LogValue implements [slog.LogValuer] so a Profile logs as one
// structured group instead of a flat string.
func (p Profile) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("vendor", p.Vendor),
		slog.String("brand", p.Brand),
		slog.Int("physical_cores", p.PhysicalCores),
		slog.Int("logical_cores", p.LogicalCores),
		slog.Int("sockets", p.Sockets),
		slog.Int("numa_nodes", p.NUMANodes),
		slog.String("features", strings.Join(p.Features, ",")),
	)
}
