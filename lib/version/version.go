// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the version of a plinth binary.
//
// Release builds inject the fields with -ldflags:
//
//	go build -ldflags "-X github.com/plinth-foundation/plinth/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When nothing was injected, the package falls back to the VCS stamps
// the Go toolchain embeds in the binary, so plain `go install` builds
// still report a commit.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Set via -ldflags at build time. Version is bumped manually for
// releases.
var (
	GitCommit = ""
	GitDirty  = ""
	BuildTime = ""
	Version   = "0.1.0-dev"
)

// fill backstops un-injected fields with the binary's embedded VCS
// stamps. Injected values always win.
var fill = sync.OnceFunc(func() {
	if GitCommit != "" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			GitCommit = s.Value
			if len(GitCommit) > 12 {
				GitCommit = GitCommit[:12]
			}
		case "vcs.modified":
			GitDirty = s.Value
		case "vcs.time":
			BuildTime = s.Value
		}
	}
})

// Info returns a one-line version string: the semantic version plus
// commit, dirty marker, and build time when known. Stored benchmark
// reports carry this string.
func Info() string {
	fill()
	commit := GitCommit
	if commit == "" {
		commit = "unknown"
	}
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	when := BuildTime
	if when == "" {
		when = "unknown"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, commit, dirty, when)
}

// Full returns [Info] plus the Go toolchain and target platform, for
// `plinth version`.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the semantic version.
func Short() string {
	return Version
}
