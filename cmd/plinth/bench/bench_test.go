// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"testing"
)

// shortConfig returns a config sized for a fast test run.
func shortConfig() *Config {
	cfg := Default()
	cfg.Duration = "150ms"
	cfg.Readers = 2
	cfg.InitialSize = 64
	cfg.MaxSize = 4096
	cfg.VerifyEvery = 4
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunShort(t *testing.T) {
	cfg := shortConfig()
	rep, err := Run(context.Background(), cfg, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if rep.Failed() {
		t.Fatalf("run failed: violations=%d leaked=%d failure=%q",
			rep.Violations, rep.LeakedBuffers, rep.Failure)
	}
	if rep.ReadOps == 0 || rep.WriteOps == 0 || rep.BatchOps == 0 {
		t.Errorf("no work recorded: reads=%d writes=%d batches=%d",
			rep.ReadOps, rep.WriteOps, rep.BatchOps)
	}
	if rep.Verifications == 0 {
		t.Error("no isolation checks ran")
	}
	if rep.Allocs != rep.Frees {
		t.Errorf("allocs %d != frees %d after close", rep.Allocs, rep.Frees)
	}
	if rep.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want > 0", rep.Elapsed)
	}
	if rep.Host == "" || rep.Version == "" || rep.Started == "" {
		t.Errorf("missing run context: host=%q version=%q started=%q",
			rep.Host, rep.Version, rep.Started)
	}
}

func TestRunMmapBacking(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skipf("mmap backing not available on %s", runtime.GOOS)
	}
	cfg := shortConfig()
	cfg.Allocator = "mmap"
	rep, err := Run(context.Background(), cfg, discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Failed() {
		t.Fatalf("run failed: violations=%d leaked=%d failure=%q",
			rep.Violations, rep.LeakedBuffers, rep.Failure)
	}
}

func TestRunUnknownAllocator(t *testing.T) {
	cfg := shortConfig()
	cfg.Allocator = "arena"
	if _, err := Run(context.Background(), cfg, discard()); err == nil {
		t.Fatal("expected error for unknown allocator")
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := Run(ctx, shortConfig(), discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Failed() {
		t.Fatalf("canceled run reported failure: %q", rep.Failure)
	}
	if rep.LeakedBuffers != 0 {
		t.Errorf("LeakedBuffers = %d, want 0", rep.LeakedBuffers)
	}
}

func TestBenchCommandRejectsArgs(t *testing.T) {
	err := Command().Execute(context.Background(), discard(), []string{"extra"})
	if err == nil {
		t.Fatal("expected error for unexpected argument")
	}
	if !strings.Contains(err.Error(), "no arguments") {
		t.Errorf("error %q does not explain the argument problem", err)
	}
}

func TestBenchCommandBadConfigPath(t *testing.T) {
	err := Command().Execute(context.Background(), discard(),
		[]string{"--config", "/nonexistent/bench.yaml"})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
