// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, "bench.yaml", "duration: 30s\nreaders: 16\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Duration != "30s" {
		t.Errorf("Duration = %q, want %q", cfg.Duration, "30s")
	}
	if cfg.Readers != 16 {
		t.Errorf("Readers = %d, want 16", cfg.Readers)
	}

	// Fields absent from the file keep their defaults.
	def := Default()
	if cfg.WriterBatch != def.WriterBatch {
		t.Errorf("WriterBatch = %d, want default %d", cfg.WriterBatch, def.WriterBatch)
	}
	if cfg.Allocator != def.Allocator {
		t.Errorf("Allocator = %q, want default %q", cfg.Allocator, def.Allocator)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "bench.jsonc", `{
	// Nightly soak settings.
	"duration": "2m",
	"readers": 8,
	"allocator": "mmap", /* heap is the default */
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Duration != "2m" || cfg.Readers != 8 || cfg.Allocator != "mmap" {
		t.Errorf("got %q/%d/%q, want 2m/8/mmap", cfg.Duration, cfg.Readers, cfg.Allocator)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		mention string
	}{
		{"bad duration", func(c *Config) { c.Duration = "fast" }, "duration"},
		{"zero readers", func(c *Config) { c.Readers = 0 }, "readers"},
		{"zero batch", func(c *Config) { c.WriterBatch = 0 }, "writer_batch"},
		{"zero batch cadence", func(c *Config) { c.BatchEvery = 0 }, "batch_every"},
		{"negative initial size", func(c *Config) { c.InitialSize = -1 }, "initial_size"},
		{"max below initial", func(c *Config) { c.MaxSize = 10; c.InitialSize = 100 }, "max_size"},
		{"unknown allocator", func(c *Config) { c.Allocator = "arena" }, "allocator"},
		{"zero verify cadence", func(c *Config) { c.VerifyEvery = 0 }, "verify_every"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error %q does not mention %q", err, tt.mention)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Duration = "soon"
	cfg.Readers = -3
	cfg.Allocator = "disk"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, mention := range []string{"duration", "readers", "allocator"} {
		if !strings.Contains(err.Error(), mention) {
			t.Errorf("error %q does not mention %q", err, mention)
		}
	}
}
