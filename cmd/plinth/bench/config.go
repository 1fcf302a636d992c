// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config controls a bench run. Values are loaded from a YAML file
// over [Default], then individual fields may be overridden by flags.
type Config struct {
	// Duration is the target wall time of the run, in Go duration
	// syntax ("5s", "2m").
	Duration string `yaml:"duration" json:"duration" cbor:"duration"`

	// Readers is the number of concurrent snapshot readers.
	Readers int `yaml:"readers" json:"readers" cbor:"readers"`

	// WriterBatch is the number of mutations grouped into each
	// mutation-iterator batch. Between batches the writer mutates
	// through single facade operations.
	WriterBatch int `yaml:"writer_batch" json:"writer_batch" cbor:"writer_batch"`

	// BatchEvery selects how often the writer uses a batch instead
	// of a single operation: every Nth write.
	BatchEvery int `yaml:"batch_every" json:"batch_every" cbor:"batch_every"`

	// InitialSize is the element count the array is filled to before
	// the clock starts.
	InitialSize int `yaml:"initial_size" json:"initial_size" cbor:"initial_size"`

	// MaxSize bounds array growth; the writer trims from the front
	// when the array exceeds it.
	MaxSize int `yaml:"max_size" json:"max_size" cbor:"max_size"`

	// Allocator selects the backing allocator: "heap" or "mmap".
	// Either way allocations are counted, so the report can prove
	// every buffer was released exactly once.
	Allocator string `yaml:"allocator" json:"allocator" cbor:"allocator"`

	// VerifyEvery makes each reader re-hash a pinned snapshot every
	// Nth iteration to check it has not changed underneath it.
	VerifyEvery int `yaml:"verify_every" json:"verify_every" cbor:"verify_every"`

	// Seed feeds the per-worker random number generators, so a run
	// can be reproduced.
	Seed uint64 `yaml:"seed" json:"seed" cbor:"seed"`
}

// allocatorValues are the accepted Allocator settings.
var allocatorValues = []string{"heap", "mmap"}

// Default returns the default bench configuration: a short run sized
// to be meaningful on a laptop without tying it up.
func Default() *Config {
	return &Config{
		Duration:    "5s",
		Readers:     4,
		WriterBatch: 16,
		BatchEvery:  8,
		InitialSize: 1024,
		MaxSize:     1 << 16,
		Allocator:   "heap",
		VerifyEvery: 64,
		Seed:        1,
	}
}

// LoadFile loads configuration from a file, merging over the
// defaults: fields absent from the file keep their default values.
// The format follows the extension: .json and .jsonc files are JSON
// extended with // comments, /* block comments */, and trailing
// commas; anything else is YAML.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench config: %w", err)
	}
	switch filepath.Ext(path) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("bench config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("bench config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks the configuration for errors, reporting all of
// them at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := time.ParseDuration(c.Duration); err != nil {
		errs = append(errs, fmt.Errorf("duration %q: %w", c.Duration, err))
	}
	if c.Readers < 1 {
		errs = append(errs, fmt.Errorf("readers must be at least 1, got %d", c.Readers))
	}
	if c.WriterBatch < 1 {
		errs = append(errs, fmt.Errorf("writer_batch must be at least 1, got %d", c.WriterBatch))
	}
	if c.BatchEvery < 1 {
		errs = append(errs, fmt.Errorf("batch_every must be at least 1, got %d", c.BatchEvery))
	}
	if c.InitialSize < 0 {
		errs = append(errs, fmt.Errorf("initial_size must not be negative, got %d", c.InitialSize))
	}
	if c.MaxSize < c.InitialSize {
		errs = append(errs, fmt.Errorf("max_size %d is below initial_size %d", c.MaxSize, c.InitialSize))
	}
	if !validAllocator(c.Allocator) {
		errs = append(errs, fmt.Errorf("allocator must be one of %v, got %q", allocatorValues, c.Allocator))
	}
	if c.VerifyEvery < 1 {
		errs = append(errs, fmt.Errorf("verify_every must be at least 1, got %d", c.VerifyEvery))
	}

	return errors.Join(errs...)
}

// duration returns the parsed Duration. Call only after Validate.
func (c *Config) duration() time.Duration {
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		panic("bench: duration not validated: " + err.Error())
	}
	return d
}

func validAllocator(name string) bool {
	for _, v := range allocatorValues {
		if v == name {
			return true
		}
	}
	return false
}
