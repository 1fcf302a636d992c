// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package bench implements the plinth bench and report commands: a
// configurable concurrent workload that drives a copy-on-write array
// with one writer and many snapshot readers, checks the isolation
// and allocation invariants while it runs, and renders the result as
// a summary table or a stored CBOR report.
package bench

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/plinth-foundation/plinth/cmd/plinth/cli"
	"github.com/plinth-foundation/plinth/lib/cowarray"
	"github.com/plinth-foundation/plinth/lib/cpufeat"
	"github.com/plinth-foundation/plinth/lib/version"
)

// Command returns the "bench" command.
func Command() *cli.Command {
	var params struct {
		config    string
		duration  string
		readers   int
		allocator string
		report    string
	}
	return &cli.Command{
		Name:    "bench",
		Summary: "Drive a copy-on-write array under concurrent load",
		Description: `Run a timed workload against a copy-on-write array: a single
writer mutates through facade calls and mutation batches while
concurrent readers pin snapshots and probe them.

While running, the workload checks the properties the array
guarantees. Readers periodically hash a pinned snapshot, yield to
the writer, and hash it again; any difference is a snapshot
isolation violation. All allocations go through a counting
allocator, so the final report can prove every version buffer was
released exactly once. A run that breaks either property exits 1.

Flags override the corresponding config file fields.`,
		Usage: "plinth bench [flags]",
		Examples: []cli.Example{
			{
				Description: "Default 5 second run",
				Command:     "plinth bench",
			},
			{
				Description: "Longer run with more readers, saving a compressed report",
				Command:     "plinth bench --duration 1m --readers 16 --report bench.cbor.zst",
			},
			{
				Description: "Run against mmap-backed storage",
				Command:     "plinth bench --allocator mmap",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
			fs.StringVar(&params.config, "config", "", "config file (YAML, or JSONC by extension)")
			fs.StringVar(&params.duration, "duration", "", "run duration, e.g. 30s")
			fs.IntVar(&params.readers, "readers", 0, "number of concurrent readers")
			fs.StringVar(&params.allocator, "allocator", "", "backing allocator: heap or mmap")
			fs.StringVar(&params.report, "report", "", "write a report to this path (.zst or .lz4 compresses)")
			return fs
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("bench takes no arguments, got %d", len(args))
			}

			cfg := Default()
			if params.config != "" {
				loaded, err := LoadFile(params.config)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if params.duration != "" {
				cfg.Duration = params.duration
			}
			if params.readers > 0 {
				cfg.Readers = params.readers
			}
			if params.allocator != "" {
				cfg.Allocator = params.allocator
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("bench config: %w", err)
			}

			rep, err := Run(ctx, cfg, logger)
			if err != nil {
				return err
			}
			renderReport(os.Stdout, rep)
			if params.report != "" {
				if err := WriteReport(params.report, rep); err != nil {
					return err
				}
				logger.Info("report written", "path", params.report)
			}
			if rep.Failed() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// counters are the shared tallies the workers bump while running.
type counters struct {
	readOps       atomic.Int64
	writeOps      atomic.Int64
	batchOps      atomic.Int64
	verifications atomic.Int64
	violations    atomic.Int64
}

// Run executes the configured workload and returns its report. The
// returned error covers setup failures only; invariant violations
// and worker errors during the run are recorded in the report, which
// callers should check with [Report.Failed].
func Run(ctx context.Context, cfg *Config, logger *slog.Logger) (*Report, error) {
	counter, cleanup, err := newBacking(cfg.Allocator)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	arr, err := cowarray.NewWith(cowarray.Options[int64]{
		Allocator: counter,
		Capacity:  cfg.InitialSize,
	})
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}

	if err := prefill(arr, cfg.InitialSize); err != nil {
		arr.Close()
		return nil, err
	}

	logger.Info("bench starting",
		"duration", cfg.Duration,
		"readers", cfg.Readers,
		"allocator", cfg.Allocator,
		"initial_size", cfg.InitialSize)

	var tallies counters
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, cfg.duration())
	defer cancel()
	group, runCtx := errgroup.WithContext(runCtx)

	for id := range cfg.Readers {
		group.Go(func() error {
			return readLoop(runCtx, arr, cfg, id, &tallies)
		})
	}
	group.Go(func() error {
		return writeLoop(runCtx, arr, cfg, &tallies)
	})

	workerErr := group.Wait()
	elapsed := time.Since(start)
	finalLen := int64(arr.Len())
	if err := arr.Close(); err != nil {
		return nil, fmt.Errorf("bench: close: %w", err)
	}

	stats := counter.Stats()
	rep := &Report{
		Started:       start.UTC().Format(time.RFC3339),
		Elapsed:       elapsed,
		Host:          cpufeat.Detect().Summary(),
		Version:       version.Info(),
		Config:        *cfg,
		ReadOps:       tallies.readOps.Load(),
		WriteOps:      tallies.writeOps.Load(),
		BatchOps:      tallies.batchOps.Load(),
		Verifications: tallies.verifications.Load(),
		Violations:    tallies.violations.Load(),
		FinalLen:      finalLen,
		Allocs:        stats.Allocs,
		Frees:         stats.Frees,
		LeakedBuffers: stats.LiveBuffers,
		PeakElements:  stats.PeakElements,
	}
	if workerErr != nil {
		rep.Failure = workerErr.Error()
		logger.Error("bench run failed", "error", workerErr)
	}
	return rep, nil
}

// prefill brings the array to its starting length in one batch.
func prefill(arr *cowarray.Array[int64], n int) error {
	m, err := arr.Edit()
	if err != nil {
		return fmt.Errorf("bench: prefill: %w", err)
	}
	for i := range n {
		if err := m.PushBack(int64(i)); err != nil {
			m.Discard()
			return fmt.Errorf("bench: prefill: %w", err)
		}
	}
	if err := m.Close(); err != nil {
		return fmt.Errorf("bench: prefill: %w", err)
	}
	return nil
}

// readLoop pins snapshots and probes them until the context ends.
// Every VerifyEvery iterations it runs an isolation check: hash the
// pinned snapshot, yield so the writer can publish, hash again. The
// writer's publishes must never show through an existing pin.
func readLoop(ctx context.Context, arr *cowarray.Array[int64], cfg *Config, id int, tallies *counters) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(id)+1))
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		it, err := arr.Snapshot()
		if err != nil {
			return fmt.Errorf("reader %d: %w", id, err)
		}

		if i%cfg.VerifyEvery == 0 {
			before := digest(it)
			runtime.Gosched()
			after := digest(it)
			tallies.verifications.Add(1)
			if before != after {
				tallies.violations.Add(1)
				it.Close()
				return fmt.Errorf("reader %d: pinned snapshot of %d elements changed", id, it.Len())
			}
		}

		if n := it.Len(); n > 0 {
			for range 8 {
				_ = it.At(rng.IntN(n))
			}
		}
		tallies.readOps.Add(1)
		it.Close()
	}
}

// digest hashes a snapshot's full contents. The cursor is not moved,
// so back-to-back digests of one iterator cover the same range.
func digest(it *cowarray.Iter[int64]) [32]byte {
	h := blake3.New()
	var buf [8]byte
	for _, v := range it.All() {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	var sum [32]byte
	h.Sum(sum[:0])
	return sum
}

// writeLoop churns the array until the context ends. Most writes are
// single facade calls; every BatchEvery iterations it commits a
// WriterBatch-sized mutation batch instead. Growth is bounded by
// trimming from the front once the array exceeds MaxSize.
func writeLoop(ctx context.Context, arr *cowarray.Array[int64], cfg *Config, tallies *counters) error {
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	next := int64(cfg.InitialSize)

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if i%cfg.BatchEvery == 0 {
			if err := writeBatch(arr, cfg, rng, &next); err != nil {
				return err
			}
			tallies.batchOps.Add(1)
			tallies.writeOps.Add(int64(cfg.WriterBatch))
		} else {
			if err := writeOne(arr, rng, &next); err != nil {
				return err
			}
			tallies.writeOps.Add(1)
		}

		if n := arr.Len(); n > cfg.MaxSize {
			if err := arr.DeleteRange(0, n-cfg.MaxSize); err != nil {
				return fmt.Errorf("writer: trim: %w", err)
			}
			tallies.writeOps.Add(1)
		}
	}
}

// writeBatch applies WriterBatch mutations through one mutation
// iterator, so they land as a single published version.
func writeBatch(arr *cowarray.Array[int64], cfg *Config, rng *rand.Rand, next *int64) error {
	m, err := arr.Edit()
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	for range cfg.WriterBatch {
		if n := m.Len(); n > 0 && rng.IntN(4) == 0 {
			m.Seek(rng.IntN(n))
			if err := m.Erase(); err != nil {
				m.Discard()
				return fmt.Errorf("writer: erase: %w", err)
			}
		} else {
			if err := m.PushBack(*next); err != nil {
				m.Discard()
				return fmt.Errorf("writer: push: %w", err)
			}
			*next++
		}
	}
	if err := m.Close(); err != nil {
		return fmt.Errorf("writer: commit: %w", err)
	}
	return nil
}

// writeOne applies a single facade mutation: mostly appends, with
// occasional deletes and overwrites to vary version shapes.
func writeOne(arr *cowarray.Array[int64], rng *rand.Rand, next *int64) error {
	n := arr.Len()
	switch {
	case n > 0 && rng.IntN(8) == 0:
		if err := arr.Delete(rng.IntN(n)); err != nil {
			return fmt.Errorf("writer: delete: %w", err)
		}
	case n > 0 && rng.IntN(8) == 0:
		if err := arr.Set(rng.IntN(n), -*next); err != nil {
			return fmt.Errorf("writer: set: %w", err)
		}
		*next++
	default:
		if err := arr.PushBack(*next); err != nil {
			return fmt.Errorf("writer: push: %w", err)
		}
		*next++
	}
	return nil
}
