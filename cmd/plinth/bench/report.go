// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package bench

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/pflag"

	"github.com/plinth-foundation/plinth/cmd/plinth/cli"
	"github.com/plinth-foundation/plinth/lib/codec"
	"github.com/plinth-foundation/plinth/lib/numfmt"
)

// Report is the machine-readable result of a bench run. Reports are
// stored CBOR-encoded; the deterministic encoding makes two runs
// with identical results byte-identical on disk.
type Report struct {
	// Started is the wall-clock start of the run, RFC 3339, UTC.
	Started string `cbor:"started"`

	// Elapsed is the measured wall time of the run.
	Elapsed time.Duration `cbor:"elapsed_ns"`

	// Host is a one-line description of the machine the run
	// executed on.
	Host string `cbor:"host"`

	// Version is the plinth version that produced the report.
	Version string `cbor:"version"`

	// Config is the effective configuration after file loading and
	// flag overrides.
	Config Config `cbor:"config"`

	ReadOps  int64 `cbor:"read_ops"`
	WriteOps int64 `cbor:"write_ops"`
	BatchOps int64 `cbor:"batch_ops"`

	// Verifications counts snapshot-isolation checks: a reader
	// hashing a pinned snapshot twice with writer churn in between.
	// Violations counts the checks where the two hashes differed.
	Verifications int64 `cbor:"verifications"`
	Violations    int64 `cbor:"violations"`

	// FinalLen is the array length when the clock ran out.
	FinalLen int64 `cbor:"final_len"`

	// Allocation accounting over the whole run. LeakedBuffers must
	// be zero: every version buffer released exactly once.
	Allocs        int64 `cbor:"allocs"`
	Frees         int64 `cbor:"frees"`
	LeakedBuffers int64 `cbor:"leaked_buffers"`
	PeakElements  int64 `cbor:"peak_elements"`

	// Failure carries the first worker error, empty on a clean run.
	Failure string `cbor:"failure,omitempty"`
}

// Failed reports whether the run violated an invariant the bench
// checks for: snapshot isolation, exactly-once buffer release, or a
// worker error.
func (r *Report) Failed() bool {
	return r.Violations > 0 || r.LeakedBuffers != 0 || r.Failure != ""
}

// renderReport writes the human-readable summary table.
func renderReport(w io.Writer, r *Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "started\t%s\n", r.Started)
	fmt.Fprintf(tw, "elapsed\t%s\n", numfmt.Duration(r.Elapsed))
	fmt.Fprintf(tw, "host\t%s\n", r.Host)
	fmt.Fprintf(tw, "version\t%s\n", r.Version)
	fmt.Fprintf(tw, "readers\t%d\n", r.Config.Readers)
	fmt.Fprintf(tw, "allocator\t%s\n", r.Config.Allocator)
	fmt.Fprintf(tw, "read ops\t%s (%s)\n", numfmt.Count(r.ReadOps), numfmt.Rate(r.ReadOps, r.Elapsed))
	fmt.Fprintf(tw, "write ops\t%s (%s)\n", numfmt.Count(r.WriteOps), numfmt.Rate(r.WriteOps, r.Elapsed))
	fmt.Fprintf(tw, "batches\t%s\n", numfmt.Count(r.BatchOps))
	fmt.Fprintf(tw, "verifications\t%s\n", numfmt.Count(r.Verifications))
	fmt.Fprintf(tw, "violations\t%d\n", r.Violations)
	fmt.Fprintf(tw, "final length\t%s\n", numfmt.Count(r.FinalLen))
	fmt.Fprintf(tw, "allocations\t%s allocated, %s freed, %d leaked\n",
		numfmt.Count(r.Allocs), numfmt.Count(r.Frees), r.LeakedBuffers)
	fmt.Fprintf(tw, "peak elements\t%s\n", numfmt.Count(r.PeakElements))
	if r.Failure != "" {
		fmt.Fprintf(tw, "failure\t%s\n", r.Failure)
	}
	tw.Flush()
}

// Compression is selected by file extension: ".zst" uses zstd,
// ".lz4" uses an LZ4 block prefixed with the uncompressed size (LZ4
// block decompression needs the exact output size up front), and
// anything else stores raw CBOR.

// reportEncoder and reportDecoder are reused across calls; both are
// safe for concurrent use.
var (
	reportEncoder *zstd.Encoder
	reportDecoder *zstd.Decoder
)

func init() {
	var err error
	reportEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("bench: zstd encoder initialization failed: " + err.Error())
	}
	reportDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("bench: zstd decoder initialization failed: " + err.Error())
	}
}

// lz4SizePrefix is the length of the uncompressed-size header on
// .lz4 report files.
const lz4SizePrefix = 8

// WriteReport stores a report at path.
func WriteReport(path string, r *Report) error {
	data, err := codec.Marshal(r)
	if err != nil {
		return fmt.Errorf("bench report: encode: %w", err)
	}

	switch filepath.Ext(path) {
	case ".zst":
		data = reportEncoder.EncodeAll(data, nil)

	case ".lz4":
		framed := make([]byte, lz4SizePrefix+lz4.CompressBlockBound(len(data)))
		binary.LittleEndian.PutUint64(framed, uint64(len(data)))
		written, err := lz4.CompressBlock(data, framed[lz4SizePrefix:], nil)
		if err != nil {
			return fmt.Errorf("bench report: lz4 compress: %w", err)
		}
		if written == 0 {
			// Incompressible. CBOR reports are tiny; store the
			// block uncompressed rather than inventing a second
			// framing. A zero size prefix marks it.
			binary.LittleEndian.PutUint64(framed, 0)
			framed = append(framed[:lz4SizePrefix], data...)
			written = len(data)
		}
		data = framed[:lz4SizePrefix+written]
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("bench report: %w", err)
	}
	return nil
}

// reportBytes reads a report file and undoes any compression,
// returning the raw CBOR.
func reportBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bench report: %w", err)
	}

	switch filepath.Ext(path) {
	case ".zst":
		decoded, err := reportDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("bench report %s: zstd decompress: %w", path, err)
		}
		return decoded, nil

	case ".lz4":
		if len(data) < lz4SizePrefix {
			return nil, fmt.Errorf("bench report %s: truncated lz4 header", path)
		}
		size := binary.LittleEndian.Uint64(data)
		block := data[lz4SizePrefix:]
		if size == 0 {
			return block, nil
		}
		decoded := make([]byte, size)
		read, err := lz4.UncompressBlock(block, decoded)
		if err != nil {
			return nil, fmt.Errorf("bench report %s: lz4 decompress: %w", path, err)
		}
		if uint64(read) != size {
			return nil, fmt.Errorf("bench report %s: got %d bytes, expected %d", path, read, size)
		}
		return decoded, nil
	}

	return data, nil
}

// ReadReport loads a report stored by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := reportBytes(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := codec.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("bench report %s: decode: %w", path, err)
	}
	return &r, nil
}

// ReportCommand returns the "report" command, which renders a stored
// bench report.
func ReportCommand() *cli.Command {
	var params struct {
		diag bool
	}
	return &cli.Command{
		Name:    "report",
		Summary: "Render a stored bench report",
		Description: `Render a report written by 'plinth bench --report'.

The default output is the same summary table bench prints at the end
of a run. With --diag the raw report is printed in CBOR diagnostic
notation instead, which shows every stored field without needing the
schema.`,
		Usage: "plinth report [flags] <path>",
		Examples: []cli.Example{
			{
				Description: "Render a stored report",
				Command:     "plinth report bench.cbor.zst",
			},
			{
				Description: "Inspect the raw fields",
				Command:     "plinth report --diag bench.cbor.zst",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
			fs.BoolVar(&params.diag, "diag", false, "print CBOR diagnostic notation instead of the summary table")
			return fs
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("report takes exactly one path, got %d arguments", len(args))
			}
			if params.diag {
				data, err := reportBytes(args[0])
				if err != nil {
					return err
				}
				diag, err := codec.Diagnose(data)
				if err != nil {
					return fmt.Errorf("bench report %s: %w", args[0], err)
				}
				fmt.Println(diag)
				return nil
			}
			r, err := ReadReport(args[0])
			if err != nil {
				return err
			}
			renderReport(os.Stdout, r)
			if r.Failed() {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
