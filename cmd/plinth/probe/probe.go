// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package probe implements the plinth probe command, which reports
// the environment an array workload would run in: CPU topology and
// features, the calling account, and the Go runtime.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/plinth-foundation/plinth/cmd/plinth/cli"
	"github.com/plinth-foundation/plinth/lib/account"
	"github.com/plinth-foundation/plinth/lib/cpufeat"
	"github.com/plinth-foundation/plinth/lib/numfmt"
	"github.com/plinth-foundation/plinth/lib/version"
)

// hostReport is the probe result. The JSON form is the --json
// output.
type hostReport struct {
	CPU        cpufeat.Profile  `json:"cpu"`
	Account    *account.Account `json:"account,omitempty"`
	Hostname   string           `json:"hostname,omitempty"`
	OS         string           `json:"os"`
	Arch       string           `json:"arch"`
	GoVersion  string           `json:"go_version"`
	GoMaxProcs int              `json:"gomaxprocs"`
	PageSize   int              `json:"page_size"`
	Version    string           `json:"version"`
}

// buildReport gathers everything probe reports. Account resolution
// can fail in minimal containers; that is logged and the field left
// empty rather than failing the probe.
func buildReport(logger *slog.Logger) hostReport {
	r := hostReport{
		CPU:        cpufeat.Detect(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		GoVersion:  runtime.Version(),
		GoMaxProcs: runtime.GOMAXPROCS(0),
		PageSize:   os.Getpagesize(),
		Version:    version.Info(),
	}
	logger.Debug("host probed", "cpu", r.CPU)

	if hostname, err := os.Hostname(); err == nil {
		r.Hostname = hostname
	}
	acct, err := account.Current()
	if err != nil {
		logger.Warn("account resolution failed", "error", err)
	} else {
		r.Account = &acct
	}
	return r
}

// render writes the human-readable table. Rows whose value the
// platform could not supply are left out rather than printed empty.
func render(w io.Writer, r hostReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "cpu\t%s\n", r.CPU.Summary())
	fmt.Fprintf(tw, "cores\t%d physical, %d logical\n", r.CPU.PhysicalCores, r.CPU.LogicalCores)
	if r.CPU.CacheLine > 0 {
		fmt.Fprintf(tw, "cache line\t%d B\n", r.CPU.CacheLine)
	}
	if r.CPU.L1D > 0 || r.CPU.L2 > 0 || r.CPU.L3 > 0 {
		fmt.Fprintf(tw, "caches\tL1d %s, L2 %s, L3 %s\n",
			numfmt.IBytes(uint64(r.CPU.L1D)),
			numfmt.IBytes(uint64(r.CPU.L2)),
			numfmt.IBytes(uint64(r.CPU.L3)))
	}
	if len(r.CPU.Features) > 0 {
		fmt.Fprintf(tw, "features\t%s\n", strings.Join(r.CPU.Features, " "))
	}
	if r.CPU.Sockets > 0 {
		fmt.Fprintf(tw, "topology\t%d sockets, %d NUMA nodes\n", r.CPU.Sockets, r.CPU.NUMANodes)
	}
	if r.Account != nil {
		fmt.Fprintf(tw, "account\t%s\n", r.Account)
	}
	if r.Hostname != "" {
		fmt.Fprintf(tw, "host\t%s\n", r.Hostname)
	}
	fmt.Fprintf(tw, "platform\t%s/%s\n", r.OS, r.Arch)
	fmt.Fprintf(tw, "runtime\t%s, GOMAXPROCS %d\n", r.GoVersion, r.GoMaxProcs)
	fmt.Fprintf(tw, "page size\t%s\n", numfmt.IBytes(uint64(r.PageSize)))
	fmt.Fprintf(tw, "version\t%s\n", r.Version)

	tw.Flush()
}

// Command returns the "probe" command.
func Command() *cli.Command {
	var params struct {
		json bool
	}
	return &cli.Command{
		Name:    "probe",
		Summary: "Report the host CPU, account, and runtime environment",
		Description: `Probe the host and print what an array workload has to work with:
CPU vendor, core and cache topology, the SIMD feature set, the
calling account, and the Go runtime configuration.

All probing is best effort. Fields the platform cannot report are
omitted instead of failing the command.`,
		Usage: "plinth probe [flags]",
		Examples: []cli.Example{
			{
				Description: "Human-readable host summary",
				Command:     "plinth probe",
			},
			{
				Description: "Machine-readable output for scripts",
				Command:     "plinth probe --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("probe", pflag.ContinueOnError)
			fs.BoolVar(&params.json, "json", false, "machine-readable JSON output")
			return fs
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 0 {
				return fmt.Errorf("probe takes no arguments, got %d", len(args))
			}
			r := buildReport(logger)
			if params.json {
				return cli.WriteJSON(r)
			}
			render(os.Stdout, r)
			return nil
		},
	}
}
