// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/plinth-foundation/plinth/cmd/plinth/bench"
	"github.com/plinth-foundation/plinth/cmd/plinth/cli"
	"github.com/plinth-foundation/plinth/cmd/plinth/probe"
	"github.com/plinth-foundation/plinth/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like bench) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCommand().Execute(ctx, cli.NewLogger(), os.Args[1:])
}

// rootCommand builds the plinth command tree.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "plinth",
		Description: `Plinth: a copy-on-write dynamic array library.

Readers pin immutable snapshots while a writer publishes new
versions; this CLI probes the host the library would run on and
exercises those guarantees under load.`,
		Subcommands: []*cli.Command{
			probe.Command(),
			bench.Command(),
			bench.ReportCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("plinth %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "See what the host CPU offers",
				Command:     "plinth probe",
			},
			{
				Description: "Default 5 second bench run",
				Command:     "plinth bench",
			},
			{
				Description: "Soak for a minute and keep the report",
				Command:     "plinth bench --duration 1m --report soak.cbor.zst",
			},
			{
				Description: "Render the stored report",
				Command:     "plinth report soak.cbor.zst",
			},
		},
	}
}
