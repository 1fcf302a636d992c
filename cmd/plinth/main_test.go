// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/plinth-foundation/plinth/cmd/plinth/cli"
)

// TestCommandTree checks structural invariants of the assembled
// tree: names are unique within each level, every command is
// runnable or dispatches further, and help text is present.
func TestCommandTree(t *testing.T) {
	var walk func(t *testing.T, path string, cmds []*cli.Command)
	walk = func(t *testing.T, path string, cmds []*cli.Command) {
		seen := make(map[string]bool)
		for _, c := range cmds {
			full := path + " " + c.Name
			if c.Name == "" {
				t.Errorf("%s: command with empty name", path)
				continue
			}
			if seen[c.Name] {
				t.Errorf("%s: duplicate command name %q", path, c.Name)
			}
			seen[c.Name] = true
			if c.Summary == "" {
				t.Errorf("%s: missing summary", full)
			}
			if c.Run == nil && len(c.Subcommands) == 0 {
				t.Errorf("%s: neither runnable nor a dispatcher", full)
			}
			walk(t, full, c.Subcommands)
		}
	}

	root := rootCommand()
	if root.Description == "" {
		t.Error("root command has no description")
	}
	walk(t, root.Name, root.Subcommands)
}

func TestUnknownCommandSuggests(t *testing.T) {
	err := rootCommand().Execute(context.Background(), slog.New(slog.DiscardHandler), []string{"bnech"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "bench") {
		t.Errorf("error %q does not suggest bench", err)
	}
}
