// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the plinth
// tool.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. Commands are assembled into a tree in cmd/plinth and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples. The
// process context and logger are created once by main and threaded
// through dispatch to every Run function.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// [NewLogger] builds the slog logger commands receive: text output
// on a terminal, JSON when stderr is piped. [ExitError] lets a
// command that already printed its own report exit non-zero without
// a redundant error line.
package cli
