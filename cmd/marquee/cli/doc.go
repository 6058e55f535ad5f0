// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the marquee CLI.
//
// A [Command] has a name, help text, an optional [pflag.FlagSet]
// factory, and either a Run function or nested subcommands.
// [Command.Execute] routes positional arguments to subcommands, parses
// flags, and prints structured help. Unknown commands and flags get a
// "did you mean" suggestion when a known name is within edit distance
// 3.
//
// Flag sets are usually generated from a tagged params struct with
// [FlagsFromParams]; commands that support machine-readable output
// embed [JSONOutput].
package cli
