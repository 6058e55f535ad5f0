// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/marquee/cmd/marquee/cli"
	"github.com/bureau-foundation/marquee/lib/version"
)

// Environment holds the streams commands read from and write to.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StandardEnvironment is the process's own stdin, stdout and stderr.
func StandardEnvironment() Environment {
	return Environment{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Root returns the marquee command tree.
func Root(env Environment) *cli.Command {
	return &cli.Command{
		Name:       "marquee",
		Summary:    "Send messages to and control a marquee overlay",
		HelpOutput: env.Stderr,
		Description: `marquee sends messages to a marqueed listener and controls the
overlay it draws: listener start and stop, text size, colors, and the
overlay position and lock.`,
		Subcommands: []*cli.Command{
			sendCommand(env),
			statusCommand(env),
			startCommand(env),
			stopCommand(env),
			setCommand(env),
			lockCommand(env, true),
			lockCommand(env, false),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{Description: "Show a two-line message", Command: `printf 'Hello\nWorld\n' | marquee send`},
			{Description: "Start listening on port 9000", Command: "marquee start --port 9000"},
			{Description: "Make the text larger", Command: "marquee set font-size 32"},
		},
	}
}

func versionCommand(env Environment) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(context.Context, []string) error {
			fmt.Fprintf(env.Stdout, "marquee %s\n", version.Full())
			return nil
		},
	}
}
