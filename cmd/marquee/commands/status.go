// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/marquee/cmd/marquee/cli"
	"github.com/bureau-foundation/marquee/lib/control"
)

type statusParams struct {
	DaemonConnection
	cli.JSONOutput
	Check bool `flag:"check" desc:"exit with status 1 unless the listener is running"`
}

func statusCommand(env Environment) *cli.Command {
	var params statusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show the listener status and overlay state",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			response, err := params.call(ctx, control.ActionStatus, nil)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, response); done {
				if err == nil && params.Check && !response.Listener.Running {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			printStatus(env.Stdout, response)
			if params.Check && !response.Listener.Running {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// printStatus writes a human-readable summary of response.
func printStatus(w io.Writer, response control.StatusResponse) {
	overlay := response.Overlay
	lock := "unlocked"
	if overlay.Locked {
		lock = "locked"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "listener:\t%s\n", response.Status)
	for i, line := range strings.Split(overlay.Text, "\n") {
		label := ""
		if i == 0 {
			label = "text:"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, line)
	}
	fmt.Fprintf(tw, "font size:\t%g\n", overlay.FontSize)
	fmt.Fprintf(tw, "text color:\t%s\n", overlay.TextColor)
	fmt.Fprintf(tw, "background:\t%.0f%% opaque\n", overlay.BackgroundOpacity*100)
	fmt.Fprintf(tw, "position:\t%d,%d (%s)\n", overlay.Position.X, overlay.Position.Y, lock)
	tw.Flush()
}
