// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/marquee/cmd/marquee/cli"
	"github.com/bureau-foundation/marquee/lib/config"
	"github.com/bureau-foundation/marquee/lib/control"
)

type startParams struct {
	DaemonConnection
	cli.JSONOutput
	Port int `flag:"port,p" desc:"TCP port to listen on (default: listener.port from the config file)"`
}

func startCommand(env Environment) *cli.Command {
	var params startParams
	return &cli.Command{
		Name:    "start",
		Summary: "Start the message listener",
		Usage:   "marquee start [flags] [port]",
		Description: `Start the marqueed TCP listener. A running listener is stopped
first, so this also moves the listener to another port.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("start", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			port := params.Port
			switch len(args) {
			case 0:
			case 1:
				parsed, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid port %q", args[0])
				}
				port = parsed
			default:
				return fmt.Errorf("expected at most 1 positional argument, got %d", len(args))
			}
			if port == 0 {
				cfg, err := config.Load(params.ConfigPath)
				if err != nil {
					return err
				}
				port = cfg.Listener.Port
			}

			response, err := params.call(ctx, control.ActionStart, map[string]any{"port": port})
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, response); done {
				return err
			}
			fmt.Fprintln(env.Stdout, response.Status)
			return nil
		},
	}
}

type stopParams struct {
	DaemonConnection
	cli.JSONOutput
}

func stopCommand(env Environment) *cli.Command {
	var params stopParams
	return &cli.Command{
		Name:    "stop",
		Summary: "Stop the message listener",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stop", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			response, err := params.call(ctx, control.ActionStop, nil)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, response); done {
				return err
			}
			fmt.Fprintln(env.Stdout, response.Status)
			return nil
		},
	}
}
