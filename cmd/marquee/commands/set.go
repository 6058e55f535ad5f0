// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/marquee/cmd/marquee/cli"
	"github.com/bureau-foundation/marquee/lib/control"
	"github.com/bureau-foundation/marquee/overlay"
)

type setParams struct {
	DaemonConnection
	cli.JSONOutput
}

func setCommand(env Environment) *cli.Command {
	return &cli.Command{
		Name:    "set",
		Summary: "Change the overlay text, size, colors, or position",
		Subcommands: []*cli.Command{
			setTextCommand(env),
			setValueCommand(env, setValue{
				name:    "font-size",
				summary: "Set the text size",
				usage:   "marquee set font-size [flags] <size>",
				description: fmt.Sprintf("Set the text size. Sizes from %g to %g are accepted; 30 and above render bold.",
					overlay.MinFontSize, overlay.MaxFontSize),
				action: control.ActionSetFontSize,
				fields: func(args []string) (map[string]any, error) {
					size, err := strconv.ParseFloat(args[0], 64)
					if err != nil {
						return nil, fmt.Errorf("invalid font size %q", args[0])
					}
					return map[string]any{"size": size}, nil
				},
			}),
			setValueCommand(env, setValue{
				name:        "text-color",
				summary:     "Set the text color",
				usage:       "marquee set text-color [flags] <#RRGGBB|#AARRGGBB>",
				description: "Set the text color. The color persists across daemon restarts.",
				action:      control.ActionSetTextColor,
				fields: func(args []string) (map[string]any, error) {
					if _, err := overlay.ParseARGB(args[0]); err != nil {
						return nil, err
					}
					return map[string]any{"color": args[0]}, nil
				},
			}),
			setValueCommand(env, setValue{
				name:    "opacity",
				summary: "Set the background opacity",
				usage:   "marquee set opacity [flags] <0..1>",
				description: `Set the opacity of the white background behind the text, from 0
(transparent) to 1 (opaque). The opacity persists across daemon
restarts.`,
				action: control.ActionSetBackgroundOpacity,
				fields: func(args []string) (map[string]any, error) {
					opacity, err := strconv.ParseFloat(args[0], 64)
					if err != nil {
						return nil, fmt.Errorf("invalid opacity %q", args[0])
					}
					return map[string]any{"opacity": opacity}, nil
				},
			}),
			setValueCommand(env, setValue{
				name:    "position",
				summary: "Move the overlay",
				usage:   "marquee set position [flags] <x> <y>",
				description: `Move the overlay to an absolute position in pixels from the top-left
corner of the screen. Works whether or not the overlay is locked.`,
				action: control.ActionSetPosition,
				args:   2,
				fields: func(args []string) (map[string]any, error) {
					x, err := strconv.Atoi(args[0])
					if err != nil {
						return nil, fmt.Errorf("invalid x coordinate %q", args[0])
					}
					y, err := strconv.Atoi(args[1])
					if err != nil {
						return nil, fmt.Errorf("invalid y coordinate %q", args[1])
					}
					return map[string]any{"x": x, "y": y}, nil
				},
			}),
		},
	}
}

func setTextCommand(env Environment) *cli.Command {
	var params setParams
	return &cli.Command{
		Name:    "text",
		Summary: "Replace the overlay text",
		Usage:   "marquee set text [flags] [text...]",
		Description: `Replace the overlay text through the control socket, without going
through the TCP listener. With no arguments, or a single "-", the text
is read from stdin. Text longer than 1000 characters is cut short.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("text", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			text, err := messageText(env.Stdin, args)
			if err != nil {
				return err
			}
			response, err := params.call(ctx, control.ActionSetText, map[string]any{"text": text})
			if err != nil {
				return err
			}
			_, err = params.EmitJSON(env.Stdout, response)
			return err
		},
	}
}

// setValue describes a "set" subcommand that takes a fixed number of
// positional arguments and sends one action.
type setValue struct {
	name        string
	summary     string
	usage       string
	description string
	action      string

	// args is the number of positional arguments. Zero means one.
	args   int
	fields func(args []string) (map[string]any, error)
}

func setValueCommand(env Environment, value setValue) *cli.Command {
	var params setParams
	want := max(value.args, 1)
	return &cli.Command{
		Name:        value.name,
		Summary:     value.summary,
		Usage:       value.usage,
		Description: value.description,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams(value.name, &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != want {
				return fmt.Errorf("expected %d positional argument(s), got %d\n\nUsage: %s", want, len(args), value.usage)
			}
			fields, err := value.fields(args)
			if err != nil {
				return err
			}
			response, err := params.call(ctx, value.action, fields)
			if err != nil {
				return err
			}
			_, err = params.EmitJSON(env.Stdout, response)
			return err
		},
	}
}

// lockCommand returns "lock" or "unlock". A locked overlay passes input
// through and cannot be dragged.
func lockCommand(env Environment, locked bool) *cli.Command {
	var params setParams
	name, summary := "unlock", "Allow dragging the overlay"
	if locked {
		name, summary = "lock", "Pin the overlay and pass input through"
	}
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams(name, &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			response, err := params.call(ctx, control.ActionSetLock, map[string]any{"locked": locked})
			if err != nil {
				return err
			}
			_, err = params.EmitJSON(env.Stdout, response)
			return err
		},
	}
}
