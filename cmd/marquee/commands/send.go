// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/marquee/cmd/marquee/cli"
	"github.com/bureau-foundation/marquee/listener"
)

type sendParams struct {
	Host    string        `flag:"host,H" desc:"listener host" default:"127.0.0.1"`
	Port    int           `flag:"port,p" desc:"listener port" default:"8080"`
	Timeout time.Duration `flag:"timeout" desc:"give up after this long" default:"10s"`
}

func sendCommand(env Environment) *cli.Command {
	var params sendParams
	return &cli.Command{
		Name:    "send",
		Summary: "Send a message to a listener",
		Usage:   "marquee send [flags] [text...]",
		Description: `Send one message to a marqueed listener over TCP.

The arguments are joined with spaces. With no arguments, or a single
"-", the message is read from stdin. Lines are shown in order; blank
lines and surrounding whitespace are dropped by the listener.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("send", &params)
		},
		Examples: []cli.Example{
			{Description: "Send to a phone on the local network", Command: "marquee send --host 192.168.1.20 'Dinner is ready'"},
		},
		Run: func(ctx context.Context, args []string) error {
			text, err := messageText(env.Stdin, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("empty message")
			}
			if err := listener.ValidatePort(params.Port); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, params.Timeout)
			defer cancel()
			return listener.Send(ctx, net.JoinHostPort(params.Host, strconv.Itoa(params.Port)), text)
		},
	}
}

// messageText returns the joined arguments, or stdin when args is
// empty or "-".
func messageText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading message from stdin: %w", err)
	}
	return string(data), nil
}
