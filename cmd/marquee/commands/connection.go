// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"time"

	"github.com/bureau-foundation/marquee/lib/config"
	"github.com/bureau-foundation/marquee/lib/control"
	"github.com/bureau-foundation/marquee/lib/service"
)

// DaemonConnection is embedded in the params of every command that
// talks to marqueed.
type DaemonConnection struct {
	SocketPath string        `flag:"socket" desc:"control socket path (default: from the config file)"`
	ConfigPath string        `flag:"config" desc:"config file (default: $MARQUEE_CONFIG)"`
	Timeout    time.Duration `flag:"timeout" desc:"give up after this long" default:"10s"`
}

// connect returns a client for the control socket named by --socket,
// or by the config file when --socket is absent.
func (c *DaemonConnection) connect() (*service.Client, error) {
	socketPath := c.SocketPath
	if socketPath == "" {
		cfg, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		socketPath = cfg.Control.SocketPath
	}
	return service.NewClient(socketPath), nil
}

// call sends one action and returns the daemon's status response.
func (c *DaemonConnection) call(ctx context.Context, action string, fields map[string]any) (control.StatusResponse, error) {
	var response control.StatusResponse
	client, err := c.connect()
	if err != nil {
		return response, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	err = client.Call(ctx, action, fields, &response)
	return response, err
}
