// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bureau-foundation/marquee/lib/clock"
	"github.com/bureau-foundation/marquee/lib/config"
	"github.com/bureau-foundation/marquee/listener"
	"github.com/bureau-foundation/marquee/overlay"
)

// daemon owns the listener lifecycle and forwards delivered messages
// to the synchronizer. At most one Listener is live at a time.
type daemon struct {
	synchronizer *overlay.Synchronizer
	logger       *slog.Logger
	clock        clock.Clock
	idleTimeout  time.Duration

	// advertisedAddress overrides the address in the running status.
	// Empty uses the machine's first IPv4 address.
	advertisedAddress string
	host              string

	mu       sync.Mutex
	listener *listener.Listener
	status   string
}

func newDaemon(cfg *config.Config, synchronizer *overlay.Synchronizer, logger *slog.Logger) *daemon {
	return &daemon{
		synchronizer: synchronizer,
		logger:       logger,
		clock:        clock.Real(),
		idleTimeout:  time.Duration(cfg.Listener.IdleTimeout),
		status:       listener.StatusNotRunning,
	}
}

// startListener replaces any running listener with one on port. The
// listener lives until stopListener or ctx cancellation.
func (d *daemon) startListener(ctx context.Context, port int) error {
	d.stopListener()

	started, err := listener.Start(ctx, listener.Config{
		Port:              port,
		Host:              d.host,
		AdvertisedAddress: d.advertisedAddress,
		IdleTimeout:       d.idleTimeout,
		Clock:             d.clock,
		Logger:            d.logger.With("component", "listener"),
		Deliver: func(message string) {
			if err := d.synchronizer.Submit(ctx, overlay.MessageEvent{Text: message}); err != nil {
				d.logger.Warn("message not delivered", "error", err)
			}
		},
		OnStatus: d.setStatus,
		OnFatal: func(err error) {
			d.logger.Error("listener failed", "error", err)
		},
	})
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.listener = started
	d.mu.Unlock()
	return nil
}

// stopListener stops the running listener, if any.
func (d *daemon) stopListener() {
	d.mu.Lock()
	running := d.listener
	d.listener = nil
	d.mu.Unlock()

	if running != nil {
		running.Stop()
	}
}

func (d *daemon) setStatus(status string) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
	d.logger.Info("listener status", "status", status)
}

// serverState returns the status string and the state of the current
// listener.
func (d *daemon) serverState() (string, listener.ServerState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return d.status, listener.ServerState{}
	}
	return d.status, d.listener.State()
}
