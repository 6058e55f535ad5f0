// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bureau-foundation/marquee/lib/codec"
	"github.com/bureau-foundation/marquee/lib/control"
	"github.com/bureau-foundation/marquee/lib/service"
	"github.com/bureau-foundation/marquee/overlay"
)

// registerActions registers the control actions on server.
func (d *daemon) registerActions(server *service.SocketServer) {
	server.Handle(control.ActionStatus, d.handleStatus)
	server.Handle(control.ActionStart, d.handleStart)
	server.Handle(control.ActionStop, d.handleStop)
	server.Handle(control.ActionSetText, d.handleSetText)
	server.Handle(control.ActionSetFontSize, d.handleSetFontSize)
	server.Handle(control.ActionSetTextColor, d.handleSetTextColor)
	server.Handle(control.ActionSetBackgroundOpacity, d.handleSetBackgroundOpacity)
	server.Handle(control.ActionSetLock, d.handleSetLock)
	server.Handle(control.ActionSetPosition, d.handleSetPosition)
}

func (d *daemon) statusResponse() control.StatusResponse {
	status, state := d.serverState()
	return control.StatusResponse{
		Status:   status,
		Listener: state,
		Overlay:  d.synchronizer.Snapshot(),
	}
}

func (d *daemon) handleStatus(context.Context, []byte) (any, error) {
	return d.statusResponse(), nil
}

func (d *daemon) handleStart(ctx context.Context, raw []byte) (any, error) {
	var request control.StartRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid start request: %w", err)
	}
	if request.Port == nil {
		return nil, errors.New("missing required field: port")
	}
	if err := d.startListener(ctx, *request.Port); err != nil {
		return nil, err
	}
	return d.statusResponse(), nil
}

func (d *daemon) handleStop(context.Context, []byte) (any, error) {
	d.stopListener()
	return d.statusResponse(), nil
}

func (d *daemon) handleSetText(ctx context.Context, raw []byte) (any, error) {
	var request control.SetTextRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-text request: %w", err)
	}
	if request.Text == nil {
		return nil, errors.New("missing required field: text")
	}
	return d.apply(ctx, overlay.MessageEvent{Text: *request.Text})
}

func (d *daemon) handleSetFontSize(ctx context.Context, raw []byte) (any, error) {
	var request control.SetFontSizeRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-font-size request: %w", err)
	}
	if request.Size == nil {
		return nil, errors.New("missing required field: size")
	}
	return d.apply(ctx, overlay.FontSizeEvent{Size: *request.Size})
}

func (d *daemon) handleSetTextColor(ctx context.Context, raw []byte) (any, error) {
	var request control.SetTextColorRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-text-color request: %w", err)
	}
	if request.Color == nil {
		return nil, errors.New("missing required field: color")
	}
	color, err := overlay.ParseARGB(*request.Color)
	if err != nil {
		return nil, err
	}
	return d.apply(ctx, overlay.TextColorEvent{Color: color})
}

func (d *daemon) handleSetBackgroundOpacity(ctx context.Context, raw []byte) (any, error) {
	var request control.SetBackgroundOpacityRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-background-opacity request: %w", err)
	}
	if request.Opacity == nil {
		return nil, errors.New("missing required field: opacity")
	}
	return d.apply(ctx, overlay.BackgroundOpacityEvent{Opacity: *request.Opacity})
}

func (d *daemon) handleSetLock(ctx context.Context, raw []byte) (any, error) {
	var request control.SetLockRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-lock request: %w", err)
	}
	if request.Locked == nil {
		return nil, errors.New("missing required field: locked")
	}
	return d.apply(ctx, overlay.LockPositionEvent{Locked: *request.Locked})
}

func (d *daemon) handleSetPosition(ctx context.Context, raw []byte) (any, error) {
	var request control.SetPositionRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid set-position request: %w", err)
	}
	if request.X == nil || request.Y == nil {
		return nil, errors.New("missing required fields: x and y")
	}
	return d.apply(ctx, overlay.PositionEvent{Position: overlay.Position{X: *request.X, Y: *request.Y}})
}

// apply validates event, so the caller gets an error response instead
// of a silent drop, and waits for the synchronizer to apply it.
func (d *daemon) apply(ctx context.Context, event overlay.Event) (any, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if err := d.synchronizer.Apply(ctx, event); err != nil {
		return nil, err
	}
	return d.statusResponse(), nil
}
