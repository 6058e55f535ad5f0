// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package control

import (
	"github.com/bureau-foundation/marquee/listener"
	"github.com/bureau-foundation/marquee/overlay"
)

// Action names.
const (
	ActionStatus               = "status"
	ActionStart                = "start"
	ActionStop                 = "stop"
	ActionSetText              = "set-text"
	ActionSetFontSize          = "set-font-size"
	ActionSetTextColor         = "set-text-color"
	ActionSetBackgroundOpacity = "set-background-opacity"
	ActionSetLock              = "set-lock"
	ActionSetPosition          = "set-position"
)

// StatusResponse is the reply to "status" and to every state-changing
// action.
type StatusResponse struct {
	// Status is the listener status line shown to the user, e.g.
	// "running, ip=192.168.1.20 port=8080".
	Status   string               `cbor:"status"   json:"status"`
	Listener listener.ServerState `cbor:"listener" json:"listener"`
	Overlay  overlay.State        `cbor:"overlay"  json:"overlay"`
}

type StartRequest struct {
	Port *int `cbor:"port"`
}

type SetTextRequest struct {
	Text *string `cbor:"text"`
}

type SetFontSizeRequest struct {
	Size *float64 `cbor:"size"`
}

// SetTextColorRequest carries a color as "#RRGGBB" or "#AARRGGBB".
type SetTextColorRequest struct {
	Color *string `cbor:"color"`
}

type SetBackgroundOpacityRequest struct {
	Opacity *float64 `cbor:"opacity"`
}

type SetLockRequest struct {
	Locked *bool `cbor:"locked"`
}

type SetPositionRequest struct {
	X *int `cbor:"x"`
	Y *int `cbor:"y"`
}
