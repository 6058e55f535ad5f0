// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import "context"

// RenderTarget is the command surface of whatever draws the overlay.
// The Synchronizer is its only caller and calls it from one goroutine;
// implementations hand commands to their own render loop and must not
// call back into the Synchronizer synchronously.
type RenderTarget interface {
	SetText(text string)
	SetFontSize(size float64)
	SetTextColor(color ARGB)
	// SetBackgroundColor receives the background opacity already
	// composed against white (see BackgroundColor).
	SetBackgroundColor(color ARGB)
	SetInputBlocking(blocking bool)
	SetPosition(position Position)
	AttachDragHandler()
	DetachDragHandler()
}

// DragHandler receives drag gestures from a render target while a drag
// handler is attached. Deltas are measured from the point where the
// drag started, in render-surface pixels.
type DragHandler interface {
	OnDragStart()
	OnDragMove(ctx context.Context, dx, dy int)
}

// SettingsStore persists the durable subset of the overlay State. The
// Synchronizer is its only writer.
type SettingsStore interface {
	// Load returns the persisted settings, with defaults for any value
	// never written.
	Load(ctx context.Context) (Settings, error)
	SaveLocked(ctx context.Context, locked bool) error
	SavePosition(ctx context.Context, position Position) error
	SaveTextColor(ctx context.Context, color ARGB) error
	SaveBackgroundOpacity(ctx context.Context, opacity float64) error
}
