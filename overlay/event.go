// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// ErrInvalidEventPayload is wrapped by Validate errors for events whose
// value is out of range.
var ErrInvalidEventPayload = errors.New("invalid event payload")

// Event is a single typed instruction to change one aspect of the
// overlay State. The set of implementations is closed.
type Event interface {
	// Kind names the event for logs and error messages.
	Kind() string

	// Validate reports whether the payload may be applied. Errors wrap
	// ErrInvalidEventPayload.
	Validate() error

	// LogValue renders the payload for structured logging.
	LogValue() slog.Value

	isEvent()
}

// MessageEvent replaces the displayed text with a completed message.
type MessageEvent struct {
	Text string
}

// FontSizeEvent changes the text size. Valid sizes are
// [MinFontSize, MaxFontSize].
type FontSizeEvent struct {
	Size float64
}

// BackgroundOpacityEvent changes the white background's opacity.
// Valid values are [0, 1].
type BackgroundOpacityEvent struct {
	Opacity float64
}

// TextColorEvent changes the text color.
type TextColorEvent struct {
	Color ARGB
}

// LockPositionEvent locks or unlocks the overlay position.
type LockPositionEvent struct {
	Locked bool
}

// PositionEvent moves the overlay to an absolute position.
type PositionEvent struct {
	Position Position
}

func (MessageEvent) Kind() string           { return "message" }
func (FontSizeEvent) Kind() string          { return "font_size" }
func (BackgroundOpacityEvent) Kind() string { return "background_opacity" }
func (TextColorEvent) Kind() string         { return "text_color" }
func (LockPositionEvent) Kind() string      { return "lock_position" }
func (PositionEvent) Kind() string          { return "position" }

func (MessageEvent) Validate() error { return nil }

func (e FontSizeEvent) Validate() error {
	if math.IsNaN(e.Size) || e.Size < MinFontSize || e.Size > MaxFontSize {
		return fmt.Errorf("%w: font size %v outside [%v, %v]", ErrInvalidEventPayload, e.Size, MinFontSize, MaxFontSize)
	}
	return nil
}

func (e BackgroundOpacityEvent) Validate() error {
	if math.IsNaN(e.Opacity) || e.Opacity < 0 || e.Opacity > 1 {
		return fmt.Errorf("%w: background opacity %v outside [0, 1]", ErrInvalidEventPayload, e.Opacity)
	}
	return nil
}

func (TextColorEvent) Validate() error    { return nil }
func (LockPositionEvent) Validate() error { return nil }
func (PositionEvent) Validate() error     { return nil }

func (e MessageEvent) LogValue() slog.Value {
	preview := []rune(e.Text)
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return slog.GroupValue(
		slog.String("preview", string(preview)),
		slog.Int("length", len(e.Text)),
	)
}

func (e FontSizeEvent) LogValue() slog.Value { return slog.Float64Value(e.Size) }

func (e BackgroundOpacityEvent) LogValue() slog.Value { return slog.Float64Value(e.Opacity) }

func (e TextColorEvent) LogValue() slog.Value { return slog.StringValue(e.Color.String()) }

func (e LockPositionEvent) LogValue() slog.Value { return slog.BoolValue(e.Locked) }

func (e PositionEvent) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("x", e.Position.X), slog.Int("y", e.Position.Y))
}

func (MessageEvent) isEvent()           {}
func (FontSizeEvent) isEvent()          {}
func (BackgroundOpacityEvent) isEvent() {}
func (TextColorEvent) isEvent()         {}
func (LockPositionEvent) isEvent()      {}
func (PositionEvent) isEvent()          {}
