// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"
	"strconv"
	"strings"
)

// Display defaults and limits.
const (
	// InitialText is shown until the first message arrives.
	InitialText = "Waiting for messages..."

	DefaultFontSize = 20.0
	MinFontSize     = 10.0
	MaxFontSize     = 60.0

	// MaxMessageRunes bounds the text handed to the render target.
	// Longer messages are cut and suffixed with an ellipsis.
	MaxMessageRunes = 1000

	// DefaultTextColor is solid blue.
	DefaultTextColor ARGB = 0xFF0000FF
)

// ARGB is a 32-bit color with alpha in the high byte.
type ARGB uint32

// NewARGB packs the four channels into an ARGB value.
func NewARGB(alpha, red, green, blue uint8) ARGB {
	return ARGB(uint32(alpha)<<24 | uint32(red)<<16 | uint32(green)<<8 | uint32(blue))
}

// Alpha returns the alpha channel.
func (c ARGB) Alpha() uint8 { return uint8(c >> 24) }

// Red returns the red channel.
func (c ARGB) Red() uint8 { return uint8(c >> 16) }

// Green returns the green channel.
func (c ARGB) Green() uint8 { return uint8(c >> 8) }

// Blue returns the blue channel.
func (c ARGB) Blue() uint8 { return uint8(c) }

// String formats the color as #AARRGGBB.
func (c ARGB) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseARGB accepts "#RRGGBB" (opaque), "#AARRGGBB", and the same
// forms prefixed with "0x" instead of "#".
func ParseARGB(text string) (ARGB, error) {
	digits := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(digits, "#"):
		digits = digits[1:]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0X"):
		digits = digits[2:]
	}
	if len(digits) != 6 && len(digits) != 8 {
		return 0, fmt.Errorf("color %q: want #RRGGBB or #AARRGGBB", text)
	}
	value, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", text, err)
	}
	if len(digits) == 6 {
		value |= 0xFF000000
	}
	return ARGB(value), nil
}

// BackgroundColor composes a background opacity against white: the
// alpha channel carries the opacity and the color channels are white.
func BackgroundColor(opacity float64) ARGB {
	return NewARGB(uint8(opacity*255), 0xFF, 0xFF, 0xFF)
}

// Position is an absolute overlay position in render-surface pixels.
type Position struct {
	X int `cbor:"x" json:"x"`
	Y int `cbor:"y" json:"y"`
}

// Add returns the position offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// IsZero reports whether both coordinates are zero, the value an
// unset persisted position reads back as.
func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// State is the complete display state of the overlay.
type State struct {
	Text              string   `cbor:"text" json:"text"`
	FontSize          float64  `cbor:"font_size" json:"font_size"`
	TextColor         ARGB     `cbor:"text_color" json:"text_color"`
	BackgroundOpacity float64  `cbor:"background_opacity" json:"background_opacity"`
	Locked            bool     `cbor:"locked" json:"locked"`
	Position          Position `cbor:"position" json:"position"`
}

// Settings is the durable subset of State that survives restarts.
type Settings struct {
	Locked            bool
	Position          Position
	TextColor         ARGB
	BackgroundOpacity float64
}

// DefaultSettings returns the settings of a first run: locked, blue
// text, transparent background, no stored position.
func DefaultSettings() Settings {
	return Settings{
		Locked:            true,
		TextColor:         DefaultTextColor,
		BackgroundOpacity: 0,
	}
}

// initialState builds the startup State from persisted settings.
func initialState(settings Settings) State {
	return State{
		Text:              InitialText,
		FontSize:          DefaultFontSize,
		TextColor:         settings.TextColor,
		BackgroundOpacity: settings.BackgroundOpacity,
		Locked:            settings.Locked,
		Position:          settings.Position,
	}
}

// truncateMessage cuts text to MaxMessageRunes runes, appending "...".
func truncateMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxMessageRunes {
		return text
	}
	return string(runes[:MaxMessageRunes]) + "..."
}
