// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/bureau-foundation/marquee/overlay"
)

// screenColor is what a fully transparent overlay shows through to.
var screenColor = colorful.Color{R: 0, G: 0, B: 0}

// composite blends color over under using color's alpha channel.
func composite(color overlay.ARGB, under colorful.Color) colorful.Color {
	over := colorful.Color{
		R: float64(color.Red()) / 255,
		G: float64(color.Green()) / 255,
		B: float64(color.Blue()) / 255,
	}
	return under.BlendRgb(over, float64(color.Alpha())/255).Clamped()
}

// boxColors resolves the overlay's ARGB colors to terminal colors.
// transparent reports a zero-alpha background, which is left unset so
// the terminal's own background shows.
func boxColors(text, background overlay.ARGB) (foreground, fill lipgloss.Color, transparent bool) {
	fillColor := composite(background, screenColor)
	textColor := composite(text, fillColor)
	return lipgloss.Color(textColor.Hex()), lipgloss.Color(fillColor.Hex()), background.Alpha() == 0
}
