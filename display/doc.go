// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package display provides concrete overlay.RenderTarget
// implementations.
//
// [Terminal] draws the overlay as a box floating on a full-screen
// bubbletea program. Overlay positions are in pixels; the terminal
// maps them onto the character grid with a configured cell size. The
// background opacity is composited over a black screen and the text
// color over that background, since a terminal has no alpha. When
// the overlay is unlocked, pressing the left mouse button on the box
// and dragging it feeds the attached overlay.DragHandler.
//
// [Log] is a headless target that records every render command in the
// structured log, for running the daemon without a screen.
package display
