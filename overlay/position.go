// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"context"
	"log/slog"
	"sync"
)

// DragThreshold is the jitter bound in pixels: a move whose deltas are
// both within it is ignored.
const DragThreshold = 5

// defaultOverlayHalfWidth centers an overlay assumed to be about 200
// pixels wide on first run.
const defaultOverlayHalfWidth = 100

// positionSource is the part of the Synchronizer the controller needs.
type positionSource interface {
	Snapshot() State
	Apply(ctx context.Context, event Event) error
}

// PositionController converts drag gestures into persisted absolute
// positions. It implements DragHandler.
type PositionController struct {
	source positionSource
	logger *slog.Logger

	mu       sync.Mutex
	baseline Position
	dragging bool
}

var _ DragHandler = (*PositionController)(nil)

// NewPositionController returns a controller that reads and writes
// the overlay position through synchronizer.
func NewPositionController(synchronizer *Synchronizer, logger *slog.Logger) *PositionController {
	return newPositionController(synchronizer, logger)
}

func newPositionController(source positionSource, logger *slog.Logger) *PositionController {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PositionController{source: source, logger: logger}
}

// DefaultPosition is the first-run position on a surface of the given
// width: horizontally centered, at the top.
func DefaultPosition(surfaceWidth int) Position {
	return Position{X: surfaceWidth/2 - defaultOverlayHalfWidth, Y: 0}
}

// EnsureDefault stores DefaultPosition when no position has been
// persisted yet (both coordinates zero). It returns after the position
// is written, so it must run after the Synchronizer's Run has started
// and before the overlay is first shown.
func (c *PositionController) EnsureDefault(ctx context.Context, surfaceWidth int) error {
	if !c.source.Snapshot().Position.IsZero() {
		return nil
	}
	position := DefaultPosition(surfaceWidth)
	c.logger.Info("setting default overlay position",
		"x", position.X,
		"y", position.Y,
		"surface_width", surfaceWidth,
	)
	return c.source.Apply(ctx, PositionEvent{Position: position})
}

// OnDragStart captures the current position as the drag baseline.
func (c *PositionController) OnDragStart() {
	baseline := c.source.Snapshot().Position
	c.mu.Lock()
	c.baseline = baseline
	c.dragging = true
	c.mu.Unlock()
}

// OnDragMove moves the overlay to baseline + (dx, dy) and persists the
// result. Moves within DragThreshold, moves without a preceding
// OnDragStart, and any move while the overlay is locked are ignored.
func (c *PositionController) OnDragMove(ctx context.Context, dx, dy int) {
	if c.source.Snapshot().Locked {
		c.logger.Debug("drag ignored while locked")
		return
	}
	if abs(dx) <= DragThreshold && abs(dy) <= DragThreshold {
		return
	}

	c.mu.Lock()
	if !c.dragging {
		c.mu.Unlock()
		return
	}
	position := c.baseline.Add(dx, dy)
	c.mu.Unlock()

	if err := c.source.Apply(ctx, PositionEvent{Position: position}); err != nil {
		c.logger.Debug("drag position not applied", "error", err)
	}
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
