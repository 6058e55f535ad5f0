// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"context"
	"sync"

	"github.com/bureau-foundation/marquee/overlay"
)

// dragMailbox hands drag gestures from the bubbletea event loop to a
// worker goroutine without ever blocking the loop. The handler's
// OnDragMove waits for the Synchronizer, which in turn waits on the
// event loop to accept render messages, so the loop must not call it
// directly.
//
// Moves are offsets from the drag start, so only the latest pending
// move matters and earlier ones are overwritten.
type dragMailbox struct {
	mu           sync.Mutex
	startPending bool
	movePending  bool
	dx, dy       int
	signal       chan struct{}
}

func newDragMailbox() *dragMailbox {
	return &dragMailbox{signal: make(chan struct{}, 1)}
}

// start records a new gesture, discarding any unsent move from the
// previous one.
func (b *dragMailbox) start() {
	b.mu.Lock()
	b.startPending = true
	b.movePending = false
	b.mu.Unlock()
	b.notify()
}

// move records the latest offset of the current gesture.
func (b *dragMailbox) move(dx, dy int) {
	b.mu.Lock()
	b.movePending = true
	b.dx, b.dy = dx, dy
	b.mu.Unlock()
	b.notify()
}

func (b *dragMailbox) notify() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// take returns and clears the pending gesture state.
func (b *dragMailbox) take() (start, move bool, dx, dy int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, move, dx, dy = b.startPending, b.movePending, b.dx, b.dy
	b.startPending, b.movePending = false, false
	return start, move, dx, dy
}

// run delivers gestures to handler until ctx is done.
func (b *dragMailbox) run(ctx context.Context, handler overlay.DragHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.signal:
		}
		start, move, dx, dy := b.take()
		if start {
			handler.OnDragStart()
		}
		if move {
			handler.OnDragMove(ctx, dx, dy)
		}
	}
}
