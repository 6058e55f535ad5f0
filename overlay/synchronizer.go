// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrSynchronizerStopped is returned by Submit and Apply once Run has
// returned.
var ErrSynchronizerStopped = errors.New("synchronizer stopped")

// defaultQueueSize bounds the event channel. Producers block when it is
// full; with one sender per source this is never reached in practice.
const defaultQueueSize = 16

// SynchronizerConfig holds the collaborators of a Synchronizer.
type SynchronizerConfig struct {
	// Store persists durable settings. Required.
	Store SettingsStore

	// Target receives render commands. Required.
	Target RenderTarget

	// Logger receives application and rejection records. If nil, a
	// no-op logger is used.
	Logger *slog.Logger

	// QueueSize is the capacity of the event channel. Defaults to 16.
	QueueSize int
}

// Synchronizer serializes every mutation of the overlay State. Events
// enter through Submit or Apply and are applied one at a time, in
// arrival order, by the goroutine running Run.
type Synchronizer struct {
	store  SettingsStore
	target RenderTarget
	logger *slog.Logger

	events chan envelope

	// stopped is closed when Run returns.
	stopped  chan struct{}
	stopOnce sync.Once

	// mu guards state. Only the Run goroutine writes; Snapshot reads.
	mu    sync.RWMutex
	state State
}

// envelope carries an event and, for Apply, a channel closed once the
// event has been applied (or dropped).
type envelope struct {
	event   Event
	applied chan struct{}
}

// NewSynchronizer loads the persisted settings and seeds the overlay
// State from them. A store that cannot be read is an error: starting
// with silently reset settings would overwrite the user's on the next
// change.
func NewSynchronizer(ctx context.Context, config SynchronizerConfig) (*Synchronizer, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("overlay: SynchronizerConfig.Store is required")
	}
	if config.Target == nil {
		return nil, fmt.Errorf("overlay: SynchronizerConfig.Target is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	settings, err := config.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("overlay: loading settings: %w", err)
	}
	logger.Info("overlay settings loaded",
		"locked", settings.Locked,
		"x", settings.Position.X,
		"y", settings.Position.Y,
		"text_color", settings.TextColor.String(),
		"background_opacity", settings.BackgroundOpacity,
	)

	return &Synchronizer{
		store:   config.Store,
		target:  config.Target,
		logger:  logger,
		events:  make(chan envelope, queueSize),
		stopped: make(chan struct{}),
		state:   initialState(settings),
	}, nil
}

// Snapshot returns a copy of the current State.
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Submit queues an event without waiting for it to be applied.
func (s *Synchronizer) Submit(ctx context.Context, event Event) error {
	return s.enqueue(ctx, envelope{event: event})
}

// Apply queues an event and waits until the Run goroutine has applied
// or dropped it. When Apply returns nil, any durable change carried by
// the event has been written to the store.
func (s *Synchronizer) Apply(ctx context.Context, event Event) error {
	applied := make(chan struct{})
	if err := s.enqueue(ctx, envelope{event: event, applied: applied}); err != nil {
		return err
	}
	select {
	case <-applied:
		return nil
	case <-s.stopped:
		return ErrSynchronizerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Synchronizer) enqueue(ctx context.Context, item envelope) error {
	select {
	case <-s.stopped:
		return ErrSynchronizerStopped
	default:
	}
	select {
	case s.events <- item:
		return nil
	case <-s.stopped:
		return ErrSynchronizerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run pushes the initial State to the render target and then applies
// queued events until ctx is cancelled. Run must be called exactly
// once.
func (s *Synchronizer) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.stopped) })

	s.renderAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case item := <-s.events:
			s.apply(ctx, item.event)
			if item.applied != nil {
				close(item.applied)
			}
		}
	}
}

// renderAll issues every render command for the current State, so a
// freshly created render target matches the persisted settings.
func (s *Synchronizer) renderAll() {
	state := s.Snapshot()
	s.target.SetText(state.Text)
	s.target.SetFontSize(state.FontSize)
	s.target.SetTextColor(state.TextColor)
	s.target.SetBackgroundColor(BackgroundColor(state.BackgroundOpacity))
	s.target.SetPosition(state.Position)
	if state.Locked {
		s.target.DetachDragHandler()
		s.target.SetInputBlocking(true)
	} else {
		s.target.AttachDragHandler()
		s.target.SetInputBlocking(false)
	}
}

// apply validates and applies one event. Called only from Run.
//
// An applied event is always persisted: Run may dequeue an event in
// the same instant its ctx is cancelled, so store writes ignore
// cancellation.
func (s *Synchronizer) apply(ctx context.Context, event Event) {
	if err := event.Validate(); err != nil {
		s.logger.Warn("dropping overlay event", "kind", event.Kind(), "error", err)
		return
	}
	ctx = context.WithoutCancel(ctx)

	switch event := event.(type) {
	case MessageEvent:
		text := truncateMessage(event.Text)
		s.update(func(state *State) { state.Text = text })
		s.target.SetText(text)

	case FontSizeEvent:
		s.update(func(state *State) { state.FontSize = event.Size })
		s.target.SetFontSize(event.Size)

	case BackgroundOpacityEvent:
		s.update(func(state *State) { state.BackgroundOpacity = event.Opacity })
		s.target.SetBackgroundColor(BackgroundColor(event.Opacity))
		s.persist(event, s.store.SaveBackgroundOpacity(ctx, event.Opacity))

	case TextColorEvent:
		s.update(func(state *State) { state.TextColor = event.Color })
		s.target.SetTextColor(event.Color)
		s.persist(event, s.store.SaveTextColor(ctx, event.Color))

	case LockPositionEvent:
		if s.Snapshot().Locked == event.Locked {
			s.logger.Debug("lock state unchanged", "locked", event.Locked)
			return
		}
		s.update(func(state *State) { state.Locked = event.Locked })
		if event.Locked {
			s.target.DetachDragHandler()
			s.target.SetInputBlocking(true)
		} else {
			s.target.AttachDragHandler()
			s.target.SetInputBlocking(false)
		}
		s.persist(event, s.store.SaveLocked(ctx, event.Locked))

	case PositionEvent:
		s.update(func(state *State) { state.Position = event.Position })
		s.target.SetPosition(event.Position)
		s.persist(event, s.store.SavePosition(ctx, event.Position))

	default:
		s.logger.Error("unknown overlay event type", "type", fmt.Sprintf("%T", event))
		return
	}

	s.logger.Debug("overlay event applied", "kind", event.Kind(), "value", event)
}

func (s *Synchronizer) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	s.mu.Unlock()
}

// persist logs a failed settings write. The in-memory and rendered
// State keep the new value; the next successful write of the same key
// brings the store back in line.
func (s *Synchronizer) persist(event Event, err error) {
	if err != nil {
		s.logger.Error("persisting overlay setting failed",
			"kind", event.Kind(),
			"error", err,
		)
	}
}
