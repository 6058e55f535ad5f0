// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// recordingTarget is a RenderTarget that records every command as a
// short string, e.g. "SetInputBlocking(true)".
type recordingTarget struct {
	mu       sync.Mutex
	commands []string
}

func (r *recordingTarget) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, fmt.Sprintf(format, args...))
}

func (r *recordingTarget) SetText(text string)           { r.record("SetText(%q)", text) }
func (r *recordingTarget) SetFontSize(size float64)      { r.record("SetFontSize(%v)", size) }
func (r *recordingTarget) SetTextColor(color ARGB)       { r.record("SetTextColor(%s)", color) }
func (r *recordingTarget) SetBackgroundColor(color ARGB) { r.record("SetBackgroundColor(%s)", color) }
func (r *recordingTarget) SetInputBlocking(blocking bool) {
	r.record("SetInputBlocking(%v)", blocking)
}
func (r *recordingTarget) SetPosition(position Position) {
	r.record("SetPosition(%d,%d)", position.X, position.Y)
}
func (r *recordingTarget) AttachDragHandler() { r.record("AttachDragHandler()") }
func (r *recordingTarget) DetachDragHandler() { r.record("DetachDragHandler()") }

func (r *recordingTarget) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

func (r *recordingTarget) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

// count returns how many recorded commands equal command.
func (r *recordingTarget) count(command string) int {
	total := 0
	for _, recorded := range r.Commands() {
		if recorded == command {
			total++
		}
	}
	return total
}

// memoryStore is an in-memory SettingsStore with write counting and
// optional write failure.
type memoryStore struct {
	mu       sync.Mutex
	settings Settings
	writes   int
	failNext error
}

func newMemoryStore(settings Settings) *memoryStore {
	return &memoryStore{settings: settings}
}

func (m *memoryStore) Load(context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

// save fails with ctx's error once ctx is done, the way the SQLite
// store fails to take a connection.
func (m *memoryStore) save(ctx context.Context, mutate func(*Settings)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	mutate(&m.settings)
	m.writes++
	return nil
}

func (m *memoryStore) SaveLocked(ctx context.Context, locked bool) error {
	return m.save(ctx, func(s *Settings) { s.Locked = locked })
}

func (m *memoryStore) SavePosition(ctx context.Context, position Position) error {
	return m.save(ctx, func(s *Settings) { s.Position = position })
}

func (m *memoryStore) SaveTextColor(ctx context.Context, color ARGB) error {
	return m.save(ctx, func(s *Settings) { s.TextColor = color })
}

func (m *memoryStore) SaveBackgroundOpacity(ctx context.Context, opacity float64) error {
	return m.save(ctx, func(s *Settings) { s.BackgroundOpacity = opacity })
}

func (m *memoryStore) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *memoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

var errDiskFull = errors.New("disk full")

// newTestSynchronizer builds a Synchronizer over a memory store and a
// recording target without starting Run. Tests in this package call
// apply directly for deterministic, synchronous application.
func newTestSynchronizer(t *testing.T, settings Settings) (*Synchronizer, *memoryStore, *recordingTarget) {
	t.Helper()
	store := newMemoryStore(settings)
	target := &recordingTarget{}
	synchronizer, err := NewSynchronizer(context.Background(), SynchronizerConfig{
		Store:  store,
		Target: target,
	})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	return synchronizer, store, target
}

// startSynchronizer runs synchronizer.Run until the test ends.
func startSynchronizer(t *testing.T, synchronizer *Synchronizer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		synchronizer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}
