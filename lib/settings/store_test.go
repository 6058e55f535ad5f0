// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/marquee/overlay"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func TestFreshStoreReturnsDefaults(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer store.Close()

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != overlay.DefaultSettings() {
		t.Errorf("Load = %+v, want defaults %+v", loaded, overlay.DefaultSettings())
	}
	if !loaded.Locked {
		t.Error("fresh store should report locked")
	}
	if loaded.TextColor != 0xFF0000FF {
		t.Errorf("TextColor = %s, want #FF0000FF", loaded.TextColor)
	}
}

func TestSettingsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	store := openTestStore(t, path)
	if err := store.SaveLocked(ctx, false); err != nil {
		t.Fatalf("SaveLocked: %v", err)
	}
	if err := store.SavePosition(ctx, overlay.Position{X: 310, Y: -4}); err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	// High bit set: must come back unsigned.
	if err := store.SaveTextColor(ctx, 0x80FF8800); err != nil {
		t.Fatalf("SaveTextColor: %v", err)
	}
	if err := store.SaveBackgroundOpacity(ctx, 0.4); err != nil {
		t.Fatalf("SaveBackgroundOpacity: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := openTestStore(t, path)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := overlay.Settings{
		Locked:            false,
		Position:          overlay.Position{X: 310, Y: -4},
		TextColor:         0x80FF8800,
		BackgroundOpacity: 0.4,
	}
	if loaded != want {
		t.Errorf("Load = %+v, want %+v", loaded, want)
	}
}

func TestOverwriteKeepsLatestValue(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, filepath.Join(t.TempDir(), "settings.db"))
	defer store.Close()

	for _, opacity := range []float64{0.1, 0.9, 0.25} {
		if err := store.SaveBackgroundOpacity(ctx, opacity); err != nil {
			t.Fatalf("SaveBackgroundOpacity(%v): %v", opacity, err)
		}
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BackgroundOpacity != 0.25 {
		t.Errorf("BackgroundOpacity = %v, want 0.25", loaded.BackgroundOpacity)
	}
}

func TestSynchronizerRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	path := filepath.Join(t.TempDir(), "settings.db")

	store := openTestStore(t, path)
	synchronizer, err := overlay.NewSynchronizer(ctx, overlay.SynchronizerConfig{
		Store:  store,
		Target: discardTarget{},
	})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		synchronizer.Run(ctx)
	}()

	for _, event := range []overlay.Event{
		overlay.LockPositionEvent{Locked: false},
		overlay.PositionEvent{Position: overlay.Position{X: 12, Y: 34}},
		overlay.BackgroundOpacityEvent{Opacity: 0.75},
	} {
		if err := synchronizer.Apply(ctx, event); err != nil {
			t.Fatalf("Apply(%s): %v", event.Kind(), err)
		}
	}
	cancel()
	<-done
	store.Close()

	reopened := openTestStore(t, path)
	defer reopened.Close()
	loaded, err := reopened.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Locked || loaded.Position != (overlay.Position{X: 12, Y: 34}) || loaded.BackgroundOpacity != 0.75 {
		t.Errorf("Load = %+v", loaded)
	}
}

type discardTarget struct{}

func (discardTarget) SetText(string)                  {}
func (discardTarget) SetFontSize(float64)             {}
func (discardTarget) SetTextColor(overlay.ARGB)       {}
func (discardTarget) SetBackgroundColor(overlay.ARGB) {}
func (discardTarget) SetInputBlocking(bool)           {}
func (discardTarget) SetPosition(overlay.Position)    {}
func (discardTarget) AttachDragHandler()              {}
func (discardTarget) DetachDragHandler()              {}
