// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/marquee/display"
	"github.com/bureau-foundation/marquee/lib/clock"
	"github.com/bureau-foundation/marquee/lib/control"
	"github.com/bureau-foundation/marquee/lib/service"
	"github.com/bureau-foundation/marquee/lib/settings"
	"github.com/bureau-foundation/marquee/lib/testutil"
	"github.com/bureau-foundation/marquee/listener"
	"github.com/bureau-foundation/marquee/overlay"
)

type testDaemon struct {
	*daemon
	client *service.Client
	store  *settings.Store
}

// startTestDaemon wires a settings store, a log render target, a
// running synchronizer and a control socket the way serve does.
func startTestDaemon(t *testing.T) *testDaemon {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.DiscardHandler)
	store, err := settings.Open(settings.Config{Path: filepath.Join(t.TempDir(), "settings.db")})
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	synchronizer, err := overlay.NewSynchronizer(ctx, overlay.SynchronizerConfig{
		Store:  store,
		Target: display.NewLog(logger),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	go synchronizer.Run(ctx)

	d := &daemon{
		synchronizer:      synchronizer,
		logger:            logger,
		clock:             clock.Real(),
		idleTimeout:       listener.DefaultIdleTimeout,
		host:              "127.0.0.1",
		advertisedAddress: "192.0.2.10",
		status:            listener.StatusNotRunning,
	}
	t.Cleanup(d.stopListener)

	socketPath := filepath.Join(testutil.SocketDir(t), "control.sock")
	server := service.NewSocketServer(socketPath, logger)
	d.registerActions(server)
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-serveDone
	})
	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "control socket never became ready")

	return &testDaemon{daemon: d, client: service.NewClient(socketPath), store: store}
}

func (d *testDaemon) call(t *testing.T, action string, fields map[string]any) control.StatusResponse {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var response control.StatusResponse
	if err := d.client.Call(ctx, action, fields, &response); err != nil {
		t.Fatalf("%s: %v", action, err)
	}
	return response
}

func (d *testDaemon) callError(t *testing.T, action string, fields map[string]any) *service.ServiceError {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := d.client.Call(ctx, action, fields, nil)
	var serviceErr *service.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("%s error = %v, want *service.ServiceError", action, err)
	}
	return serviceErr
}

func freePort(t *testing.T) int {
	t.Helper()
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("probing for a free port: %v", err)
	}
	port := probe.Addr().(*net.TCPAddr).Port
	probe.Close()
	return port
}

func TestStatusBeforeStart(t *testing.T) {
	d := startTestDaemon(t)
	response := d.call(t, "status", nil)
	if response.Status != listener.StatusNotRunning {
		t.Errorf("Status = %q, want %q", response.Status, listener.StatusNotRunning)
	}
	if response.Listener.Running {
		t.Error("Listener.Running = true before start")
	}
	if response.Overlay.Text != overlay.InitialText {
		t.Errorf("Overlay.Text = %q, want %q", response.Overlay.Text, overlay.InitialText)
	}
	if !response.Overlay.Locked {
		t.Error("Overlay.Locked = false on first run, want true")
	}
}

func TestStartReceiveStop(t *testing.T) {
	d := startTestDaemon(t)
	port := freePort(t)

	response := d.call(t, "start", map[string]any{"port": port})
	want := listener.RunningStatus("192.0.2.10", uint16(port))
	if response.Status != want {
		t.Errorf("Status = %q, want %q", response.Status, want)
	}
	if !response.Listener.Running || int(response.Listener.Port) != port {
		t.Errorf("Listener = %+v, want running on %d", response.Listener, port)
	}

	d.mu.Lock()
	address := d.listener.Addr().String()
	d.mu.Unlock()
	sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := listener.Send(sendCtx, address, "Hello\nWorld\n"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The message is queued before the listener closes the connection,
	// so an applied control event observes it.
	response = d.call(t, "set-font-size", map[string]any{"size": 32.0})
	if response.Overlay.Text != "Hello\nWorld" {
		t.Errorf("Overlay.Text = %q, want %q", response.Overlay.Text, "Hello\nWorld")
	}
	if response.Overlay.FontSize != 32 {
		t.Errorf("Overlay.FontSize = %g, want 32", response.Overlay.FontSize)
	}

	response = d.call(t, "stop", nil)
	if response.Status != listener.StatusNotRunning {
		t.Errorf("Status after stop = %q, want %q", response.Status, listener.StatusNotRunning)
	}
	if response.Listener.Running {
		t.Error("Listener.Running = true after stop")
	}
}

func TestStartInvalidPort(t *testing.T) {
	d := startTestDaemon(t)
	serviceErr := d.callError(t, "start", map[string]any{"port": 80})
	if !strings.Contains(serviceErr.Message, "invalid port") {
		t.Errorf("error message = %q, want it to mention the invalid port", serviceErr.Message)
	}
	response := d.call(t, "status", nil)
	if response.Status != listener.StatusInvalidPort {
		t.Errorf("Status = %q, want %q", response.Status, listener.StatusInvalidPort)
	}
}

func TestSettingsActionsPersist(t *testing.T) {
	d := startTestDaemon(t)

	d.call(t, "set-lock", map[string]any{"locked": false})
	d.call(t, "set-position", map[string]any{"x": 120, "y": 45})
	d.call(t, "set-text-color", map[string]any{"color": "#80FF8800"})
	response := d.call(t, "set-background-opacity", map[string]any{"opacity": 0.5})

	if response.Overlay.Locked {
		t.Error("Overlay.Locked = true after unlocking")
	}
	if response.Overlay.Position != (overlay.Position{X: 120, Y: 45}) {
		t.Errorf("Overlay.Position = %+v, want {120 45}", response.Overlay.Position)
	}
	if response.Overlay.TextColor != overlay.ARGB(0x80FF8800) {
		t.Errorf("Overlay.TextColor = %s, want #80FF8800", response.Overlay.TextColor)
	}

	stored, err := d.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := overlay.Settings{
		Locked:            false,
		Position:          overlay.Position{X: 120, Y: 45},
		TextColor:         overlay.ARGB(0x80FF8800),
		BackgroundOpacity: 0.5,
	}
	if stored != want {
		t.Errorf("stored settings = %+v, want %+v", stored, want)
	}
}

func TestSetTextTruncatesLongMessages(t *testing.T) {
	d := startTestDaemon(t)
	long := strings.Repeat("x", overlay.MaxMessageRunes+10)
	response := d.call(t, "set-text", map[string]any{"text": long})
	if !strings.HasSuffix(response.Overlay.Text, "...") {
		t.Errorf("Overlay.Text does not end with an ellipsis: %q", response.Overlay.Text)
	}
}

func TestInvalidPayloads(t *testing.T) {
	d := startTestDaemon(t)
	tests := []struct {
		name    string
		action  string
		fields  map[string]any
		message string
	}{
		{"missing port", "start", nil, "missing required field: port"},
		{"missing text", "set-text", nil, "missing required field: text"},
		{"font size too small", "set-font-size", map[string]any{"size": 2.0}, "invalid event payload"},
		{"font size too large", "set-font-size", map[string]any{"size": 200.0}, "invalid event payload"},
		{"opacity out of range", "set-background-opacity", map[string]any{"opacity": 1.5}, "invalid event payload"},
		{"bad color", "set-text-color", map[string]any{"color": "purple"}, "color"},
		{"missing lock", "set-lock", nil, "missing required field: locked"},
		{"missing y", "set-position", map[string]any{"x": 1}, "missing required fields"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			serviceErr := d.callError(t, test.action, test.fields)
			if !strings.Contains(serviceErr.Message, test.message) {
				t.Errorf("error message = %q, want it to contain %q", serviceErr.Message, test.message)
			}
		})
	}

	response := d.call(t, "status", nil)
	if response.Overlay.FontSize != overlay.DefaultFontSize {
		t.Errorf("Overlay.FontSize = %g after rejected events, want %g", response.Overlay.FontSize, overlay.DefaultFontSize)
	}
}
