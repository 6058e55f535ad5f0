// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listener.Port != 8080 {
		t.Errorf("expected port=8080, got %d", cfg.Listener.Port)
	}
	if cfg.Listener.AutoStart {
		t.Error("expected autostart=false")
	}
	if time.Duration(cfg.Listener.IdleTimeout) != 10*time.Second {
		t.Errorf("expected idle_timeout=10s, got %v", time.Duration(cfg.Listener.IdleTimeout))
	}
	if cfg.Display.Mode != DisplayTerminal {
		t.Errorf("expected display.mode=terminal, got %s", cfg.Display.Mode)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Control.SocketPath != "/run/user/1000/marquee.sock" {
		t.Errorf("socket_path = %q", cfg.Control.SocketPath)
	}
	if cfg.Store.Path != "/home/tester/.local/state/marquee/settings.db" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "marquee.yaml", `
listener:
  port: 9000
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listener.Port != 9000 {
		t.Errorf("expected port=9000, got %d", cfg.Listener.Port)
	}
}

func TestExplicitPathWinsOverEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, writeConfig(t, "env.yaml", "listener:\n  port: 9000\n"))
	explicit := writeConfig(t, "flag.yaml", "listener:\n  port: 9100\n")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listener.Port != 9100 {
		t.Errorf("expected port=9100, got %d", cfg.Listener.Port)
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Setenv("MARQUEE_TEST_DIR", "/srv/marquee")
	path := writeConfig(t, "marquee.yaml", `
listener:
  port: 7000
  autostart: true
  idle_timeout: 3s
store:
  path: ${MARQUEE_TEST_DIR}/settings.db
display:
  mode: log
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listener.Port != 7000 || !cfg.Listener.AutoStart {
		t.Errorf("listener = %+v", cfg.Listener)
	}
	if time.Duration(cfg.Listener.IdleTimeout) != 3*time.Second {
		t.Errorf("idle_timeout = %v", time.Duration(cfg.Listener.IdleTimeout))
	}
	if cfg.Store.Path != "/srv/marquee/settings.db" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Display.Mode != DisplayLog {
		t.Errorf("display.mode = %q", cfg.Display.Mode)
	}
	// Unset fields keep their defaults.
	if cfg.Display.CellWidth != 8 || cfg.Display.CellHeight != 16 {
		t.Errorf("cell size = %dx%d, want 8x16", cfg.Display.CellWidth, cfg.Display.CellHeight)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "marquee.jsonc", `{
	// Listen on the alternate port.
	"listener": {"port": 8181, "idle_timeout": "1m"},
	"display": {"cell_width": 10,},
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Listener.Port != 8181 {
		t.Errorf("port = %d, want 8181", cfg.Listener.Port)
	}
	if time.Duration(cfg.Listener.IdleTimeout) != time.Minute {
		t.Errorf("idle_timeout = %v, want 1m", time.Duration(cfg.Listener.IdleTimeout))
	}
	if cfg.Display.CellWidth != 10 {
		t.Errorf("cell_width = %d, want 10", cfg.Display.CellWidth)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, "bad.yaml", "listener:\n  idle_timeout: soon\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.expandVariables()
	cfg.Listener.Port = 80
	cfg.Display.Mode = "hologram"
	cfg.Log.Level = "chatty"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"listener.port", "display.mode", "log.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error %q does not mention %s", err, want)
		}
	}
}

func TestExpandVarsDefaults(t *testing.T) {
	t.Setenv("MARQUEE_SET", "value")
	t.Setenv("MARQUEE_EMPTY", "")

	tests := map[string]string{
		"${MARQUEE_SET}/x":                   "value/x",
		"${MARQUEE_EMPTY:-fallback}/x":       "fallback/x",
		"${MARQUEE_EMPTY:-${MARQUEE_SET}}/x": "value/x",
		"plain/path":                         "plain/path",
	}
	for input, want := range tests {
		if got := expandVars(input); got != want {
			t.Errorf("expandVars(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEnsurePaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Store.Path = filepath.Join(root, "state", "settings.db")
	cfg.Control.SocketPath = filepath.Join(root, "run", "marquee.sock")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	for _, dir := range []string{"state", "run"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
