// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "MARQUEE_CONFIG"

// Display modes.
const (
	// DisplayTerminal renders the overlay as a panel in the terminal.
	DisplayTerminal = "terminal"
	// DisplayLog logs render commands instead of drawing them.
	DisplayLog = "log"
)

// Config is the complete daemon configuration.
type Config struct {
	Listener ListenerConfig `yaml:"listener"`
	Store    StoreConfig    `yaml:"store"`
	Control  ControlConfig  `yaml:"control"`
	Display  DisplayConfig  `yaml:"display"`
	Log      LogConfig      `yaml:"log"`
}

// ListenerConfig configures the TCP message listener.
type ListenerConfig struct {
	// Port is the TCP port, 1024-65535. Default: 8080.
	Port int `yaml:"port"`

	// AutoStart starts the listener when the daemon starts. When
	// false, it waits for a "start" control request. Default: false.
	AutoStart bool `yaml:"autostart"`

	// IdleTimeout closes a silent connection. Default: 10s.
	IdleTimeout Duration `yaml:"idle_timeout"`
}

// StoreConfig configures the settings database.
type StoreConfig struct {
	// Path is the SQLite file holding persisted settings. The parent
	// directory is created if missing.
	Path string `yaml:"path"`
}

// ControlConfig configures the control socket.
type ControlConfig struct {
	// SocketPath is the Unix socket the CLI talks to.
	SocketPath string `yaml:"socket_path"`
}

// DisplayConfig configures the render target.
type DisplayConfig struct {
	// Mode is "terminal" or "log". Default: terminal.
	Mode string `yaml:"mode"`

	// CellWidth and CellHeight are the pixel size of one terminal
	// cell, used to map overlay positions onto the character grid.
	// Defaults: 8 and 16.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// LogConfig configures the daemon logger.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info.
	Level string `yaml:"level"`

	// File receives log output. Empty means stderr, except in
	// terminal display mode where the screen belongs to the display
	// and logs are discarded.
	File string `yaml:"file"`
}

// Duration is a time.Duration that decodes from strings like "10s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file is given, and
// the base every file is merged onto.
func Default() *Config {
	return &Config{
		Listener: ListenerConfig{
			Port:        8080,
			IdleTimeout: Duration(10 * time.Second),
		},
		Store: StoreConfig{
			Path: "${XDG_STATE_HOME:-${HOME}/.local/state}/marquee/settings.db",
		},
		Control: ControlConfig{
			SocketPath: "${XDG_RUNTIME_DIR:-/tmp}/marquee.sock",
		},
		Display: DisplayConfig{
			Mode:       DisplayTerminal,
			CellWidth:  8,
			CellHeight: 16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load resolves the config file from path or, when path is empty, the
// MARQUEE_CONFIG environment variable. With neither, it returns the
// expanded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads the file at path over the defaults and expands
// variables.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// decode merges data into c. A .json or .jsonc file is reduced to
// plain JSON, parsed, and re-emitted as YAML so both formats share the
// yaml tags and the Duration decoder.
func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		var tree map[string]any
		if err := json.Unmarshal(jsonc.ToJSON(data), &tree); err != nil {
			return err
		}
		converted, err := yaml.Marshal(tree)
		if err != nil {
			return err
		}
		data = converted
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) expandVariables() {
	c.Store.Path = expandVars(c.Store.Path)
	c.Control.SocketPath = expandVars(c.Control.SocketPath)
	c.Log.File = expandVars(c.Log.File)
}

// varPattern matches ${VAR} and ${VAR:-default}. Defaults may
// themselves contain one level of ${VAR}.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\{[^{}]*\})*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return expandVars(parts[2])
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Listener.Port < 1024 || c.Listener.Port > 65535 {
		errs = append(errs, fmt.Errorf("listener.port must be 1024-65535, got %d", c.Listener.Port))
	}
	if c.Listener.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("listener.idle_timeout must be positive"))
	}
	if c.Store.Path == "" {
		errs = append(errs, fmt.Errorf("store.path is required"))
	}
	if c.Control.SocketPath == "" {
		errs = append(errs, fmt.Errorf("control.socket_path is required"))
	}
	if c.Display.Mode != DisplayTerminal && c.Display.Mode != DisplayLog {
		errs = append(errs, fmt.Errorf("display.mode must be %q or %q, got %q", DisplayTerminal, DisplayLog, c.Display.Mode))
	}
	if c.Display.CellWidth <= 0 || c.Display.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("display.cell_width and display.cell_height must be positive"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the parent directories of the store and the
// control socket.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Store.Path, c.Control.SocketPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q (want debug, info, warn, or error)", name)
	}
	return level, nil
}
