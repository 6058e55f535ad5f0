// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/marquee/overlay"
)

// Keys of the settings table.
const (
	KeyLockPosition      = "lock_position"
	KeyWindowX           = "window_x"
	KeyWindowY           = "window_y"
	KeyTextColor         = "text_color"
	KeyBackgroundOpacity = "background_opacity"
)

const schema = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value ANY
) STRICT;`

const upsertQuery = `INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// Config holds the parameters for opening a Store.
type Config struct {
	// Path is the SQLite database file. The parent directory must
	// exist.
	Path string

	// Logger receives open/close and write diagnostics. If nil, a
	// no-op logger is used.
	Logger *slog.Logger
}

// Store is the SQLite-backed settings store. Safe for concurrent use,
// though the overlay Synchronizer is its only writer.
type Store struct {
	pool   *sqlitex.Pool
	path   string
	logger *slog.Logger
}

var _ overlay.SettingsStore = (*Store)(nil)

// Open opens (creating if needed) the settings database at cfg.Path.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := openPool(cfg.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("settings store opened", "path", cfg.Path)
	return &Store{pool: pool, path: cfg.Path, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("settings: closing %s: %w", s.path, err)
	}
	s.logger.Info("settings store closed", "path", s.path)
	return nil
}

// Load reads every durable setting, substituting defaults for keys
// that have never been written.
func (s *Store) Load(ctx context.Context) (overlay.Settings, error) {
	result := overlay.DefaultSettings()

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return result, fmt.Errorf("settings: load: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "SELECT key, value FROM settings", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			key := stmt.ColumnText(0)
			switch key {
			case KeyLockPosition:
				result.Locked = stmt.ColumnInt64(1) != 0
			case KeyWindowX:
				result.Position.X = stmt.ColumnInt(1)
			case KeyWindowY:
				result.Position.Y = stmt.ColumnInt(1)
			case KeyTextColor:
				result.TextColor = overlay.ARGB(uint32(stmt.ColumnInt64(1)))
			case KeyBackgroundOpacity:
				result.BackgroundOpacity = stmt.ColumnFloat(1)
			default:
				s.logger.Debug("ignoring unknown settings key", "key", key)
			}
			return nil
		},
	})
	if err != nil {
		return overlay.DefaultSettings(), fmt.Errorf("settings: load: %w", err)
	}
	return result, nil
}

// SaveLocked writes lock_position.
func (s *Store) SaveLocked(ctx context.Context, locked bool) error {
	value := int64(0)
	if locked {
		value = 1
	}
	return s.write(ctx, map[string]any{KeyLockPosition: value})
}

// SavePosition writes window_x and window_y in one transaction.
func (s *Store) SavePosition(ctx context.Context, position overlay.Position) error {
	return s.write(ctx, map[string]any{
		KeyWindowX: int64(position.X),
		KeyWindowY: int64(position.Y),
	})
}

// SaveTextColor writes text_color as the unsigned 32-bit ARGB value.
func (s *Store) SaveTextColor(ctx context.Context, color overlay.ARGB) error {
	return s.write(ctx, map[string]any{KeyTextColor: int64(uint32(color))})
}

// SaveBackgroundOpacity writes background_opacity.
func (s *Store) SaveBackgroundOpacity(ctx context.Context, opacity float64) error {
	return s.write(ctx, map[string]any{KeyBackgroundOpacity: opacity})
}

func (s *Store) write(ctx context.Context, values map[string]any) (err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return fmt.Errorf("settings: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	for key, value := range values {
		if err = sqlitex.Execute(conn, upsertQuery, &sqlitex.ExecOptions{
			Args: []any{key, value},
		}); err != nil {
			return fmt.Errorf("settings: writing %s: %w", key, err)
		}
	}
	return nil
}
