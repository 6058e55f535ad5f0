// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// poolSize covers the synchronizer's writes plus one concurrent Load.
const poolSize = 2

// connectionPragmas run on every new connection. WAL lets a status
// reader open the file while the daemon writes; NORMAL synchronous
// survives a process crash without an fsync per setting change.
var connectionPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
}

// openPool opens the database at path, creating the file and the
// settings table if needed. Connections are prepared lazily.
func openPool(path string) (*sqlitex.Pool, error) {
	if path == "" {
		return nil, fmt.Errorf("settings: database path is required")
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("settings: opening %s: %w", path, err)
	}
	return pool, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	for _, pragma := range connectionPragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("settings: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("settings: creating schema: %w", err)
	}
	return nil
}
