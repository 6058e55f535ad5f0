// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings persists the durable overlay settings in a single
// SQLite key-value table.
//
// The layout is one row per key in settings(key TEXT PRIMARY KEY,
// value ANY):
//
//	lock_position       integer 0/1   (default 1)
//	window_x            integer       (default 0)
//	window_y            integer       (default 0)
//	text_color          integer ARGB  (default 0xFF0000FF)
//	background_opacity  real          (default 0.0)
//
// Missing keys read back as their defaults, so a fresh database
// behaves like a first run. [Store] implements overlay.SettingsStore.
package settings
