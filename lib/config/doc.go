// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the marquee daemon configuration.
//
// Configuration comes from a single file named by the --config flag
// or, failing that, the MARQUEE_CONFIG environment variable. With
// neither set, [Default] is used unchanged. There is no search path:
// what runs is what the operator pointed at.
//
// Files ending in .json or .jsonc are JSON with comments and trailing
// commas allowed; anything else is YAML. Both use the same field names:
//
//	listener:
//	  port: 8080
//	  autostart: true
//	  idle_timeout: 10s
//	store:
//	  path: ${XDG_STATE_HOME:-${HOME}/.local/state}/marquee/settings.db
//	control:
//	  socket_path: ${XDG_RUNTIME_DIR:-/tmp}/marquee.sock
//	display:
//	  mode: terminal
//	  cell_width: 8
//	  cell_height: 16
//	log:
//	  level: info
//	  file: ""
//
// ${VAR} and ${VAR:-default} references in path fields are expanded
// from the environment after loading.
package config
