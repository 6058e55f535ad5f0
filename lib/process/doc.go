// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process builds the structured logger of marquee binaries:
// slog's text format on a terminal, JSON lines when redirected.
package process
