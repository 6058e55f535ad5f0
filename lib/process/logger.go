// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates a structured logger writing to w at level. When w
// is a terminal the output is slog's text format; when it is a pipe
// or a file the output is JSON, one record per line.
//
// Callers scope it with With:
//
//	logger := process.NewLogger(os.Stderr, slog.LevelInfo).With("component", "listener")
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
