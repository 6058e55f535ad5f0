// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"log/slog"

	"github.com/bureau-foundation/marquee/overlay"
)

// Log is a headless overlay.RenderTarget that writes each render
// command to the structured log.
type Log struct {
	logger *slog.Logger
}

var _ overlay.RenderTarget = (*Log)(nil)

// NewLog returns a Log target writing to logger.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Log{logger: logger.With("component", "display")}
}

func (l *Log) SetText(text string) {
	l.logger.Info("overlay text", "text", text)
}

func (l *Log) SetFontSize(size float64) {
	l.logger.Info("overlay font size", "size", size)
}

func (l *Log) SetTextColor(color overlay.ARGB) {
	l.logger.Info("overlay text color", "color", color.String())
}

func (l *Log) SetBackgroundColor(color overlay.ARGB) {
	l.logger.Info("overlay background color", "color", color.String())
}

func (l *Log) SetInputBlocking(blocking bool) {
	l.logger.Info("overlay input blocking", "blocking", blocking)
}

func (l *Log) SetPosition(position overlay.Position) {
	l.logger.Info("overlay position", "x", position.X, "y", position.Y)
}

func (l *Log) AttachDragHandler() {
	l.logger.Info("overlay drag handler attached")
}

func (l *Log) DetachDragHandler() {
	l.logger.Info("overlay drag handler detached")
}
