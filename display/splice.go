// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces the rectangle of canvas starting at column
// anchorX, row anchorY with the box lines. ANSI-aware truncation keeps
// escape sequences on either side of the box intact. Box lines that
// fall outside the canvas rows are dropped.
func spliceOverlay(canvas string, box []string, anchorX, anchorY int) string {
	if len(box) == 0 {
		return canvas
	}
	if anchorX < 0 {
		anchorX = 0
	}

	canvasLines := strings.Split(canvas, "\n")
	boxWidth := ansi.StringWidth(box[0])

	for index, boxLine := range box {
		row := anchorY + index
		if row < 0 || row >= len(canvasLines) {
			continue
		}

		canvasLine := canvasLines[row]
		canvasWidth := ansi.StringWidth(canvasLine)

		var result strings.Builder
		if anchorX > 0 {
			result.WriteString(ansi.Truncate(canvasLine, anchorX, ""))
		}
		result.WriteString("\x1b[0m")
		result.WriteString(boxLine)
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + boxWidth; suffixStart < canvasWidth {
			result.WriteString(ansi.TruncateLeft(canvasLine, suffixStart, ""))
		}

		canvasLines[row] = result.String()
	}

	return strings.Join(canvasLines, "\n")
}
