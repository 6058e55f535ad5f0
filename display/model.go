// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/marquee/overlay"
)

// Size of the screen assumed before the first WindowSizeMsg.
const (
	defaultColumns = 80
	defaultRows    = 24
)

// boldFontSize is the font size from which text is drawn bold, the
// closest a terminal gets to larger type.
const boldFontSize = 30

// Render commands, delivered to the model through tea.Program.Send.
type (
	setTextMsg            struct{ text string }
	setFontSizeMsg        struct{ size float64 }
	setTextColorMsg       struct{ color overlay.ARGB }
	setBackgroundColorMsg struct{ color overlay.ARGB }
	setInputBlockingMsg   struct{ blocking bool }
	setPositionMsg        struct{ position overlay.Position }
	setDragAttachedMsg    struct{ attached bool }
)

// model is the bubbletea model of the terminal overlay.
type model struct {
	renderer   *lipgloss.Renderer
	cellWidth  int
	cellHeight int
	mailbox    *dragMailbox

	width  int
	height int

	text         string
	fontSize     float64
	textColor    overlay.ARGB
	background   overlay.ARGB
	blocking     bool
	position     overlay.Position
	dragAttached bool

	dragging bool
	pressX   int
	pressY   int
}

func newModel(renderer *lipgloss.Renderer, cellWidth, cellHeight int, mailbox *dragMailbox) model {
	return model{
		renderer:   renderer,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		mailbox:    mailbox,
		text:       overlay.InitialText,
		fontSize:   overlay.DefaultFontSize,
		textColor:  overlay.DefaultTextColor,
		background: overlay.BackgroundColor(0),
		blocking:   true,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch message.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height

	case tea.MouseMsg:
		m.handleMouse(message)

	case setTextMsg:
		m.text = message.text
	case setFontSizeMsg:
		m.fontSize = message.size
	case setTextColorMsg:
		m.textColor = message.color
	case setBackgroundColorMsg:
		m.background = message.color
	case setInputBlockingMsg:
		m.blocking = message.blocking
		if m.blocking {
			m.dragging = false
		}
	case setPositionMsg:
		m.position = message.position
	case setDragAttachedMsg:
		m.dragAttached = message.attached
		if !m.dragAttached {
			m.dragging = false
		}
	}
	return m, nil
}

// handleMouse turns a left-button press on the box and the motion that
// follows into drag gestures. The offsets are measured from the press
// point and converted from cells to pixels.
func (m *model) handleMouse(message tea.MouseMsg) {
	if m.blocking || !m.dragAttached || m.mailbox == nil {
		return
	}

	switch {
	case message.Action == tea.MouseActionPress && message.Button == tea.MouseButtonLeft:
		left, top, width, height := m.boxBounds()
		if message.X < left || message.X >= left+width || message.Y < top || message.Y >= top+height {
			return
		}
		m.dragging = true
		m.pressX, m.pressY = message.X, message.Y
		m.mailbox.start()

	case message.Action == tea.MouseActionMotion && m.dragging:
		m.mailbox.move((message.X-m.pressX)*m.cellWidth, (message.Y-m.pressY)*m.cellHeight)

	case message.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m model) screenSize() (columns, rows int) {
	columns, rows = m.width, m.height
	if columns <= 0 {
		columns = defaultColumns
	}
	if rows <= 0 {
		rows = defaultRows
	}
	return columns, rows
}

// canvasRows is the number of rows available to the box; the last row
// holds the footer.
func (m model) canvasRows() int {
	_, rows := m.screenSize()
	return max(rows-1, 1)
}

func (m model) renderBox() []string {
	columns, _ := m.screenSize()
	foreground, fill, transparent := boxColors(m.textColor, m.background)

	style := m.renderer.NewStyle().
		Foreground(foreground).
		Padding(0, 1).
		Bold(m.fontSize >= boldFontSize)
	if !transparent {
		style = style.Background(fill)
	}
	if lipgloss.Width(m.text)+2 > columns {
		style = style.Width(columns)
	}
	return strings.Split(style.Render(m.text), "\n")
}

// boxBounds returns the box's top-left cell and size, with the
// position clamped so the whole box stays on screen.
func (m model) boxBounds() (left, top, width, height int) {
	box := m.renderBox()
	width = ansi.StringWidth(box[0])
	height = len(box)
	left, top = m.anchor(width, height)
	return left, top, width, height
}

func (m model) anchor(boxWidth, boxHeight int) (column, row int) {
	columns, _ := m.screenSize()
	column = clamp(m.position.X/m.cellWidth, 0, columns-boxWidth)
	row = clamp(m.position.Y/m.cellHeight, 0, m.canvasRows()-boxHeight)
	return column, row
}

func (m model) View() string {
	columns, _ := m.screenSize()
	rows := m.canvasRows()

	blank := strings.Repeat(" ", columns)
	canvasLines := make([]string, rows)
	for index := range canvasLines {
		canvasLines[index] = blank
	}

	box := m.renderBox()
	column, row := m.anchor(ansi.StringWidth(box[0]), len(box))
	view := spliceOverlay(strings.Join(canvasLines, "\n"), box, column, row)

	return view + "\n" + m.footer(columns)
}

func (m model) footer(columns int) string {
	mode := "locked"
	if !m.blocking {
		mode = "unlocked, drag to move"
	}
	line := fmt.Sprintf(" size %g  %s  x=%d y=%d  q quit", m.fontSize, mode, m.position.X, m.position.Y)
	return m.renderer.NewStyle().Faint(true).Render(ansi.Truncate(line, columns, ""))
}

func clamp(value, low, high int) int {
	if high < low {
		high = low
	}
	return min(max(value, low), high)
}
