// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bureau-foundation/marquee/overlay"
)

// TerminalConfig holds the parameters for NewTerminal.
type TerminalConfig struct {
	// CellWidth and CellHeight are the pixel size of one character
	// cell. Must be positive.
	CellWidth  int
	CellHeight int

	// Input and Output default to stdin and stdout.
	Input  io.Reader
	Output io.Writer

	// Profile is the color profile used for rendering. Callers
	// normally pass termenv.EnvColorProfile().
	Profile termenv.Profile

	// Logger receives lifecycle messages. Nil discards.
	Logger *slog.Logger
}

// Terminal is an overlay.RenderTarget drawn by a full-screen
// bubbletea program. Render methods may be called from any goroutine;
// each is delivered to the program as a message. Calls block until
// Run has started the program and return immediately once it has
// exited.
type Terminal struct {
	program *tea.Program
	mailbox *dragMailbox
	logger  *slog.Logger

	mu      sync.Mutex
	handler overlay.DragHandler
}

var _ overlay.RenderTarget = (*Terminal)(nil)

// NewTerminal creates the program. It does not touch the screen until
// Run. The program exits when ctx is cancelled.
func NewTerminal(ctx context.Context, cfg TerminalConfig) *Terminal {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	input := cfg.Input
	if input == nil {
		input = os.Stdin
	}

	// SetColorProfile is needed in addition to WithProfile: the
	// renderer re-detects from the environment otherwise.
	renderer := lipgloss.NewRenderer(output, termenv.WithProfile(cfg.Profile))
	renderer.SetColorProfile(cfg.Profile)

	mailbox := newDragMailbox()
	program := tea.NewProgram(
		newModel(renderer, cfg.CellWidth, cfg.CellHeight, mailbox),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	return &Terminal{program: program, mailbox: mailbox, logger: logger}
}

// SetDragHandler sets the receiver of drag gestures. It must be called
// before Run; gestures are only produced while the handler is
// attached (AttachDragHandler) and input is not blocked.
func (t *Terminal) SetDragHandler(handler overlay.DragHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// Run draws the overlay until the user quits or ctx is cancelled.
// Quitting with q or ctrl+c returns nil.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	handler := t.handler
	t.mu.Unlock()
	if handler != nil {
		go t.mailbox.run(ctx, handler)
	}

	t.logger.Info("terminal display started")
	_, err := t.program.Run()
	t.logger.Info("terminal display stopped")

	if err != nil && (ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled)) {
		return nil
	}
	return err
}

func (t *Terminal) SetText(text string) {
	t.program.Send(setTextMsg{text})
}

func (t *Terminal) SetFontSize(size float64) {
	t.program.Send(setFontSizeMsg{size})
}

func (t *Terminal) SetTextColor(color overlay.ARGB) {
	t.program.Send(setTextColorMsg{color})
}

func (t *Terminal) SetBackgroundColor(color overlay.ARGB) {
	t.program.Send(setBackgroundColorMsg{color})
}

func (t *Terminal) SetInputBlocking(blocking bool) {
	t.program.Send(setInputBlockingMsg{blocking})
}

func (t *Terminal) SetPosition(position overlay.Position) {
	t.program.Send(setPositionMsg{position})
}

func (t *Terminal) AttachDragHandler() {
	t.program.Send(setDragAttachedMsg{attached: true})
}

func (t *Terminal) DetachDragHandler() {
	t.program.Send(setDragAttachedMsg{attached: false})
}

// SurfaceWidth returns the pixel width of the terminal on file, or of
// an 80-column terminal when file is not one.
func SurfaceWidth(file *os.File, cellWidth int) int {
	columns, _, err := term.GetSize(int(file.Fd()))
	if err != nil || columns <= 0 {
		columns = defaultColumns
	}
	return columns * cellWidth
}
