// ABOUTME: ProcessTerminal implements Terminal over the process's stdin/stdout and golang.org/x/term.
// ABOUTME: Manages raw mode state and delegates platform-specific resize handling.

package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by EnterRawMode when stdin is not a TTY.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// ProcessTerminal is a real terminal backed by os.Stdin, os.Stdout and x/term.
type ProcessTerminal struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
	winch    chan os.Signal
}

// NewProcessTerminal returns a ProcessTerminal ready for use.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{in: os.Stdin, out: os.Stdout}
}

// IsTerminal reports whether stdin is attached to a TTY.
func (t *ProcessTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// EnterRawMode switches stdin to raw mode, saving the previous state.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState != nil {
		return nil
	}
	if !t.IsTerminal() {
		return ErrNotTerminal
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Fd returns the output descriptor so color detection sees a TTY.
func (t *ProcessTerminal) Fd() uintptr {
	return t.out.Fd()
}

// Read reads raw key bytes from stdin.
func (t *ProcessTerminal) Read(p []byte) (int, error) {
	return t.in.Read(p)
}

// Write sends bytes to stdout.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to stdout: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
// A nil fn stops listening.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	t.mu.Unlock()

	if fn == nil {
		t.stopResizeListener()
		return
	}
	t.startResizeListener()
}
