// ABOUTME: Keyboard reporting modes: Kitty progressive enhancement, modifyOtherKeys, bracketed paste.
// ABOUTME: Session enters raw mode, enables the requested modes and undoes them in reverse on Close.

package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// KittyFlags is the Kitty keyboard protocol progressive enhancement bitmask.
type KittyFlags uint8

const (
	KittyDisambiguate     KittyFlags = 1
	KittyReportEvents     KittyFlags = 2
	KittyReportAlternates KittyFlags = 4
	KittyReportAllKeys    KittyFlags = 8
	KittyReportText       KittyFlags = 16

	KittyAllFlags = KittyDisambiguate | KittyReportEvents | KittyReportAlternates |
		KittyReportAllKeys | KittyReportText
)

const (
	seqKittyPop           = "\x1b[<u"
	seqModifyOtherKeysOn  = "\x1b[>4;2m"
	seqModifyOtherKeysOff = "\x1b[>4;0m"
	seqBracketedPasteOn   = "\x1b[?2004h"
	seqBracketedPasteOff  = "\x1b[?2004l"
	seqShowCursor         = "\x1b[?25h"
	seqQueryKittyFlags    = "\x1b[?u"
)

// ResetSequence undoes every mode a Session can enable. Popping an empty
// Kitty stack is harmless.
const ResetSequence = seqKittyPop + seqModifyOtherKeysOff + seqBracketedPasteOff + seqShowCursor

// PushKittyFlags pushes flags onto the terminal's Kitty keyboard stack.
func PushKittyFlags(w io.Writer, flags KittyFlags) error {
	if flags&^KittyAllFlags != 0 {
		return fmt.Errorf("invalid kitty flags %d", flags)
	}
	_, err := fmt.Fprintf(w, "\x1b[>%du", flags)
	return err
}

// PopKittyFlags pops one entry from the Kitty keyboard stack.
func PopKittyFlags(w io.Writer) error {
	_, err := io.WriteString(w, seqKittyPop)
	return err
}

// QueryKittyFlags asks the terminal for its current flags. Supporting
// terminals answer with CSI ? flags u.
func QueryKittyFlags(w io.Writer) error {
	_, err := io.WriteString(w, seqQueryKittyFlags)
	return err
}

// SetModifyOtherKeys toggles xterm's modifyOtherKeys level 2.
func SetModifyOtherKeys(w io.Writer, on bool) error {
	seq := seqModifyOtherKeysOff
	if on {
		seq = seqModifyOtherKeysOn
	}
	_, err := io.WriteString(w, seq)
	return err
}

// SetBracketedPaste toggles bracketed paste mode.
func SetBracketedPaste(w io.Writer, on bool) error {
	seq := seqBracketedPasteOff
	if on {
		seq = seqBracketedPasteOn
	}
	_, err := io.WriteString(w, seq)
	return err
}

// Modes selects what a Session enables.
type Modes struct {
	// Kitty pushes KittyFlags; when false and ModifyOtherKeys is set,
	// xterm's modifyOtherKeys is used instead.
	Kitty           bool
	KittyFlags      KittyFlags
	ModifyOtherKeys bool
	BracketedPaste  bool
}

// Session owns a terminal in raw mode with keyboard modes enabled.
type Session struct {
	t     Terminal
	modes Modes

	closeOnce sync.Once
	closeErr  error
}

// Open puts t into raw mode and enables modes. On failure everything
// already enabled is undone.
func Open(t Terminal, modes Modes) (*Session, error) {
	if modes.Kitty && modes.KittyFlags == 0 {
		modes.KittyFlags = KittyDisambiguate
	}
	if modes.Kitty {
		modes.ModifyOtherKeys = false
	}

	if err := t.EnterRawMode(); err != nil {
		return nil, err
	}
	s := &Session{t: t, modes: modes}

	var err error
	switch {
	case modes.Kitty:
		err = PushKittyFlags(t, modes.KittyFlags)
	case modes.ModifyOtherKeys:
		err = SetModifyOtherKeys(t, true)
	}
	if err == nil && modes.BracketedPaste {
		err = SetBracketedPaste(t, true)
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("enabling keyboard modes: %w", err), s.Close())
	}
	return s, nil
}

// KittyActive reports whether the Kitty protocol was pushed.
func (s *Session) KittyActive() bool { return s.modes.Kitty }

// Terminal returns the underlying terminal.
func (s *Session) Terminal() Terminal { return s.t }

// Close disables the enabled modes in reverse order and leaves raw mode.
// It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.modes.BracketedPaste {
			errs = append(errs, SetBracketedPaste(s.t, false))
		}
		switch {
		case s.modes.Kitty:
			errs = append(errs, PopKittyFlags(s.t))
		case s.modes.ModifyOtherKeys:
			errs = append(errs, SetModifyOtherKeys(s.t, false))
		}
		errs = append(errs, s.t.ExitRawMode())
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
