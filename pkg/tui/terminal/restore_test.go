// ABOUTME: Tests for RecoverGoroutine and Reset panic-path cleanup
// ABOUTME: Verifies goroutine panics are caught, keyboard modes reset and raw mode left

package terminal

import (
	"strings"
	"testing"
)

func TestRecoverGoroutine_CatchesPanic(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	if _, err := Open(vt, Modes{Kitty: true, BracketedPaste: true}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(vt)
		panic("test goroutine panic")
	}()

	<-done

	if vt.IsRawMode() {
		t.Error("expected raw mode to be left on goroutine panic")
	}
	if !strings.Contains(vt.Output(), ResetSequence) {
		t.Errorf("expected reset sequence in output, got %q", vt.Output())
	}
	if len(vt.KittyStack()) != 0 || vt.BracketedPaste() {
		t.Errorf("modes left enabled: stack=%v paste=%v", vt.KittyStack(), vt.BracketedPaste())
	}
}

func TestRecoverGoroutine_NoPanic(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(vt)
	}()

	<-done

	if vt.ExitCount() != 0 {
		t.Error("ExitRawMode should not be called when no panic occurs")
	}
	if vt.Output() != "" {
		t.Errorf("nothing should be written without a panic, got %q", vt.Output())
	}
}
