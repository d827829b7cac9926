// ABOUTME: E2E tests for the interactive inspector: key decoding and ctrl+c quit
// ABOUTME: Drives the real binary through a PTY in both Kitty and legacy modes

package e2e

import (
	"testing"
	"time"

	"github.com/creack/pty"
)

func TestInspect_CtrlC_Exits(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKeys(t)
	defer s.close()

	s.expectStringTimeout(t, "press keys to inspect", 5*time.Second)
	s.sendCtrl(t, 'c')
	s.waitExit(t, 5*time.Second)
}

func TestInspect_DecodesKitty(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKeys(t, "-kitty")
	defer s.close()

	s.expectStringTimeout(t, "(kitty)", 5*time.Second)

	// The push request reaches the PTY before the notice.
	s.expectStringTimeout(t, "\x1b[>1u", time.Second)

	s.send(t, "\x1b[A")
	s.expectStringTimeout(t, "cursorUp", 5*time.Second)

	s.send(t, "\x1b[112;6u")
	s.expectStringTimeout(t, "shift+ctrl+p", 5*time.Second)
	s.expectStringTimeout(t, "cycleModel", 5*time.Second)

	s.send(t, "\x1b[99;5u")
	s.waitExit(t, 5*time.Second)

	// Close pops the pushed flags.
	s.expectStringTimeout(t, "\x1b[<u", time.Second)
}

func TestInspect_DecodesLegacy(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKeys(t, "-kitty=false")
	defer s.close()

	s.expectStringTimeout(t, "modifyOtherKeys", 5*time.Second)

	s.send(t, "\x1b[1;5D")
	s.expectStringTimeout(t, "ctrl+left", 5*time.Second)

	s.send(t, "\x1b[27;5;114~")
	s.expectStringTimeout(t, "reload", 5*time.Second)

	s.sendCtrl(t, 'c')
	s.waitExit(t, 5*time.Second)
}

func TestInspect_ReportsResize(t *testing.T) {
	if testing.Short() {
		t.Skip("e2e tests skipped in short mode")
	}

	s := startKeys(t)
	defer s.close()

	s.expectStringTimeout(t, "press keys to inspect", 5*time.Second)

	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: 30, Cols: 90}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}
	s.expectStringTimeout(t, "resized to 90x30", 5*time.Second)

	s.sendCtrl(t, 'c')
	s.waitExit(t, 5*time.Second)
}
