// ABOUTME: Tests for keybindings manager
// ABOUTME: Validates byte-level lookup, conflict detection, validation, merge, reload, watch and format

package keybindings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mauromedda/pi-keys-go/internal/config"
)

func TestManager_DefaultBindings(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	tests := []struct {
		name   string
		data   string
		kitty  bool
		action config.KeyAction
	}{
		{"arrow up", "\x1b[A", false, config.ActionCursorUp},
		{"ss3 down", "\x1bOB", false, config.ActionCursorDown},
		{"ctrl+b", "\x02", false, config.ActionCursorLeft},
		{"alt+left csi", "\x1b[1;3D", false, config.ActionWordLeft},
		{"alt+b legacy", "\x1bb", false, config.ActionWordLeft},
		{"ctrl+right kitty", "\x1b[1;5C", true, config.ActionWordRight},
		{"backspace", "\x7f", false, config.ActionDeleteBack},
		{"alt+backspace", "\x1b\x7f", false, config.ActionDeleteWordLeft},
		{"delete", "\x1b[3~", false, config.ActionDeleteForward},
		{"enter", "\r", false, config.ActionAccept},
		{"kitty enter", "\x1b[13u", true, config.ActionAccept},
		{"shift+enter kitty", "\x1b[13;2u", true, config.ActionNewLine},
		{"alt+enter legacy", "\x1b\r", false, config.ActionNewLine},
		{"escape", "\x1b", false, config.ActionCancel},
		{"ctrl+c", "\x03", false, config.ActionInterrupt},
		{"ctrl+c kitty", "\x1b[99;5u", true, config.ActionInterrupt},
		{"shift+tab", "\x1b[Z", false, config.ActionToggleMode},
		{"page up", "\x1b[5~", false, config.ActionPageUp},
		{"page down kitty", "\x1b[6;1~", true, config.ActionPageDown},
		{"ctrl+a", "\x01", false, config.ActionHome},
		{"end", "\x1b[F", false, config.ActionEnd},
		{"alt+t", "\x1bt", false, config.ActionToggleThinking},
		{"ctrl+shift+p", "\x1b[112;6u", true, config.ActionCycleModel},
		{"ctrl+@", "\x00", false, config.ActionToggleVim},
		{"ctrl+r modifyOtherKeys", "\x1b[27;5;114~", false, config.ActionReload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := m.ActionFor([]byte(tt.data), tt.kitty)
			if got != tt.action {
				t.Errorf("ActionFor(%q, %v) = %q; want %q", tt.data, tt.kitty, got, tt.action)
			}
		})
	}
}

func TestManager_UnboundKey(t *testing.T) {
	t.Parallel()
	m := NewFromBindings(config.NewKeybindings())

	for _, data := range []string{"z", "\x1b[24~", "\x1b[99;1:3u", ""} {
		if action := m.ActionFor([]byte(data), true); action != "" {
			t.Errorf("ActionFor(%q) = %q, want unbound", data, action)
		}
	}
}

func TestManager_DeclarationOrderWins(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	kb.Bindings[config.ActionHistoryUp] = []string{"up"}
	m := NewFromBindings(kb)

	if got := m.ActionFor([]byte("\x1b[A"), false); got != config.ActionCursorUp {
		t.Errorf("ActionFor(up) = %q, want cursorUp", got)
	}
	got := m.ActionsFor([]byte("\x1b[A"), false)
	if len(got) != 2 || got[0] != config.ActionCursorUp || got[1] != config.ActionHistoryUp {
		t.Errorf("ActionsFor(up) = %q", got)
	}
}

func TestManager_Conflicts(t *testing.T) {
	t.Parallel()

	if c := NewFromBindings(config.NewKeybindings()).Conflicts(); len(c) != 0 {
		t.Fatalf("defaults should not conflict, got %+v", c)
	}

	kb := config.NewKeybindings()
	kb.Bindings[config.ActionReload] = []string{"Shift+Control+P"}
	kb.Bindings[config.ActionPaste] = []string{"esc"}
	m := NewFromBindings(kb)

	conflicts := m.Conflicts()
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %+v", conflicts)
	}
	if c := conflicts[0]; c.Key != "escape" || len(c.Actions) != 2 ||
		c.Actions[0] != config.ActionPaste || c.Actions[1] != config.ActionCancel {
		t.Errorf("first conflict = %+v", c)
	}
	if c := conflicts[1]; c.Key != "shift+ctrl+p" || len(c.Actions) != 2 ||
		c.Actions[0] != config.ActionCycleModel || c.Actions[1] != config.ActionReload {
		t.Errorf("second conflict = %+v", c)
	}
}

func TestManager_Validate(t *testing.T) {
	t.Parallel()

	if p := NewFromBindings(config.NewKeybindings()).Validate(); len(p) != 0 {
		t.Fatalf("defaults should validate, got %v", p)
	}

	kb := config.NewKeybindings()
	kb.Bindings[config.ActionPageDown] = []string{"ctrl+pgdwn", "pgdown"}
	kb.Bindings[config.ActionCancel] = []string{"escpe"}
	kb.Bindings[config.ActionReload] = []string{"ctrl+"}
	m := NewFromBindings(kb)

	problems := m.Validate()
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}

	byAction := make(map[config.KeyAction]Problem)
	for _, p := range problems {
		byAction[p.Action] = p
	}
	if p := byAction[config.ActionPageDown]; p.Key != "ctrl+pgdwn" || p.Suggestion != "pagedown" {
		t.Errorf("pageDown problem = %+v", p)
	}
	if p := byAction[config.ActionCancel]; p.Suggestion != "escape" {
		t.Errorf("cancel problem = %+v", p)
	}
	if p := byAction[config.ActionReload]; p.Suggestion != "" {
		t.Errorf("unparseable spec should have no suggestion: %+v", p)
	}
	if s := byAction[config.ActionCancel].String(); !strings.Contains(s, `did you mean "escape"`) {
		t.Errorf("Problem.String() = %q", s)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestManager_MergeGlobalLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	global := filepath.Join(dir, "global.yaml")
	local := filepath.Join(dir, "local.yaml")
	writeFile(t, global, "interrupt: ctrl+g\ncancel: ctrl+q\n")
	writeFile(t, local, "cancel: [escape, ctrl+x]\n")

	m := New(global, local)

	if got := m.ActionFor([]byte("\x07"), false); got != config.ActionInterrupt {
		t.Errorf("ctrl+g = %q, want interrupt from global", got)
	}
	if got := m.ActionFor([]byte("\x03"), false); got != "" {
		t.Errorf("ctrl+c should be unbound after override, got %q", got)
	}
	if got := m.ActionFor([]byte("\x18"), false); got != config.ActionCancel {
		t.Errorf("ctrl+x = %q, want cancel from local", got)
	}
	if got := m.ActionFor([]byte("\x11"), false); got != "" {
		t.Errorf("local should replace global cancel bindings, got %q", got)
	}
}

func TestManager_MissingAndInvalidFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "warp: ctrl+w\n")

	m := New(filepath.Join(dir, "missing.yaml"), bad)
	if got := m.ActionFor([]byte("\r"), false); got != config.ActionAccept {
		t.Errorf("defaults should survive bad files, got %q", got)
	}

	err := m.Reload()
	if !errors.Is(err, config.ErrUnknownAction) {
		t.Errorf("Reload error = %v, want ErrUnknownAction", err)
	}
}

func TestManager_Reload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keybindings.yaml")
	writeFile(t, path, "reload: ctrl+r\n")

	m := New(path, "")
	if got := m.ActionFor([]byte("\x12"), false); got != config.ActionReload {
		t.Fatalf("ctrl+r = %q", got)
	}

	writeFile(t, path, "reload: f5\n")
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := m.ActionFor([]byte("\x12"), false); got != "" {
		t.Errorf("ctrl+r after reload = %q", got)
	}
	if got := m.ActionFor([]byte("\x1b[15~"), false); got != config.ActionReload {
		t.Errorf("f5 after reload = %q", got)
	}
	if got := m.Bindings(config.ActionReload); len(got) != 1 || got[0] != "f5" {
		t.Errorf("Bindings(reload) = %q", got)
	}
}

func TestManager_Watch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keybindings.yaml")
	writeFile(t, path, "paste: ctrl+v\n")
	m := New(path, "")

	reloaded := make(chan error, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- m.Watch(ctx, 20*time.Millisecond, func(err error) {
			select {
			case reloaded <- err:
			default:
			}
		})
	}()

	// Rewrite until the new bindings are live; the watcher snapshots the
	// file when it starts, so an early write alone may go unnoticed.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for m.ActionFor([]byte("\x16"), false) != config.ActionToggleVim {
		writeFile(t, path, "toggleVim: ctrl+v\npaste: ctrl+y\n")
		select {
		case err := <-reloaded:
			if err != nil {
				t.Fatalf("reload error: %v", err)
			}
		case <-tick.C:
		case <-deadline:
			t.Fatal("watcher did not reload")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestManager_FormatAll(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	kb.Bindings[config.ActionPaste] = []string{"ctrl+v", "ä"}
	m := NewFromBindings(kb)

	out := m.FormatAll()
	for _, want := range []string{"Keybindings:", "## Navigation", "## Editing", "## History", "## Mode & Control", "cursorUp", "ctrl+shift+p"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatAll missing %q", want)
		}
	}

	// Every row's action column starts at the same display column.
	col := -1
	for line := range strings.SplitSeq(out, "\n") {
		if !strings.HasPrefix(line, "  ") {
			continue
		}
		fields := strings.Fields(line)
		action := fields[len(fields)-1]
		idx := strings.LastIndex(line, action)
		width := len([]rune(line[:idx]))
		if col == -1 {
			col = width
		} else if width != col {
			t.Errorf("misaligned row %q: action at %d, want %d", line, width, col)
		}
	}
}

func TestManager_FormatMarkdown(t *testing.T) {
	t.Parallel()

	kb := config.NewKeybindings()
	kb.Bindings[config.ActionPaste] = []string{"ctrl+|"}
	md := NewFromBindings(kb).FormatMarkdown()

	for _, want := range []string{
		"# Keybindings\n",
		"## Navigation\n\n| Keys | Action |\n|---|---|\n| `up` | cursorUp |\n",
		"| `left`, `ctrl+b` | cursorLeft |",
		"| `ctrl+\\|` | paste |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("FormatMarkdown missing %q in:\n%s", want, md)
		}
	}
}
