// ABOUTME: Tests for keyboard mode sequences and Session lifecycle
// ABOUTME: Checks the exact bytes written on open and close for each mode combination

package terminal

import (
	"bytes"
	"errors"
	"testing"
)

func TestPushKittyFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flags   KittyFlags
		want    string
		wantErr bool
	}{
		{KittyDisambiguate, "\x1b[>1u", false},
		{KittyDisambiguate | KittyReportEvents, "\x1b[>3u", false},
		{KittyAllFlags, "\x1b[>31u", false},
		{0, "\x1b[>0u", false},
		{32, "", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		err := PushKittyFlags(&buf, tt.flags)
		if (err != nil) != tt.wantErr {
			t.Errorf("PushKittyFlags(%d) err = %v", tt.flags, err)
			continue
		}
		if buf.String() != tt.want {
			t.Errorf("PushKittyFlags(%d) wrote %q, want %q", tt.flags, buf.String(), tt.want)
		}
	}
}

func TestModeToggles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_ = SetBracketedPaste(&buf, true)
	_ = SetBracketedPaste(&buf, false)
	_ = SetModifyOtherKeys(&buf, true)
	_ = SetModifyOtherKeys(&buf, false)
	_ = PopKittyFlags(&buf)
	_ = QueryKittyFlags(&buf)

	want := "\x1b[?2004h\x1b[?2004l\x1b[>4;2m\x1b[>4;0m\x1b[<u\x1b[?u"
	if buf.String() != want {
		t.Errorf("wrote %q, want %q", buf.String(), want)
	}
}

func TestSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modes     Modes
		wantOpen  string
		wantClose string
		kitty     bool
		stack     int
	}{
		{
			name:      "kitty with paste",
			modes:     Modes{Kitty: true, KittyFlags: KittyDisambiguate | KittyReportEvents, BracketedPaste: true},
			wantOpen:  "\x1b[>3u\x1b[?2004h",
			wantClose: "\x1b[?2004l\x1b[<u",
			kitty:     true,
			stack:     1,
		},
		{
			name:      "kitty default flags",
			modes:     Modes{Kitty: true, ModifyOtherKeys: true},
			wantOpen:  "\x1b[>1u",
			wantClose: "\x1b[<u",
			kitty:     true,
			stack:     1,
		},
		{
			name:      "modifyOtherKeys",
			modes:     Modes{ModifyOtherKeys: true},
			wantOpen:  "\x1b[>4;2m",
			wantClose: "\x1b[>4;0m",
		},
		{
			name:  "raw only",
			modes: Modes{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			vt := NewVirtualTerminal(80, 24)

			s, err := Open(vt, tt.modes)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if !vt.IsRawMode() {
				t.Error("Open should enter raw mode")
			}
			if got := vt.Output(); got != tt.wantOpen {
				t.Errorf("open wrote %q, want %q", got, tt.wantOpen)
			}
			if s.KittyActive() != tt.kitty {
				t.Errorf("KittyActive() = %v, want %v", s.KittyActive(), tt.kitty)
			}

			if got := vt.KittyStack(); len(got) != tt.stack {
				t.Errorf("kitty stack after open = %v, want %d entries", got, tt.stack)
			}
			if vt.ModifyOtherKeys() != tt.modes.ModifyOtherKeys && !tt.kitty {
				t.Errorf("modifyOtherKeys = %v after open", vt.ModifyOtherKeys())
			}
			if vt.BracketedPaste() != tt.modes.BracketedPaste {
				t.Errorf("bracketed paste = %v after open", vt.BracketedPaste())
			}

			vt.ClearOutput()
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("second Close: %v", err)
			}
			if got := vt.Output(); got != tt.wantClose {
				t.Errorf("close wrote %q, want %q", got, tt.wantClose)
			}
			if len(vt.KittyStack()) != 0 || vt.ModifyOtherKeys() || vt.BracketedPaste() {
				t.Errorf("modes left enabled: stack=%v mok=%v paste=%v",
					vt.KittyStack(), vt.ModifyOtherKeys(), vt.BracketedPaste())
			}
			if vt.IsRawMode() || vt.ExitCount() != 1 {
				t.Errorf("raw mode not left exactly once: raw=%v exits=%d", vt.IsRawMode(), vt.ExitCount())
			}
		})
	}
}

type failingTerminal struct {
	*VirtualTerminal
	rawErr error
}

func (f failingTerminal) EnterRawMode() error { return f.rawErr }

func TestSession_OpenFailures(t *testing.T) {
	t.Parallel()

	ft := failingTerminal{VirtualTerminal: NewVirtualTerminal(80, 24), rawErr: ErrNotTerminal}
	if _, err := Open(ft, Modes{Kitty: true}); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("Open err = %v, want ErrNotTerminal", err)
	}
	if ft.Output() != "" {
		t.Errorf("nothing should be written when raw mode fails, got %q", ft.Output())
	}

	vt := NewVirtualTerminal(80, 24)
	if _, err := Open(vt, Modes{Kitty: true, KittyFlags: 64}); err == nil {
		t.Fatal("expected error for invalid flags")
	}
	if vt.IsRawMode() {
		t.Error("failed Open should leave raw mode")
	}
}
