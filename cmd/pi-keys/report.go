// ABOUTME: Per-event report shared by the text and JSON printers
// ABOUTME: JSON encoding is written by hand against easyjson's jwriter

package main

import (
	"github.com/mailru/easyjson/jwriter"

	"github.com/mauromedda/pi-keys-go/internal/config"
	"github.com/mauromedda/pi-keys-go/pkg/tui/input"
	"github.com/mauromedda/pi-keys-go/pkg/tui/key"
)

type report struct {
	Raw      []byte
	Name     string
	Paste    bool
	Kitty    key.Event
	HasKitty bool
	Actions  []config.KeyAction

	// Spec and Matched are set in -match mode.
	Spec    string
	Matched bool
}

func newReport(ev input.Event, actions []config.KeyAction) report {
	return report{
		Raw:      ev.Raw,
		Name:     ev.Name,
		Paste:    ev.Paste,
		Kitty:    ev.Kitty,
		HasKitty: ev.HasKitty,
		Actions:  actions,
	}
}

// decodeReport builds a report for a complete sequence given on the command line.
func decodeReport(raw []byte, kittyActive bool) report {
	r := report{Raw: raw}
	r.Name, _ = key.ParseKey(raw, kittyActive)
	r.Kitty, r.HasKitty = key.ParseKittySequence(raw)
	return r
}

var modifierNames = []struct {
	bit  key.Modifier
	name string
}{
	{key.ModShift, "shift"},
	{key.ModAlt, "alt"},
	{key.ModCtrl, "ctrl"},
	{8, "super"},
	{16, "hyper"},
	{32, "meta"},
	{key.ModCapsLock, "capslock"},
	{key.ModNumLock, "numlock"},
}

func modifierList(m key.Modifier) []string {
	var out []string
	for _, mn := range modifierNames {
		if m&mn.bit != 0 {
			out = append(out, mn.name)
		}
	}
	return out
}

// codeName names a decoded code, falling back to the character itself.
func codeName(c key.Code) string {
	if name, ok := key.KeyName(c); ok {
		return name
	}
	if c.IsNamed() {
		return ""
	}
	return string(c.Rune)
}

// MarshalEasyJSON implements easyjson.Marshaler.
func (r report) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"raw":`)
	w.String(escapeBytes(r.Raw))
	w.RawString(`,"name":`)
	w.String(r.Name)
	if r.Paste {
		w.RawString(`,"paste":true`)
	}
	if r.HasKitty {
		w.RawString(`,"kitty":`)
		marshalKitty(w, r.Kitty)
	}
	if len(r.Actions) > 0 {
		w.RawString(`,"actions":[`)
		for i, a := range r.Actions {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(string(a))
		}
		w.RawByte(']')
	}
	if r.Spec != "" {
		w.RawString(`,"spec":`)
		w.String(r.Spec)
		w.RawString(`,"matched":`)
		w.Bool(r.Matched)
	}
	w.RawByte('}')
}

func marshalKitty(w *jwriter.Writer, ev key.Event) {
	w.RawString(`{"key":`)
	w.String(codeName(ev.Code))
	if !ev.Code.IsNamed() {
		w.RawString(`,"codepoint":`)
		w.Int32(ev.Code.Rune)
	}
	if ev.HasShiftedKey {
		w.RawString(`,"shifted":`)
		w.Int32(ev.ShiftedKey)
	}
	if ev.HasBaseLayoutKey {
		w.RawString(`,"base":`)
		w.Int32(ev.BaseLayoutKey)
	}
	w.RawString(`,"modifiers":[`)
	for i, name := range modifierList(ev.Modifier) {
		if i > 0 {
			w.RawByte(',')
		}
		w.String(name)
	}
	w.RawByte(']')
	if ev.HasEventType {
		w.RawString(`,"event":`)
		w.String(ev.EventType.String())
	}
	w.RawByte('}')
}
