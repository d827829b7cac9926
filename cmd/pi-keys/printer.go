// ABOUTME: Text and JSON printers for inspector reports
// ABOUTME: Text output is styled with lipgloss; JSON output is one easyjson object per line

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mailru/easyjson"

	"github.com/mauromedda/pi-keys-go/internal/config"
	"github.com/mauromedda/pi-keys-go/pkg/tui/width"
)

const nameColumn = 22

type printer interface {
	report(r report) error
	notice(format string, args ...any) error
}

// newPrinter returns a printer writing to w. eol is "\r\n" while the
// terminal is in raw mode.
func newPrinter(w io.Writer, jsonOut bool, eol string) printer {
	if jsonOut {
		return &jsonPrinter{w: w, eol: eol}
	}
	re := lipgloss.NewRenderer(w)
	return &textPrinter{
		w:       w,
		eol:     eol,
		name:    re.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		unknown: re.NewStyle().Foreground(lipgloss.Color("1")),
		raw:     re.NewStyle().Faint(true),
		detail:  re.NewStyle().Foreground(lipgloss.Color("6")),
		action:  re.NewStyle().Foreground(lipgloss.Color("5")),
		note:    re.NewStyle().Italic(true).Foreground(lipgloss.Color("3")),
	}
}

type textPrinter struct {
	mu  sync.Mutex
	w   io.Writer
	eol string

	name, unknown, raw, detail, action, note lipgloss.Style
}

func (p *textPrinter) report(r report) error {
	var b strings.Builder

	switch {
	case r.Paste:
		text := string(r.Raw)
		b.WriteString(width.PadRight(p.name.Render("paste"), nameColumn))
		fmt.Fprintf(&b, "%s %s", p.raw.Render(fmt.Sprintf("%d bytes, %d chars", len(r.Raw), width.Graphemes(text))),
			p.detail.Render(fmt.Sprintf("%q", text)))
		return p.line(b.String())
	case r.Name != "":
		b.WriteString(width.PadRight(p.name.Render(r.Name), nameColumn))
	default:
		b.WriteString(width.PadRight(p.unknown.Render("(unknown)"), nameColumn))
	}

	b.WriteString(p.raw.Render(escapeBytes(r.Raw)))
	if r.HasKitty {
		b.WriteString("  ")
		b.WriteString(p.detail.Render(kittySummary(r)))
	}
	if len(r.Actions) > 0 {
		b.WriteString("  → ")
		b.WriteString(p.action.Render(strings.Join(actionNames(r.Actions), ", ")))
	}
	if r.Spec != "" {
		verdict := "no match"
		if r.Matched {
			verdict = "matches"
		}
		fmt.Fprintf(&b, "  %s %s", verdict, r.Spec)
	}
	return p.line(b.String())
}

func kittySummary(r report) string {
	ev := r.Kitty
	parts := []string{"key=" + codeName(ev.Code)}
	if mods := modifierList(ev.Modifier); len(mods) > 0 {
		parts = append(parts, "mods="+strings.Join(mods, "+"))
	}
	if ev.HasShiftedKey {
		parts = append(parts, fmt.Sprintf("shifted=%c", ev.ShiftedKey))
	}
	if ev.HasBaseLayoutKey {
		parts = append(parts, fmt.Sprintf("base=%c", ev.BaseLayoutKey))
	}
	if ev.HasEventType {
		parts = append(parts, ev.EventType.String())
	}
	return strings.Join(parts, " ")
}

func (p *textPrinter) notice(format string, args ...any) error {
	return p.line(p.note.Render(fmt.Sprintf(format, args...)))
}

func (p *textPrinter) line(s string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, s+p.eol)
	return err
}

type jsonPrinter struct {
	mu  sync.Mutex
	w   io.Writer
	eol string
}

func (p *jsonPrinter) report(r report) error {
	data, err := easyjson.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = io.WriteString(p.w, string(data)+p.eol)
	return err
}

// notice is dropped in JSON mode so the stream stays machine readable.
func (p *jsonPrinter) notice(string, ...any) error { return nil }

func actionNames(actions []config.KeyAction) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}
