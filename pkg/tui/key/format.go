// ABOUTME: Renders decoded codes and modifier bitmasks as canonical key names.
// ABOUTME: Modifier prefixes always come out as shift+, ctrl+, alt+ in that order.

package key

import "strings"

// KeyName returns the canonical token for code without modifiers.
// Codes outside the named set and printable ASCII have no name.
func KeyName(code Code) (string, bool) {
	if code.IsNamed() {
		name := code.Named.String()
		return name, name != ""
	}

	switch cp := code.Rune; {
	case cp == cpEscape:
		return "escape", true
	case cp == cpTab:
		return "tab", true
	case cp == cpEnter, cp == cpKPEnter:
		return "enter", true
	case cp == cpSpace:
		return "space", true
	case cp == cpBackspace:
		return "backspace", true
	case cp >= 'A' && cp <= 'Z':
		return letters[cp-'A'], true
	case cp >= '!' && cp <= '~':
		return printableName(byte(cp)), true
	}
	return "", false
}

// FormatKey renders code with mod as a canonical key name. Lock bits are ignored.
func FormatKey(code Code, mod Modifier) (string, bool) {
	name, ok := KeyName(code)
	if !ok {
		return "", false
	}
	mod = mod.Unlocked()
	if mod == 0 {
		return name, true
	}
	return withModifiers(mod, name), true
}

func withModifiers(mod Modifier, name string) string {
	var b strings.Builder
	b.Grow(16)
	if mod&ModShift != 0 {
		b.WriteString("shift+")
	}
	if mod&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mod&ModAlt != 0 {
		b.WriteString("alt+")
	}
	b.WriteString(name)
	return b.String()
}

// formatEvent prefers the base-layout key so names stay layout independent.
func formatEvent(ev Event) (string, bool) {
	code := ev.Code
	if ev.HasBaseLayoutKey {
		code = RuneCode(ev.BaseLayoutKey)
	}
	return FormatKey(code, ev.Modifier)
}

// foldLetter maps ASCII uppercase letters to lowercase and leaves everything else.
func foldLetter(cp rune) rune {
	if cp >= 'A' && cp <= 'Z' {
		return cp + ('a' - 'A')
	}
	return cp
}
