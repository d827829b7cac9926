// ABOUTME: ParseKey normalizes raw terminal input into canonical key names.
// ABOUTME: Tries single bytes, the legacy table, modifyOtherKeys, Kitty, then ESC pairs.

// Package key decodes terminal key input. It understands single control
// bytes, VT100/xterm legacy sequences, xterm modifyOtherKeys and the Kitty
// keyboard protocol, and matches raw input against key specs such as
// "ctrl+alt+delete" regardless of which encoding the terminal used.
//
// Every function is pure and safe for concurrent use. Malformed input is
// never an error: it simply yields no name or no match.
package key

// ParseKey returns the canonical key name for data.
// kittyActive tells whether the Kitty protocol was negotiated, which turns
// off legacy ESC-prefix Alt parsing for most keys.
func ParseKey(data []byte, kittyActive bool) (string, bool) {
	if len(data) == 1 {
		return parseSingleByte(data[0])
	}
	if len(data) == 0 || data[0] != 0x1b {
		return "", false
	}

	if name, ok := legacyName(data); ok {
		return name, true
	}

	if mod, cp, ok := parseModifyOtherKeys(data); ok {
		return FormatKey(RuneCode(cp), mod)
	}

	if ev, ok := ParseKittySequence(data); ok {
		return formatEvent(ev)
	}

	if len(data) == 2 {
		return parseEscPair(data[1], kittyActive)
	}

	switch string(data) {
	case "\x1b[Z":
		return "shift+tab", true
	case "\x1bOM":
		return "enter", true // keypad enter
	}
	return "", false
}

func parseSingleByte(b byte) (string, bool) {
	switch {
	case b == 0x1b:
		return "escape", true
	case b == '\t':
		return "tab", true
	case b == '\r', b == '\n':
		return "enter", true
	case b == 0x00:
		return "ctrl+space", true
	case b == ' ':
		return "space", true
	case b == 0x7f, b == 0x08:
		return "backspace", true
	case b == 0x1c:
		return `ctrl+\`, true
	case b == 0x1d:
		return "ctrl+]", true
	case b == 0x1e:
		return "ctrl+^", true
	case b == 0x1f:
		return "ctrl+_", true
	case b >= 1 && b <= 26:
		return ctrlLetters[b-1], true
	case b >= 'a' && b <= 'z':
		return letters[b-'a'], true
	case b >= '!' && b <= '~':
		return printableName(b), true
	}
	return "", false
}

// parseEscPair decodes ESC followed by one byte.
func parseEscPair(b byte, kittyActive bool) (string, bool) {
	// Terminals keep these ESC-prefixed even in Kitty disambiguate mode.
	switch b {
	case 0x7f, 0x08:
		return "alt+backspace", true
	case '\r':
		return "alt+enter", true
	case '\t':
		return "alt+tab", true
	}

	if kittyActive {
		return "", false
	}

	switch {
	case b == ' ':
		return "alt+space", true
	case b == 'B':
		return "alt+left", true
	case b == 'F':
		return "alt+right", true
	case b >= 1 && b <= 26:
		return ctrlAltLetters[b-1], true
	case b >= 'a' && b <= 'z':
		return altLetters[b-'a'], true
	}
	return "", false
}
