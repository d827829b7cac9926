// ABOUTME: Matches raw input against a parsed Spec across legacy, modifyOtherKeys and Kitty forms.
// ABOUTME: Encodes the per-key legacy exceptions terminals keep even with enhanced protocols on.

package key

// matcher holds one input decoded every way the rules need.
type matcher struct {
	data        []byte
	kittyActive bool
	kitty       Event
	kittyOK     bool
	mok         mokResult
}

func (m *matcher) is(seq string) bool {
	return string(m.data) == seq
}

func (m *matcher) isByte(b byte) bool {
	return len(m.data) == 1 && m.data[0] == b
}

func (m *matcher) kittyMatches(code Code, mod Modifier) bool {
	if !m.kittyOK {
		return false
	}
	if !code.IsNamed() {
		ev := m.kitty
		ev.Code.Rune = foldLetter(ev.Code.Rune)
		return ev.Matches(code, mod)
	}
	return m.kitty.Matches(code, mod)
}

func (m *matcher) kittyRune(cp rune, mod Modifier) bool {
	return m.kittyMatches(RuneCode(cp), mod)
}

func (m *matcher) encoded(cp rune, mod Modifier) bool {
	return m.kittyRune(cp, mod) || m.mok.matches(cp, mod)
}

// namedFuncKeys are matched through the legacy table plus Kitty decodes.
var namedFuncKeys = map[string]NamedKey{
	"insert":   Insert,
	"delete":   Delete,
	"home":     Home,
	"end":      End,
	"pageup":   PageUp,
	"pagedown": PageDown,
	"clear":    Clear,
}

var functionKeys = map[string]NamedKey{
	"f1": F1, "f2": F2, "f3": F3, "f4": F4, "f5": F5, "f6": F6,
	"f7": F7, "f8": F8, "f9": F9, "f10": F10, "f11": F11, "f12": F12,
}

// Matches reports whether data is the key described by s.
func (s Spec) Matches(data []byte, kittyActive bool) bool {
	m := &matcher{data: data, kittyActive: kittyActive, mok: decodeModifyOtherKeys(data)}
	m.kitty, m.kittyOK = ParseKittySequence(data)

	mod := s.Modifier()
	onlyAlt := s.Alt && !s.Ctrl && !s.Shift
	onlyCtrl := s.Ctrl && !s.Alt && !s.Shift
	onlyShift := s.Shift && !s.Ctrl && !s.Alt

	switch s.Key {
	case "escape":
		if mod != 0 {
			return false
		}
		return m.isByte(0x1b) || m.kittyRune(cpEscape, 0)

	case "space":
		if onlyCtrl && m.isByte(0x00) {
			return true
		}
		if onlyAlt && !kittyActive && m.is("\x1b ") {
			return true
		}
		if mod == 0 {
			return m.isByte(' ') || m.kittyRune(cpSpace, 0)
		}
		return m.encoded(cpSpace, mod)

	case "tab":
		if onlyShift {
			return m.is("\x1b[Z") || m.encoded(cpTab, ModShift)
		}
		if onlyAlt && m.is("\x1b\t") {
			return true
		}
		if mod == 0 {
			return m.isByte('\t') || m.kittyRune(cpTab, 0)
		}
		return m.encoded(cpTab, mod)

	case "enter":
		if onlyAlt && m.is("\x1b\r") {
			return true
		}
		if mod == 0 {
			return m.isByte('\r') || m.isByte('\n') || m.is("\x1bOM") ||
				m.kittyRune(cpEnter, 0) || m.kittyRune(cpKPEnter, 0)
		}
		return m.encoded(cpEnter, mod) || m.encoded(cpKPEnter, mod)

	case "backspace":
		if onlyAlt {
			return m.is("\x1b\x7f") || m.is("\x1b\x08") || m.encoded(cpBackspace, ModAlt)
		}
		if mod == 0 {
			return m.isByte(0x7f) || m.isByte(0x08) || m.kittyRune(cpBackspace, 0)
		}
		return m.encoded(cpBackspace, mod)

	case "up", "down":
		named, altSeq := Up, "\x1bp"
		if s.Key == "down" {
			named, altSeq = Down, "\x1bn"
		}
		if onlyAlt {
			return m.is(altSeq) || m.kittyMatches(NamedCode(named), ModAlt)
		}
		return m.namedKey(s.Key, named, mod)

	case "left", "right":
		named, csiAlt, csiCtrl, escUpper, escLower := Left, "\x1b[1;3D", "\x1b[1;5D", "\x1bB", "\x1bb"
		if s.Key == "right" {
			named, csiAlt, csiCtrl, escUpper, escLower = Right, "\x1b[1;3C", "\x1b[1;5C", "\x1bF", "\x1bf"
		}
		if onlyAlt {
			return m.is(csiAlt) || (!kittyActive && m.is(escUpper)) || m.is(escLower) ||
				m.kittyMatches(NamedCode(named), ModAlt)
		}
		if onlyCtrl {
			return m.is(csiCtrl) || matchesLegacyModified(data, s.Key, ModCtrl) ||
				m.kittyMatches(NamedCode(named), ModCtrl)
		}
		return m.namedKey(s.Key, named, mod)
	}

	if named, ok := namedFuncKeys[s.Key]; ok {
		return m.namedKey(s.Key, named, mod)
	}

	if named, ok := functionKeys[s.Key]; ok {
		if mod == 0 {
			return MatchesLegacySequence(data, s.Key)
		}
		return m.kittyMatches(NamedCode(named), mod)
	}

	if len(s.Key) == 1 {
		return m.character(s, mod)
	}
	return false
}

// namedKey applies the shared rule for keys with legacy table entries.
func (m *matcher) namedKey(name string, named NamedKey, mod Modifier) bool {
	if mod == 0 {
		return MatchesLegacySequence(m.data, name) || m.kittyMatches(NamedCode(named), 0)
	}
	return matchesLegacyModified(m.data, name, mod) || m.kittyMatches(NamedCode(named), mod)
}

// character matches a single graphic ASCII key.
func (m *matcher) character(s Spec, mod Modifier) bool {
	ch := s.Key[0]
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	if ch < '!' || ch > '~' {
		return false
	}

	cp := rune(ch)
	isLetter := ch >= 'a' && ch <= 'z'

	switch {
	case s.Ctrl && s.Alt && !s.Shift && !m.kittyActive && isLetter:
		return len(m.data) == 2 && m.data[0] == 0x1b && m.data[1] == ctrlByte(ch)

	case s.Alt && !s.Ctrl && !s.Shift && !m.kittyActive && isLetter:
		return len(m.data) == 2 && m.data[0] == 0x1b && m.data[1] == ch

	case s.Ctrl && !s.Shift && !s.Alt:
		if isLetter && m.isByte(ctrlByte(ch)) {
			return true
		}
		if !isLetter {
			if b, ok := ctrlSymbolByte(ch); ok && m.isByte(b) {
				return true
			}
		}
		return m.encoded(cp, ModCtrl)

	case s.Shift && !s.Ctrl && !s.Alt:
		if isLetter && m.isByte(ch-('a'-'A')) {
			return true
		}
		return m.encoded(cp, ModShift)

	case mod != 0:
		return m.encoded(cp, mod)
	}

	return m.isByte(ch) || m.kittyRune(cp, 0)
}

// ctrlByte is the C0 control byte a terminal sends for ctrl+letter.
func ctrlByte(letter byte) byte {
	return letter - 'a' + 1
}

// ctrlSymbolByte maps ctrl+symbol to its legacy control byte.
func ctrlSymbolByte(symbol byte) (byte, bool) {
	switch symbol {
	case '@':
		return 0x00, true
	case '[':
		return 0x1b, true
	case '\\':
		return 0x1c, true
	case ']':
		return 0x1d, true
	case '^':
		return 0x1e, true
	case '_', '-':
		return 0x1f, true
	}
	return 0, false
}
