// ABOUTME: Legacy escape sequence table for VT100/xterm, rxvt and Linux console key codes.
// ABOUTME: Exact-match lookup only; the table is built at init and never mutated.

package key

// legacySequences maps complete CSI/SS3 sequences to canonical key names.
var legacySequences = map[string]string{
	// Arrows (SS3 and CSI)
	"\x1bOA": "up", "\x1bOB": "down", "\x1bOC": "right", "\x1bOD": "left",
	"\x1b[A": "up", "\x1b[B": "down", "\x1b[C": "right", "\x1b[D": "left",

	// Home/End variants
	"\x1bOH": "home", "\x1bOF": "end",
	"\x1b[H": "home", "\x1b[F": "end",
	"\x1b[1~": "home", "\x1b[7~": "home",
	"\x1b[4~": "end", "\x1b[8~": "end",

	// Clear (keypad 5)
	"\x1b[E": "clear", "\x1bOE": "clear",
	"\x1bOe": "ctrl+clear", "\x1b[e": "shift+clear",

	// Insert/Delete, rxvt uses $ for shift and ^ for ctrl
	"\x1b[2~": "insert", "\x1b[2$": "shift+insert", "\x1b[2^": "ctrl+insert",
	"\x1b[3~": "delete", "\x1b[3$": "shift+delete", "\x1b[3^": "ctrl+delete",

	// Page Up/Down
	"\x1b[5~": "pageup", "\x1b[6~": "pagedown",
	"\x1b[[5~": "pageup", "\x1b[[6~": "pagedown",

	// Shift+arrow
	"\x1b[a": "shift+up", "\x1b[b": "shift+down", "\x1b[c": "shift+right", "\x1b[d": "shift+left",

	// Ctrl+arrow
	"\x1bOa": "ctrl+up", "\x1bOb": "ctrl+down", "\x1bOc": "ctrl+right", "\x1bOd": "ctrl+left",

	// Shift+page/home/end
	"\x1b[5$": "shift+pageup", "\x1b[6$": "shift+pagedown",
	"\x1b[7$": "shift+home", "\x1b[8$": "shift+end",

	// Ctrl+page/home/end
	"\x1b[5^": "ctrl+pageup", "\x1b[6^": "ctrl+pagedown",
	"\x1b[7^": "ctrl+home", "\x1b[8^": "ctrl+end",

	// Function keys: SS3, CSI tilde, Linux console
	"\x1bOP": "f1", "\x1bOQ": "f2", "\x1bOR": "f3", "\x1bOS": "f4",
	"\x1b[11~": "f1", "\x1b[12~": "f2", "\x1b[13~": "f3", "\x1b[14~": "f4",
	"\x1b[[A": "f1", "\x1b[[B": "f2", "\x1b[[C": "f3", "\x1b[[D": "f4", "\x1b[[E": "f5",
	"\x1b[15~": "f5", "\x1b[17~": "f6", "\x1b[18~": "f7", "\x1b[19~": "f8",
	"\x1b[20~": "f9", "\x1b[21~": "f10", "\x1b[23~": "f11", "\x1b[24~": "f12",

	// Alt+arrow as sent by terminals that map it to readline word motion
	"\x1bb": "alt+left", "\x1bf": "alt+right", "\x1bp": "alt+up", "\x1bn": "alt+down",
}

// MatchesLegacySequence reports whether data is exactly the legacy sequence for name.
func MatchesLegacySequence(data []byte, name string) bool {
	id, ok := legacySequences[string(data)]
	return ok && id == name
}

// legacyName returns the table entry for data, if any.
func legacyName(data []byte) (string, bool) {
	id, ok := legacySequences[string(data)]
	return id, ok
}

// matchesLegacyModified checks the shift/ctrl legacy variants of a named key.
// Only Shift and Ctrl alone have distinct legacy encodings; every other
// combination is reachable only through the Kitty or modifyOtherKeys forms.
func matchesLegacyModified(data []byte, name string, mod Modifier) bool {
	var prefix string
	switch mod {
	case ModShift:
		prefix = "shift+"
	case ModCtrl:
		prefix = "ctrl+"
	default:
		return false
	}
	id, ok := legacySequences[string(data)]
	return ok && len(id) == len(prefix)+len(name) && id[:len(prefix)] == prefix && id[len(prefix):] == name
}
