// ABOUTME: Decoder for xterm modifyOtherKeys reports: CSI 27 ; modifiers ; keycode [~].
// ABOUTME: Uses the same minus-one modifier convention as the Kitty decoder.

package key

const mokPrefix = "\x1b[27;"

// parseModifyOtherKeys decodes CSI 27;mods;keycode~. Some terminals omit the
// trailing '~', so it is optional.
func parseModifyOtherKeys(data []byte) (Modifier, rune, bool) {
	if len(data) < 7 || string(data[:len(mokPrefix)]) != mokPrefix {
		return 0, 0, false
	}

	end := len(data)
	if data[end-1] == '~' {
		end--
	}
	if end <= len(mokPrefix) {
		return 0, 0, false
	}

	modValue, i, ok := scanDigits(data, len(mokPrefix), end)
	if !ok {
		return 0, 0, false
	}
	if i >= end || data[i] != ';' {
		return 0, 0, false
	}

	keycode, i, ok := scanDigits(data, i+1, end)
	if !ok || i != end || modValue == 0 {
		return 0, 0, false
	}

	r, ok := toRune(keycode)
	if !ok {
		return 0, 0, false
	}
	return Modifier(modValue - 1), r, true
}

// mokResult caches one modifyOtherKeys decode for the matcher.
type mokResult struct {
	mod Modifier
	cp  rune
	ok  bool
}

func decodeModifyOtherKeys(data []byte) mokResult {
	mod, cp, ok := parseModifyOtherKeys(data)
	return mokResult{mod: mod, cp: cp, ok: ok}
}

func (r mokResult) matches(cp rune, mod Modifier) bool {
	return r.ok && foldLetter(r.cp) == cp && r.mod.Unlocked() == mod.Unlocked()
}
