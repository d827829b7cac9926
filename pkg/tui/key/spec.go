// ABOUTME: Parses human-written key specs such as "ctrl+shift+a" or "alt++".
// ABOUTME: Modifier names are case-insensitive; the last non-modifier segment is the key.

package key

import (
	"slices"
	"strings"
)

// Spec is a parsed key specification.
type Spec struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
}

// keyAliases maps alternative spellings to the matcher's key tokens.
var keyAliases = map[string]string{
	"plus":   "+",
	"esc":    "escape",
	"return": "enter",
	"pgup":   "pageup",
	"pgdown": "pagedown",
	"pgdn":   "pagedown",
}

// ParseSpec parses s. "control" and "option" are synonyms for ctrl and alt;
// "plus", a lone "+" or a trailing "++" name the '+' key.
func ParseSpec(s string) (Spec, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, false
	}

	var spec Spec
	prefix := s
	switch {
	case s == "+":
		prefix, spec.Key = "", "+"
	case strings.HasSuffix(s, "++"):
		prefix, spec.Key = s[:len(s)-2], "+"
	}

	for part := range strings.SplitSeq(prefix, "+") {
		p := strings.TrimSpace(part)
		switch {
		case p == "":
		case strings.EqualFold(p, "ctrl"), strings.EqualFold(p, "control"):
			spec.Ctrl = true
		case strings.EqualFold(p, "shift"):
			spec.Shift = true
		case strings.EqualFold(p, "alt"), strings.EqualFold(p, "option"):
			spec.Alt = true
		default:
			spec.Key = p
		}
	}

	if spec.Key == "" {
		return Spec{}, false
	}
	if len(spec.Key) > 1 {
		spec.Key = strings.ToLower(spec.Key)
		if alias, ok := keyAliases[spec.Key]; ok {
			spec.Key = alias
		}
	}
	return spec, true
}

// Modifier returns the Kitty bitmask for the spec's modifiers.
func (s Spec) Modifier() Modifier {
	var m Modifier
	if s.Shift {
		m |= ModShift
	}
	if s.Alt {
		m |= ModAlt
	}
	if s.Ctrl {
		m |= ModCtrl
	}
	return m
}

// String renders the spec in canonical form, so equivalent specs compare equal.
func (s Spec) String() string {
	k := s.Key
	if len(k) == 1 {
		k = strings.ToLower(k)
	}
	if m := s.Modifier(); m != 0 {
		return withModifiers(m, k)
	}
	return k
}

var specialKeys = []string{"escape", "space", "tab", "enter", "backspace", "up", "down", "left", "right"}

// KnownKeys returns the sorted multi-character key names the matcher recognizes.
func KnownKeys() []string {
	names := slices.Clone(specialKeys)
	for name := range namedFuncKeys {
		names = append(names, name)
	}
	for name := range functionKeys {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Known reports whether s names a printable ASCII character or a recognized key.
func (s Spec) Known() bool {
	if len(s.Key) == 1 {
		return s.Key[0] >= '!' && s.Key[0] <= '~'
	}
	if _, ok := namedFuncKeys[s.Key]; ok {
		return true
	}
	if _, ok := functionKeys[s.Key]; ok {
		return true
	}
	return slices.Contains(specialKeys, s.Key)
}

// MatchesKey reports whether data is the key described by spec under any
// supported encoding.
func MatchesKey(data []byte, spec string, kittyActive bool) bool {
	s, ok := ParseSpec(spec)
	if !ok {
		return false
	}
	return s.Matches(data, kittyActive)
}
