// ABOUTME: Kitty keyboard protocol decoder for CSI u, CSI ~ and CSI 1;mod<letter> sequences.
// ABOUTME: Reports codepoint, alternate keys, modifier bitmask and press/repeat/release type.

package key

// EventType is the Kitty key event type.
type EventType uint32

const (
	EventPress   EventType = 1
	EventRepeat  EventType = 2
	EventRelease EventType = 3
)

func (t EventType) String() string {
	switch t {
	case EventPress:
		return "press"
	case EventRepeat:
		return "repeat"
	case EventRelease:
		return "release"
	}
	return ""
}

// Event is a decoded Kitty keyboard protocol sequence.
type Event struct {
	Code Code

	ShiftedKey       rune
	HasShiftedKey    bool
	BaseLayoutKey    rune
	HasBaseLayoutKey bool

	// Modifier is the wire value minus one; lock bits are preserved.
	Modifier Modifier

	EventType    EventType
	HasEventType bool
}

// Matches reports whether e is code with exactly mod, ignoring lock bits.
// The base-layout key counts as the code so bindings survive non-US layouts.
func (e Event) Matches(code Code, mod Modifier) bool {
	if e.Modifier.Unlocked() != mod.Unlocked() {
		return false
	}
	if e.Code == code {
		return true
	}
	return e.HasBaseLayoutKey && !code.IsNamed() && e.BaseLayoutKey == code.Rune
}

// ParseKittySequence decodes a Kitty protocol sequence. It handles three forms:
//   - CSI <codepoint>[:<shifted>[:<base>]] [; <modifiers>[:<event>]] [; <text>] u
//   - CSI <number> [; <modifiers>[:<event>]] ~      (functional keys)
//   - CSI 1 ; <modifiers>[:<event>] <letter>        (arrows, home/end, clear, F1-F4)
func ParseKittySequence(data []byte) (Event, bool) {
	if len(data) < 4 || data[0] != 0x1b || data[1] != '[' {
		return Event{}, false
	}

	switch data[len(data)-1] {
	case 'u':
		return parseCSIu(data)
	case '~':
		return parseFunctional(data)
	case 'A', 'B', 'C', 'D', 'E', 'F', 'H', 'P', 'Q', 'R', 'S':
		return parseCSI1Letter(data)
	default:
		return Event{}, false
	}
}

// MatchesKittySequence reports whether data decodes to codepoint with modifier.
func MatchesKittySequence(data []byte, codepoint rune, modifier Modifier) bool {
	return MatchesKittyCode(data, RuneCode(codepoint), modifier)
}

// MatchesKittyCode is MatchesKittySequence for any Code, including named keys.
func MatchesKittyCode(data []byte, code Code, modifier Modifier) bool {
	ev, ok := ParseKittySequence(data)
	return ok && ev.Matches(code, modifier)
}

func parseCSIu(data []byte) (Event, bool) {
	end := len(data) - 1
	i := 2

	v, i, ok := scanDigits(data, i, end)
	if !ok {
		return Event{}, false
	}
	cp, ok := toRune(v)
	if !ok {
		return Event{}, false
	}
	ev := Event{Code: RuneCode(cp)}

	// :shifted[:base]; either may be empty
	if i < end && data[i] == ':' {
		i++
		var sv uint32
		var present bool
		sv, present, i = scanOptionalDigits(data, i, end)
		if present {
			if r, ok := toRune(sv); ok {
				ev.ShiftedKey, ev.HasShiftedKey = r, true
			}
		}
		if i < end && data[i] == ':' {
			i++
			bv, next, ok := scanDigits(data, i, end)
			if !ok {
				return Event{}, false
			}
			r, ok := toRune(bv)
			if !ok {
				return Event{}, false
			}
			ev.BaseLayoutKey, ev.HasBaseLayoutKey = r, true
			i = next
		}
	}

	// ;modifiers[:event]; the modifiers may be empty when an event or text field follows
	modValue := uint32(1)
	if i < end && data[i] == ';' {
		i++
		if i < end && isDigit(data[i]) {
			modValue, i, ok = scanDigits(data, i, end)
			if !ok {
				return Event{}, false
			}
		}
		if i < end && data[i] == ':' {
			i++
			var et uint32
			et, i, ok = scanDigits(data, i, end)
			if !ok {
				return Event{}, false
			}
			ev.EventType, ev.HasEventType = EventType(et), true
		}
	}

	// ;text-as-codepoints, validated and discarded
	if i < end && data[i] == ';' {
		i++
		for i < end {
			if data[i] == ':' {
				i++
				continue
			}
			_, i, ok = scanDigits(data, i, end)
			if !ok {
				return Event{}, false
			}
		}
	}

	if i != end || modValue == 0 {
		return Event{}, false
	}
	ev.Modifier = Modifier(modValue - 1)
	return ev, true
}

// functionalKeys maps CSI <number> ~ key numbers to named keys.
var functionalKeys = map[uint32]NamedKey{
	1: Home, 7: Home,
	2: Insert,
	3: Delete,
	4: End, 8: End,
	5:  PageUp,
	6:  PageDown,
	11: F1, 12: F2, 13: F3, 14: F4, 15: F5,
	17: F6, 18: F7, 19: F8, 20: F9, 21: F10,
	23: F11, 24: F12,
}

func parseFunctional(data []byte) (Event, bool) {
	end := len(data) - 1
	num, i, ok := scanDigits(data, 2, end)
	if !ok {
		return Event{}, false
	}

	modValue := uint32(1)
	if i < end && data[i] == ';' {
		modValue, i, ok = scanDigits(data, i+1, end)
		if !ok {
			return Event{}, false
		}
	}

	var ev Event
	if i < end && data[i] == ':' {
		var et uint32
		et, i, ok = scanDigits(data, i+1, end)
		if !ok {
			return Event{}, false
		}
		ev.EventType, ev.HasEventType = EventType(et), true
	}

	if i != end || modValue == 0 {
		return Event{}, false
	}

	named, ok := functionalKeys[num]
	if !ok {
		return Event{}, false
	}
	ev.Code = NamedCode(named)
	ev.Modifier = Modifier(modValue - 1)
	return ev, true
}

// letterKeys maps the final byte of CSI 1;mod <letter> to named keys.
var letterKeys = map[byte]NamedKey{
	'A': Up,
	'B': Down,
	'C': Right,
	'D': Left,
	'H': Home,
	'F': End,
	'E': Clear,
	'P': F1,
	'Q': F2,
	'R': F3,
	'S': F4,
}

func parseCSI1Letter(data []byte) (Event, bool) {
	if len(data) < 5 || string(data[:4]) != "\x1b[1;" {
		return Event{}, false
	}

	end := len(data)
	modValue, i, ok := scanDigits(data, 4, end)
	if !ok {
		return Event{}, false
	}

	var ev Event
	if i < end && data[i] == ':' {
		var et uint32
		et, i, ok = scanDigits(data, i+1, end)
		if !ok {
			return Event{}, false
		}
		ev.EventType, ev.HasEventType = EventType(et), true
	}

	if i+1 != end || modValue == 0 {
		return Event{}, false
	}

	named, ok := letterKeys[data[i]]
	if !ok {
		return Event{}, false
	}
	ev.Code = NamedCode(named)
	ev.Modifier = Modifier(modValue - 1)
	return ev, true
}
