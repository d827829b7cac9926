// ABOUTME: Key codes and modifier bitmask shared by every decoder and the matcher.
// ABOUTME: Named keys are a tagged variant instead of out-of-range codepoint sentinels.

package key

// Modifier is the Kitty modifier bitmask (wire value minus one).
type Modifier uint32

const (
	ModShift    Modifier = 1
	ModAlt      Modifier = 2
	ModCtrl     Modifier = 4
	ModCapsLock Modifier = 64
	ModNumLock  Modifier = 128

	// LockMask covers the lock bits, which never take part in key matching.
	LockMask = ModCapsLock | ModNumLock
)

// Unlocked returns m with Caps-Lock and Num-Lock cleared.
func (m Modifier) Unlocked() Modifier {
	return m &^ LockMask
}

// NamedKey identifies a non-textual key.
type NamedKey uint8

const (
	NoName NamedKey = iota
	Up
	Down
	Right
	Left
	Insert
	Delete
	Home
	End
	PageUp
	PageDown
	Clear
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

var namedKeyNames = [...]string{
	Up:       "up",
	Down:     "down",
	Right:    "right",
	Left:     "left",
	Insert:   "insert",
	Delete:   "delete",
	Home:     "home",
	End:      "end",
	PageUp:   "pageup",
	PageDown: "pagedown",
	Clear:    "clear",
	F1:       "f1",
	F2:       "f2",
	F3:       "f3",
	F4:       "f4",
	F5:       "f5",
	F6:       "f6",
	F7:       "f7",
	F8:       "f8",
	F9:       "f9",
	F10:      "f10",
	F11:      "f11",
	F12:      "f12",
}

// String returns the canonical token for n, or "" for NoName.
func (n NamedKey) String() string {
	if int(n) >= len(namedKeyNames) {
		return ""
	}
	return namedKeyNames[n]
}

// Code is either a Unicode codepoint (Named == NoName) or a named key.
type Code struct {
	Named NamedKey
	Rune  rune
}

// RuneCode wraps a Unicode codepoint.
func RuneCode(r rune) Code { return Code{Rune: r} }

// NamedCode wraps a non-textual key.
func NamedCode(n NamedKey) Code { return Code{Named: n} }

// IsNamed reports whether c denotes a non-textual key.
func (c Code) IsNamed() bool { return c.Named != NoName }

// Codepoints the matcher and formatter treat specially.
const (
	cpTab       rune = 9
	cpEnter     rune = 13
	cpEscape    rune = 27
	cpSpace     rune = 32
	cpBackspace rune = 127
	cpKPEnter   rune = 57414
)
