// ABOUTME: Display width of terminal strings with grapheme-aware segmentation
// ABOUTME: Escape sequences count as zero columns; wide runes count as two

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// StripANSI removes CSI and OSC escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			i = skipEscape(s, i)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// skipEscape returns the index just past the escape sequence at s[i].
func skipEscape(s string, i int) int {
	i++
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[':
		for i++; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return i
	case ']':
		for i++; i < len(s); i++ {
			if s[i] == '\x07' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return i
	default:
		return i + 1
	}
}

// VisibleWidth returns the number of terminal columns s occupies.
func VisibleWidth(s string) int {
	s = StripANSI(s)
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		r, _ := utf8.DecodeRuneInString(cluster)
		w += runewidth.RuneWidth(r)
	}
	return w
}

// Graphemes returns the number of user-perceived characters in s.
func Graphemes(s string) int {
	return uniseg.GraphemeClusterCount(StripANSI(s))
}

// PadRight pads s with spaces to w columns. Longer strings are returned unchanged.
func PadRight(s string, w int) string {
	if n := VisibleWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
