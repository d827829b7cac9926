// ABOUTME: Conversion between raw key bytes and their escaped printable form
// ABOUTME: Accepts Go escapes plus \e for ESC on input; renders controls as \xNN on output

package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unescape decodes an argument such as `\x1b[97;5u` or `\e[A` to raw bytes.
func unescape(s string) ([]byte, error) {
	var out []byte
	for len(s) > 0 {
		if strings.HasPrefix(s, `\e`) {
			out = append(out, 0x1b)
			s = s[2:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(s, 0)
		if err != nil {
			return nil, fmt.Errorf("unescaping %q: %w", s, err)
		}
		if multibyte {
			out = utf8.AppendRune(out, r)
		} else {
			out = append(out, byte(r))
		}
		s = tail
	}
	return out, nil
}

// escapeBytes renders data with control bytes and invalid UTF-8 as \xNN.
func escapeBytes(data []byte) string {
	var b strings.Builder
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		switch {
		case r == utf8.RuneError && size <= 1, r < 0x20, r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, data[0])
			size = 1
		case r == '\\':
			b.WriteString(`\\`)
		default:
			b.Write(data[:size])
		}
		data = data[size:]
	}
	return b.String()
}
