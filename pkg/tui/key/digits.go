// ABOUTME: Bounds-checked ASCII digit scanning for the CSI parameter grammars.
// ABOUTME: Overflow past uint32 is reported as failure so hostile input never wraps.

package key

import "math"

// scanDigits consumes a maximal run of ASCII digits in data[start:end].
// It fails when the window does not start with a digit or the value overflows uint32.
func scanDigits(data []byte, start, end int) (uint32, int, bool) {
	if end > len(data) {
		end = len(data)
	}
	if start < 0 || start >= end || !isDigit(data[start]) {
		return 0, start, false
	}

	var v uint32
	i := start
	for i < end && isDigit(data[i]) {
		d := uint32(data[i] - '0')
		if v > (math.MaxUint32-d)/10 {
			return 0, start, false
		}
		v = v*10 + d
		i++
	}
	return v, i, true
}

// scanOptionalDigits is scanDigits for fields that may be empty.
// An absent run yields (0, false, start) without failing; an overflowing run
// is treated as absent.
func scanOptionalDigits(data []byte, start, end int) (uint32, bool, int) {
	v, next, ok := scanDigits(data, start, end)
	if !ok {
		return 0, false, start
	}
	return v, true, next
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// toRune narrows a scanned value to a rune, rejecting values past int32.
func toRune(v uint32) (rune, bool) {
	if v > math.MaxInt32 {
		return 0, false
	}
	return rune(v), true
}
