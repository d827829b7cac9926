// ABOUTME: Precomputed key-name strings for single-byte and letter fast paths.
// ABOUTME: Filled once at package init so typing never builds strings at runtime.

package key

var (
	asciiPrintable [94]string // '!'..'~'
	letters        [26]string
	ctrlLetters    [26]string
	altLetters     [26]string
	ctrlAltLetters [26]string
)

func init() {
	for i := range asciiPrintable {
		asciiPrintable[i] = string(rune('!' + i))
	}
	for i := range letters {
		l := string(rune('a' + i))
		letters[i] = l
		ctrlLetters[i] = "ctrl+" + l
		altLetters[i] = "alt+" + l
		ctrlAltLetters[i] = "ctrl+alt+" + l
	}
}

// printableName returns the static name of a graphic ASCII byte.
func printableName(b byte) string {
	return asciiPrintable[b-'!']
}
