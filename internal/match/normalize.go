package match

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a phrase or key for comparison: NFC composition,
// Unicode lower-casing and trimming of surrounding whitespace. Lower-casing
// is a no-op for Arabic-script text.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(s)))
}

// words splits s on every rune that is not a letter, digit or combining
// mark, so "hello/greetings" yields "hello" and "greetings" and Arabic-script
// diacritics stay attached to their word.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}

// containsRun reports whether needle occurs as a contiguous run in hay.
func containsRun(hay, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(hay) {
		return false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if slices.Equal(hay[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

// isLatin reports whether s contains only ASCII letters, digits, spaces and
// punctuation. Only such keys are considered for phonetic suggestions.
func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return s != ""
}
