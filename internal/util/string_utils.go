package util

import (
	"unicode"
)

// IsAlphabetic reports whether s is non-empty and made only of letters.
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, char := range s {
		if !unicode.IsLetter(char) {
			return false
		}
	}
	return true
}
