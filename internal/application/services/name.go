package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxTextureNameLen = 128

// NormalizeTextureName trims the name and composes it to NFC so that visually
// identical names compare equal.
func NormalizeTextureName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidTextureName allows letters, digits, spaces and "-_.()".
func ValidTextureName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > maxTextureNameLen {
		return false
	}
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == ' ':
		case strings.ContainsRune("-_.()", r):
		default:
			return false
		}
	}
	return true
}
