package rdf

import (
	"unicode"
	"unicode/utf8"
)

// isNCName reports whether value is an XML non-colonized name, as required
// for rdf:ID and rdf:nodeID values.
func isNCName(value string) bool {
	if value == "" {
		return false
	}
	for i, ch := range value {
		if ch == utf8.RuneError {
			return false
		}
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isNameChar(ch rune) bool {
	return isNameStartChar(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.' ||
		unicode.Is(unicode.Mn, ch) || unicode.Is(unicode.Mc, ch) || ch == 0xB7
}
