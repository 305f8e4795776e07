package strings

import (
	"unicode"
	"unicode/utf8"
)

// Decapitalize lower-cases the first rune of s, unless s starts with two
// upper-case runes (an acronym such as "URL" or "IOStream"), in which case s
// is returned unchanged. A single upper-case rune is lower-cased.
func Decapitalize(s string) string {
	r0, n := utf8.DecodeRuneInString(s)
	if n == 0 || !unicode.IsUpper(r0) {
		return s
	}
	if n == len(s) {
		return string(unicode.ToLower(r0))
	}
	r1, _ := utf8.DecodeRuneInString(s[n:])
	if unicode.IsUpper(r1) {
		return s
	}
	return string(unicode.ToLower(r0)) + s[n:]
}

// LowerCamel converts an exported Go identifier to lowerCamelCase.
// Handles leading acronyms (URLFor -> urlFor, ID -> id, GetID -> getID)
func LowerCamel(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}
	end := 0
	for end < len(runes) && unicode.IsUpper(runes[end]) {
		end++
	}
	// In "URLFor" the F starts the next word and stays upper case
	if end > 1 && end < len(runes) && unicode.IsLower(runes[end]) {
		end--
	}
	for i := 0; i < end; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
