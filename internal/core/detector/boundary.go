package detector

import (
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r counts as a word character for boundary checks:
// letters, numbers, combining marks and connector punctuation
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) ||
		unicode.IsNumber(r) ||
		unicode.In(r, unicode.Mn, unicode.Pc)
}

// boundaryOK reports whether [start,end) is not glued to word characters on either side
func boundaryOK(s string, start, end int) bool {
	var prev, next rune
	if start > 0 {
		prev, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		next, _ = utf8.DecodeRuneInString(s[end:])
	}
	return !isWord(prev) && !isWord(next)
}

// isNumber reports whether s is a non-empty run of ASCII digits
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// trimSpace narrows [start,end) past leading and trailing whitespace
func trimSpace(s string, start, end int) (int, int) {
	if start < 0 || end > len(s) {
		return -1, -1
	}
	for start < end {
		r, sz := utf8.DecodeRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += sz
	}
	for end > start {
		r, sz := utf8.DecodeLastRuneInString(s[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= sz
	}
	return start, end
}
