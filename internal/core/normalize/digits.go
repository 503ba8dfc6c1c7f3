package normalize

import "strings"

// digitLookalikes folds common OCR and typing substitutions onto digits
var digitLookalikes = map[rune]byte{
	'o': '0', 'O': '0',
	'l': '1', 'I': '1',
	'B': '8',
	'S': '5',
	'Z': '2',
	'q': '9',
	'G': '6', 'b': '6',
}

// Digits maps look-alike characters to digits and drops everything else
// Digits(Digits(s)) == Digits(s)
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if d, ok := digitLookalikes[r]; ok {
			b.WriteByte(d)
		}
	}
	return b.String()
}
