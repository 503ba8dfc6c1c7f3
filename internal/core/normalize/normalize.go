// Package normalize provides the text transforms used around detection
//
// Two families live here
//   - offset-changing transforms (Text, Keyword) applied before any offsets exist:
//     plain-text ingestion and rule pack loading
//   - offset-preserving transforms (Fold) applied to text that hints point into
//
// Digits is the OCR look-alike folding used by the span validators
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains for ingestion
var textPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF soft hyphen
		)
	},
}

// lowerPL is stateless after construction but not documented as safe for concurrent use
var lowerPool = sync.Pool{
	New: func() any { return cases.Lower(language.Polish) },
}

// Text canonicalizes raw document text: drops invalid UTF-8, composes to NFC
// and strips format characters. Offsets computed before calling Text are invalid after
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := textPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	textPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// IsCanonical reports whether Text(s) would return s unchanged
func IsCanonical(s string) bool {
	if !utf8.ValidString(s) || !norm.NFC.IsNormalString(s) {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return unicode.Is(unicode.Cf, r) }) < 0
}

// Keyword canonicalizes a rule pack term so it can be matched against Fold output
func Keyword(s string) string {
	s = Text(s)
	c := lowerPool.Get().(cases.Caser)
	s = c.String(s)
	lowerPool.Put(c)
	return Fold(collapseSpaces(s))
}

// Fold lowercases s rune by rune, keeping a rune unchanged whenever its lowercase
// form has a different UTF-8 length, so every byte offset into s stays valid
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			b.WriteRune(r)
			continue
		}
		lr := unicode.ToLower(r)
		if utf8.RuneLen(lr) != utf8.RuneLen(r) {
			lr = r
		}
		b.WriteRune(lr)
	}
	// invalid bytes were widened to U+FFFD; fall back to byte-wise ASCII folding
	if b.Len() != len(s) {
		return foldASCII(s)
	}
	return b.String()
}

func foldASCII(s string) string {
	bs := []byte(s)
	for i, c := range bs {
		if 'A' <= c && c <= 'Z' {
			bs[i] = c + ('a' - 'A')
		}
	}
	return string(bs)
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
