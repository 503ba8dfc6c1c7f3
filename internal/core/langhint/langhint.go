// Package langhint guesses whether a document is Polish, which the rule pack assumes
package langhint

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// minLetters is the letter count below which no language is claimed
const minLetters = 20

// polishOnly are letters that occur in Polish and in no other major Latin orthography together
const polishOnly = "ąćęłńśźżĄĆĘŁŃŚŹŻ"

// commonWords are short Polish function words; hitting several is a strong signal
var commonWords = map[string]struct{}{
	"i": {}, "w": {}, "z": {}, "na": {}, "się": {}, "nie": {}, "jest": {}, "że": {},
	"do": {}, "to": {}, "jak": {}, "mój": {}, "moja": {}, "oraz": {}, "przy": {}, "dla": {},
}

// Hint is a coarse script and language guess
type Hint struct {
	Script string       `json:"script"`
	Lang   language.Tag `json:"-"`
	Code   string       `json:"lang"`
	// Letters is the number of letters seen
	Letters int `json:"letters"`
}

// Polish reports whether the guess is Polish
func (h Hint) Polish() bool { return h.Lang == language.Polish }

// Detect returns the predominant script and, for Latin text with enough letters,
// language.Polish when Polish diacritics or function words dominate.
// Anything else is language.Und
func Detect(s string) Hint {
	var latin, cyrillic, greek, other, letters, diacritics int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.In(r, unicode.Latin):
			latin++
			if strings.ContainsRune(polishOnly, r) {
				diacritics++
			}
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		case unicode.In(r, unicode.Greek):
			greek++
		default:
			other++
		}
	}

	h := Hint{Lang: language.Und, Letters: letters}
	switch max(latin, cyrillic, greek, other) {
	case 0:
	case latin:
		h.Script = "Latin"
	case cyrillic:
		h.Script = "Cyrillic"
	case greek:
		h.Script = "Greek"
	default:
		h.Script = "Other"
	}

	if h.Script == "Latin" && letters >= minLetters {
		words := 0
		for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) }) {
			if _, ok := commonWords[w]; ok {
				words++
			}
		}
		if diacritics*50 >= letters || words >= 2 {
			h.Lang = language.Polish
		}
	}
	if h.Lang != language.Und {
		h.Code = h.Lang.String()
	}
	return h
}
