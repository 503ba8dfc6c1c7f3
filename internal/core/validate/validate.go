// Package validate holds checksum and length predicates for typed identifiers
// All predicates normalize OCR look-alikes first and never error: false means drop
package validate

import (
	"strings"
	"unicode"

	"piiredact/internal/core/normalize"
)

// Func is a candidate predicate
type Func func(candidate string) bool

var peselWeights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// NationalID validates an 11 digit PESEL control digit
func NationalID(candidate string) bool {
	d := normalize.Digits(candidate)
	if len(d) != 11 {
		return false
	}
	sum := 0
	for i, w := range peselWeights {
		sum += int(d[i]-'0') * w
	}
	control := (10 - sum%10) % 10
	return control == int(d[10]-'0')
}

// Luhn validates payment card numbers of at least 13 digits
func Luhn(candidate string) bool {
	d := normalize.Digits(candidate)
	if len(d) < 13 {
		return false
	}
	sum := 0
	double := false
	for i := len(d) - 1; i >= 0; i-- {
		n := int(d[i] - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

// BankAccount validates a 26 digit account number with an optional 2 letter country prefix
func BankAccount(candidate string) bool {
	s := strings.TrimLeftFunc(candidate, unicode.IsSpace)
	if len(s) >= 2 && isASCIILetter(s[0]) && isASCIILetter(s[1]) {
		s = s[2:]
	}
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	return len(normalize.Digits(s)) == 26
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// PhonePolicy bounds plausible national phone lengths
type PhonePolicy struct {
	MinDigits    int
	MaxDigits    int
	CountryCodes []string
}

// DefaultPhonePolicy accepts 7 to 9 digits, optionally behind a +48 prefix
func DefaultPhonePolicy() PhonePolicy {
	return PhonePolicy{MinDigits: 7, MaxDigits: 9, CountryCodes: []string{"48"}}
}

// Valid reports whether candidate has a plausible length under the policy
func (p PhonePolicy) Valid(candidate string) bool {
	d := normalize.Digits(candidate)
	if p.inRange(len(d)) {
		return true
	}
	for _, cc := range p.CountryCodes {
		if cc != "" && strings.HasPrefix(d, cc) && p.inRange(len(d)-len(cc)) {
			return true
		}
	}
	return false
}

func (p PhonePolicy) inRange(n int) bool { return n >= p.MinDigits && n <= p.MaxDigits }

// Phone validates with the default policy
func Phone(candidate string) bool { return DefaultPhonePolicy().Valid(candidate) }
