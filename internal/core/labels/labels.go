// Package labels defines the canonical PII label set, placeholder tokens
// and the legacy label normalizer
package labels

import (
	"slices"
	"strings"
)

// Canonical labels
const (
	Name              = "name"
	Surname           = "surname"
	Age               = "age"
	DateOfBirth       = "date-of-birth"
	Date              = "date"
	Sex               = "sex"
	Religion          = "religion"
	PoliticalView     = "political-view"
	Ethnicity         = "ethnicity"
	SexualOrientation = "sexual-orientation"
	Health            = "health"
	Relative          = "relative"
	City              = "city"
	Address           = "address"
	Email             = "email"
	Phone             = "phone"
	NationalID        = "national-id-number"
	DocumentNumber    = "document-number"
	Company           = "company"
	SchoolName        = "school-name"
	JobTitle          = "job-title"
	BankAccount       = "bank-account"
	PaymentCard       = "payment-card-number"
	Username          = "username"
	Secret            = "secret"
	None              = "none"
)

var canonical = []string{
	Name, Surname, Age, DateOfBirth, Date, Sex, Religion, PoliticalView,
	Ethnicity, SexualOrientation, Health, Relative, City, Address, Email,
	Phone, NationalID, DocumentNumber, Company, SchoolName, JobTitle,
	BankAccount, PaymentCard, Username, Secret, None,
}

var canonicalSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(canonical))
	for _, l := range canonical {
		m[l] = struct{}{}
	}
	return m
}()

// Canonical returns a copy of the canonical label list in declaration order
func Canonical() []string { return slices.Clone(canonical) }

// IsCanonical reports whether l belongs to the canonical set
func IsCanonical(l string) bool {
	_, ok := canonicalSet[l]
	return ok
}

// Placeholders formats replacement tokens as Open + UPPER(label) + Close
type Placeholders struct {
	Open    string
	Close   string
	Unknown string // used verbatim for labels outside the canonical set
}

// DefaultPlaceholders renders [LABEL] and [UNKNOWN]
func DefaultPlaceholders() Placeholders {
	return Placeholders{Open: "[", Close: "]", Unknown: "[UNKNOWN]"}
}

// For returns the placeholder token for label
func (p Placeholders) For(label string) string {
	if !IsCanonical(label) {
		return p.Unknown
	}
	return p.Open + strings.ToUpper(label) + p.Close
}

// Placeholder renders label with the default delimiters
func Placeholder(label string) string { return DefaultPlaceholders().For(label) }
