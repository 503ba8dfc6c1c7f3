// Package span holds the offset value types shared by every pipeline stage
package span

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// TextSpan is a half-open [Start,End) byte range into the raw document text
type TextSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes
func (s TextSpan) Len() int { return s.End - s.Start }

// Overlaps reports whether two spans share at least one byte
func (s TextSpan) Overlaps(o TextSpan) bool { return s.Start < o.End && o.Start < s.End }

// Contains reports whether o lies fully inside s
func (s TextSpan) Contains(o TextSpan) bool { return s.Start <= o.Start && o.End <= s.End }

// ValidIn reports whether the span is non-empty, in bounds and cut on rune boundaries
func (s TextSpan) ValidIn(raw string) bool {
	if s.Start < 0 || s.Start >= s.End || s.End > len(raw) {
		return false
	}
	return isRuneBoundary(raw, s.Start) && isRuneBoundary(raw, s.End)
}

// Slice returns raw[Start:End] or "" when the span is not valid in raw
func (s TextSpan) Slice(raw string) string {
	if !s.ValidIn(raw) {
		return ""
	}
	return raw[s.Start:s.End]
}

func isRuneBoundary(s string, i int) bool {
	if i == 0 || i == len(s) {
		return true
	}
	return utf8.RuneStart(s[i])
}

// EntityHint is an unconfirmed candidate PII span with a proposed label
type EntityHint struct {
	TextSpan
	Text  string `json:"text"`
	Label string `json:"label"`
	// Source names the matcher or annotator that proposed the hint
	Source string `json:"source,omitempty"`
}

// NewHint builds a hint whose Text is cut from raw
func NewHint(raw string, start, end int, label, source string) EntityHint {
	sp := TextSpan{Start: start, End: end}
	return EntityHint{TextSpan: sp, Text: sp.Slice(raw), Label: label, Source: source}
}

// WithLabel returns a copy of the hint carrying label
func (h EntityHint) WithLabel(label string) EntityHint {
	h.Label = label
	return h
}

// Consistent reports whether the hint span is valid in raw and its Text matches
func (h EntityHint) Consistent(raw string) bool {
	return h.ValidIn(raw) && raw[h.Start:h.End] == h.Text
}

// SentenceSpan is a sentence boundary with its estimated token count
type SentenceSpan struct {
	TextSpan
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Tokens int    `json:"tokens"`
}

// Chunk is a contiguous sentence-aligned slice of a document
type Chunk struct {
	TextSpan
	Text      string         `json:"text"`
	Sentences []SentenceSpan `json:"sentences"`
	Entities  []EntityHint   `json:"entities"`
}

// Tokens sums the sentence estimates of the chunk
func (c Chunk) Tokens() int {
	n := 0
	for _, s := range c.Sentences {
		n += s.Tokens
	}
	return n
}

// Classification maps a span to its final label
type Classification map[TextSpan]string

// Labeled is the interchange row for a Classification
type Labeled struct {
	TextSpan
	Label string `json:"label"`
}

// Rows flattens the classification by start ascending, longer span first
func (c Classification) Rows() []Labeled {
	out := make([]Labeled, 0, len(c))
	for sp, lbl := range c {
		out = append(out, Labeled{TextSpan: sp, Label: lbl})
	}
	slices.SortFunc(out, func(a, b Labeled) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(b.End, a.End))
	})
	return out
}

// FromRows builds a Classification; later rows win on duplicate spans
func FromRows(rows []Labeled) Classification {
	out := make(Classification, len(rows))
	for _, r := range rows {
		out[r.TextSpan] = r.Label
	}
	return out
}

// SortHints orders hints by start ascending then longer first, in place
func SortHints(hs []EntityHint) {
	slices.SortStableFunc(hs, func(a, b EntityHint) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(b.Len(), a.Len()))
	})
}
