package annotation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/normalize"
	"piiredact/internal/core/span"
)

// annotator labels with special handling
const (
	labelPerson = "persName"
	labelOrg    = "orgName"
)

// SourceAnnotator tags hints that came from the annotator
const SourceAnnotator = "annotator"

// Mapper converts annotator entities into canonical hints
type Mapper struct {
	norm   labels.Normalizer
	school []string // folded keywords routing organizations to school-name
}

// NewMapper builds a mapper; school keywords are folded with normalize.Keyword
func NewMapper(norm labels.Normalizer, schoolKeywords []string) Mapper {
	ks := make([]string, 0, len(schoolKeywords))
	for _, k := range schoolKeywords {
		if k = normalize.Keyword(k); k != "" {
			ks = append(ks, k)
		}
	}
	return Mapper{norm: norm, school: ks}
}

// Hints maps every entity of a byte-offset document into canonical-label hints
// a full person name yields separate name and surname hints
func (m Mapper) Hints(d Document) []span.EntityHint {
	out := make([]span.EntityHint, 0, len(d.Entities))
	for _, e := range d.Entities {
		switch e.Label {
		case labelPerson:
			out = append(out, m.splitPerson(d.Text, e)...)
		case labelOrg:
			out = append(out, span.NewHint(d.Text, e.Start, e.End, m.routeOrg(e.Text), SourceAnnotator))
		default:
			out = append(out, span.NewHint(d.Text, e.Start, e.End, m.norm.Normalize(e.Label), SourceAnnotator))
		}
	}
	return out
}

// routeOrg picks school-name when any school keyword occurs in the organization name
func (m Mapper) routeOrg(text string) string {
	folded := normalize.Keyword(text)
	for _, k := range m.school {
		if strings.Contains(folded, k) {
			return labels.SchoolName
		}
	}
	return labels.Company
}

// splitPerson uses the first and last alphabetic words of the span
func (m Mapper) splitPerson(raw string, e Entity) []span.EntityHint {
	words := alphaWords(raw, e.Start, e.End)
	switch len(words) {
	case 0:
		return []span.EntityHint{span.NewHint(raw, e.Start, e.End, labels.Name, SourceAnnotator)}
	case 1:
		w := words[0]
		return []span.EntityHint{span.NewHint(raw, w.Start, w.End, labels.Name, SourceAnnotator)}
	default:
		first, last := words[0], words[len(words)-1]
		return []span.EntityHint{
			span.NewHint(raw, first.Start, first.End, labels.Name, SourceAnnotator),
			span.NewHint(raw, last.Start, last.End, labels.Surname, SourceAnnotator),
		}
	}
}

// alphaWords returns the whitespace separated words of raw[start:end] made only
// of letters (inner hyphens and apostrophes allowed), trimmed of edge punctuation
func alphaWords(raw string, start, end int) []span.TextSpan {
	var out []span.TextSpan
	i := start
	for i < end {
		r, sz := utf8.DecodeRuneInString(raw[i:end])
		if unicode.IsSpace(r) {
			i += sz
			continue
		}
		ws := i
		for i < end {
			r, sz = utf8.DecodeRuneInString(raw[i:end])
			if unicode.IsSpace(r) {
				break
			}
			i += sz
		}
		if w, ok := trimToAlpha(raw, ws, i); ok {
			out = append(out, w)
		}
	}
	return out
}

func trimToAlpha(raw string, start, end int) (span.TextSpan, bool) {
	for start < end {
		r, sz := utf8.DecodeRuneInString(raw[start:end])
		if unicode.IsLetter(r) {
			break
		}
		start += sz
	}
	for end > start {
		r, sz := utf8.DecodeLastRuneInString(raw[start:end])
		if unicode.IsLetter(r) {
			break
		}
		end -= sz
	}
	if start >= end {
		return span.TextSpan{}, false
	}
	for _, r := range raw[start:end] {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' {
			return span.TextSpan{}, false
		}
	}
	return span.TextSpan{Start: start, End: end}, true
}
