// Package annotation holds the payload shapes produced by the external linguistic
// annotator and converts them into canonical hints and sentence bounds
package annotation

import (
	"errors"
	"fmt"

	"piiredact/internal/core/span"
)

// OffsetUnit names how an annotator counts offsets
type OffsetUnit string

const (
	// OffsetByte means UTF-8 byte offsets (the native unit inside this module)
	OffsetByte OffsetUnit = "byte"
	// OffsetRune means Unicode code point offsets
	OffsetRune OffsetUnit = "rune"
)

// ErrOffset tags every offset problem found while ingesting a document
var ErrOffset = errors.New("annotation: bad offset")

// Token is one annotator token
type Token struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Lemma string `json:"lemma,omitempty"`
	POS   string `json:"pos,omitempty"`
	Dep   string `json:"dep,omitempty"`
	Head  int    `json:"head,omitempty"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Span returns the token offsets
func (t Token) Span() span.TextSpan { return span.TextSpan{Start: t.Start, End: t.End} }

// Sentence is one annotator sentence boundary
type Sentence struct {
	ID           int    `json:"id"`
	Text         string `json:"text"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	TokenIndices []int  `json:"token_indices,omitempty"`
}

// Entity is a named entity in the annotator's own taxonomy
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Document is the full annotator payload for one text
type Document struct {
	Text       string     `json:"text"`
	Sentences  []Sentence `json:"sentences,omitempty"`
	Tokens     []Token    `json:"tokens,omitempty"`
	Entities   []Entity   `json:"entities,omitempty"`
	OffsetUnit OffsetUnit `json:"offset_unit,omitempty"`
}

// Bytes returns a copy of d with all offsets expressed in bytes and checked
// against the text. Text fields left empty are filled from the offsets
func (d Document) Bytes() (Document, error) {
	out := Document{Text: d.Text, OffsetUnit: OffsetByte}

	var conv func(span.TextSpan) (span.TextSpan, bool)
	switch d.OffsetUnit {
	case "", OffsetByte:
		conv = func(s span.TextSpan) (span.TextSpan, bool) { return s, true }
	case OffsetRune:
		ix := span.NewIndex(d.Text)
		conv = ix.ToBytes
	default:
		return Document{}, fmt.Errorf("%w: unknown offset unit %q", ErrOffset, d.OffsetUnit)
	}

	fix := func(kind string, i, start, end int) (span.TextSpan, error) {
		sp, ok := conv(span.TextSpan{Start: start, End: end})
		if !ok || !sp.ValidIn(d.Text) {
			return span.TextSpan{}, fmt.Errorf("%w: %s %d [%d,%d)", ErrOffset, kind, i, start, end)
		}
		return sp, nil
	}

	out.Sentences = make([]Sentence, 0, len(d.Sentences))
	for i, s := range d.Sentences {
		sp, err := fix("sentence", i, s.Start, s.End)
		if err != nil {
			return Document{}, err
		}
		s.Start, s.End = sp.Start, sp.End
		s.Text = d.Text[sp.Start:sp.End]
		out.Sentences = append(out.Sentences, s)
	}

	out.Tokens = make([]Token, 0, len(d.Tokens))
	for i, t := range d.Tokens {
		sp, err := fix("token", i, t.Start, t.End)
		if err != nil {
			return Document{}, err
		}
		t.Start, t.End = sp.Start, sp.End
		t.Text = d.Text[sp.Start:sp.End]
		out.Tokens = append(out.Tokens, t)
	}

	out.Entities = make([]Entity, 0, len(d.Entities))
	for i, e := range d.Entities {
		sp, err := fix("entity", i, e.Start, e.End)
		if err != nil {
			return Document{}, err
		}
		e.Start, e.End = sp.Start, sp.End
		e.Text = d.Text[sp.Start:sp.End]
		out.Entities = append(out.Entities, e)
	}
	return out, nil
}

// SentenceBounds returns the sentence spans in annotator order
func (d Document) SentenceBounds() []span.TextSpan {
	out := make([]span.TextSpan, 0, len(d.Sentences))
	for _, s := range d.Sentences {
		out = append(out, span.TextSpan{Start: s.Start, End: s.End})
	}
	return out
}
