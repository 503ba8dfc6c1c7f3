// Package redact replaces entity spans with placeholder tokens
package redact

import (
	"slices"
	"strings"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
)

// Redactor renders placeholders with a fixed delimiter configuration
type Redactor struct {
	Placeholders labels.Placeholders
}

// New returns a redactor using the default [LABEL] tokens
func New() Redactor { return Redactor{Placeholders: labels.DefaultPlaceholders()} }

// Redact replaces each entity with its placeholder in one ascending pass.
// entities must be ordered by start; one that overlaps an already emitted
// replacement or has an invalid span is skipped
func (r Redactor) Redact(raw string, entities []span.EntityHint) string {
	items := make([]span.Labeled, len(entities))
	for i, e := range entities {
		items[i] = span.Labeled{TextSpan: e.TextSpan, Label: e.Label}
	}
	return r.pass(raw, items)
}

// Apply redacts from a final classification instead of hints
func (r Redactor) Apply(raw string, c span.Classification) string {
	return r.pass(raw, c.Rows())
}

func (r Redactor) pass(raw string, items []span.Labeled) string {
	if len(items) == 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	cursor, lastEnd := 0, 0
	for _, it := range items {
		if !it.ValidIn(raw) || it.Start < lastEnd {
			continue
		}
		b.WriteString(raw[cursor:it.Start])
		b.WriteString(r.Placeholders.For(it.Label))
		cursor, lastEnd = it.End, it.End
	}
	b.WriteString(raw[cursor:])
	return b.String()
}

// Redact uses the default redactor
func Redact(raw string, entities []span.EntityHint) string { return New().Redact(raw, entities) }

// Apply uses the default redactor
func Apply(raw string, c span.Classification) string { return New().Apply(raw, c) }

// Sorted returns a copy of entities ordered for Redact
func Sorted(entities []span.EntityHint) []span.EntityHint {
	out := slices.Clone(entities)
	span.SortHints(out)
	return out
}
