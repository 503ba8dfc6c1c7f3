// Package chunker partitions a document into token budgeted, sentence aligned chunks
package chunker

import (
	"cmp"
	"slices"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
)

// Chunker groups sentences under a token budget
type Chunker struct {
	Budget    Budget
	Estimator TokenEstimator
}

// New returns a chunker; a nil estimator means CharRatio{}
func New(b Budget, est TokenEstimator) Chunker {
	if est == nil {
		est = CharRatio{}
	}
	return Chunker{Budget: b, Estimator: est}
}

// Default uses DefaultBudget and the 4 chars per token estimate
func Default() Chunker { return New(DefaultBudget(), nil) }

// Sentences cuts sentence bounds out of raw and estimates their tokens.
// invalid bounds are dropped; ids follow the input order of the kept bounds
func (c Chunker) Sentences(raw string, bounds []span.TextSpan) []span.SentenceSpan {
	est := c.Estimator
	if est == nil {
		est = CharRatio{}
	}
	out := make([]span.SentenceSpan, 0, len(bounds))
	for _, b := range bounds {
		if !b.ValidIn(raw) {
			continue
		}
		text := raw[b.Start:b.End]
		out = append(out, span.SentenceSpan{TextSpan: b, ID: len(out), Text: text, Tokens: est.Estimate(text)})
	}
	return out
}

// OrWhole returns sentences, or a single sentence over all of raw when there
// are none so that hint windows still cover plain text
func (c Chunker) OrWhole(raw string, sentences []span.SentenceSpan) []span.SentenceSpan {
	if len(sentences) > 0 || raw == "" {
		return sentences
	}
	return c.Sentences(raw, []span.TextSpan{{Start: 0, End: len(raw)}})
}

// Chunk greedily packs sentences into chunks of at most Budget.MaxTokens
// estimated tokens. A sentence over budget on its own still gets its own chunk.
// Chunks are contiguous: the first starts at 0, each ends where the next starts
// and the last ends at len(raw). Entities are attached to the chunk that fully
// contains them; entities straddling a boundary are left out of both chunks.
// Zero sentences yield one chunk over the whole document
func (c Chunker) Chunk(sentences []span.SentenceSpan, raw string, entities []span.EntityHint) []span.Chunk {
	ss := ordered(sentences, raw)
	if len(ss) == 0 {
		whole := span.Chunk{TextSpan: span.TextSpan{Start: 0, End: len(raw)}, Text: raw}
		whole.Entities = attach([]span.Chunk{whole}, raw, entities)[0]
		return []span.Chunk{whole}
	}

	limit := c.Budget.MaxTokens()
	var groups [][]span.SentenceSpan
	var cur []span.SentenceSpan
	total := 0
	for _, s := range ss {
		if len(cur) > 0 && total+s.Tokens > limit {
			groups = append(groups, cur)
			cur, total = nil, 0
		}
		cur = append(cur, s)
		total += s.Tokens
	}
	groups = append(groups, cur)

	chunks := make([]span.Chunk, len(groups))
	for i, g := range groups {
		start := g[0].Start
		if i == 0 {
			start = 0
		}
		end := len(raw)
		if i+1 < len(groups) {
			end = groups[i+1][0].Start
		}
		chunks[i] = span.Chunk{
			TextSpan:  span.TextSpan{Start: start, End: end},
			Text:      raw[start:end],
			Sentences: g,
		}
	}
	for i, es := range attach(chunks, raw, entities) {
		chunks[i].Entities = es
	}
	return chunks
}

// attach assigns entities to chunks with one cursor that only moves forward
func attach(chunks []span.Chunk, raw string, entities []span.EntityHint) [][]span.EntityHint {
	es := make([]span.EntityHint, 0, len(entities))
	for _, e := range entities {
		if e.ValidIn(raw) {
			es = append(es, e)
		}
	}
	span.SortHints(es)

	out := make([][]span.EntityHint, len(chunks))
	cursor := 0
	for i, c := range chunks {
		for cursor < len(es) && es[cursor].End <= c.Start {
			cursor++
		}
		got := []span.EntityHint{}
		for _, e := range es[cursor:] {
			if e.Start >= c.End {
				break
			}
			if e.Start >= c.Start && e.End <= c.End {
				got = append(got, e)
			}
		}
		out[i] = got
	}
	return out
}

// ByHints builds one chunk per hint: the sentence containing the hint start plus
// radius sentences on each side. Hints outside every sentence are skipped.
// When norm is non-nil the attached hint's label is normalized
func ByHints(sentences []span.SentenceSpan, raw string, hints []span.EntityHint, radius int, norm *labels.Normalizer) []span.Chunk {
	ss := ordered(sentences, raw)
	out := []span.Chunk{}
	if len(ss) == 0 {
		return out
	}
	radius = max(radius, 0)

	hs := slices.Clone(hints)
	span.SortHints(hs)
	for _, h := range hs {
		i, ok := containing(ss, h.Start)
		if !ok {
			continue
		}
		lo, hi := max(0, i-radius), min(len(ss)-1, i+radius)
		if norm != nil {
			h = h.WithLabel(norm.Normalize(h.Label))
		}
		sp := span.TextSpan{Start: ss[lo].Start, End: ss[hi].End}
		out = append(out, span.Chunk{
			TextSpan:  sp,
			Text:      raw[sp.Start:sp.End],
			Sentences: slices.Clone(ss[lo : hi+1]),
			Entities:  []span.EntityHint{h},
		})
	}
	return out
}

// containing finds the sentence with Start <= pos < End in sorted disjoint sentences
func containing(ss []span.SentenceSpan, pos int) (int, bool) {
	i, _ := slices.BinarySearchFunc(ss, pos, func(s span.SentenceSpan, p int) int {
		if s.End <= p {
			return -1
		}
		return 1
	})
	if i < len(ss) && ss[i].Start <= pos && pos < ss[i].End {
		return i, true
	}
	return -1, false
}

// ordered keeps sentences valid in raw, sorted by start, dropping any that
// overlap an earlier one
func ordered(sentences []span.SentenceSpan, raw string) []span.SentenceSpan {
	ss := make([]span.SentenceSpan, 0, len(sentences))
	for _, s := range sentences {
		if s.ValidIn(raw) {
			ss = append(ss, s)
		}
	}
	slices.SortStableFunc(ss, func(a, b span.SentenceSpan) int { return cmp.Compare(a.Start, b.Start) })

	out := ss[:0]
	end := 0
	for _, s := range ss {
		if len(out) > 0 && s.Start < end {
			continue
		}
		out = append(out, s)
		end = s.End
	}
	return out
}

// Chunk uses the default chunker
func Chunk(sentences []span.SentenceSpan, raw string, entities []span.EntityHint) []span.Chunk {
	return Default().Chunk(sentences, raw, entities)
}
