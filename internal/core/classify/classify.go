// Package classify hands chunk hints to an external classifier and folds the
// replies back into a document level classification
package classify

import (
	"context"

	"piiredact/internal/core/span"
)

// Candidate is one hint as the classifier sees it; offsets are relative to the chunk text
type Candidate struct {
	ID    int    `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Request is one classifier call over a single chunk
type Request struct {
	ChunkText  string      `json:"chunk_text"`
	Candidates []Candidate `json:"candidates"`
}

// Response maps request candidate ids to canonical labels or "none"
type Response struct {
	Labels map[int]string `json:"labels"`
}

// Classifier confirms or relabels candidates
type Classifier interface {
	Classify(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Classifier
type Func func(ctx context.Context, req Request) (Response, error)

// Classify implements Classifier
func (f Func) Classify(ctx context.Context, req Request) (Response, error) { return f(ctx, req) }

// Batch is a prepared request plus the absolute span behind every candidate id
type Batch struct {
	Chunk   int
	Request Request
	Spans   []span.TextSpan // index = candidate id
}

// Batches splits the entities of a chunk into requests grouped by hint label,
// each carrying at most maxBatch candidates. Label groups follow first
// appearance in the chunk; ids restart at 0 in every request
func Batches(chunkIndex int, c span.Chunk, maxBatch int) []Batch {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	var order []string
	groups := map[string][]span.EntityHint{}
	for _, e := range c.Entities {
		if !c.Contains(e.TextSpan) {
			continue
		}
		if _, ok := groups[e.Label]; !ok {
			order = append(order, e.Label)
		}
		groups[e.Label] = append(groups[e.Label], e)
	}

	var out []Batch
	for _, lbl := range order {
		es := groups[lbl]
		for len(es) > 0 {
			n := min(len(es), maxBatch)
			b := Batch{Chunk: chunkIndex, Request: Request{ChunkText: c.Text}}
			for i, e := range es[:n] {
				b.Request.Candidates = append(b.Request.Candidates, Candidate{
					ID:    i,
					Start: e.Start - c.Start,
					End:   e.End - c.Start,
					Text:  e.Text,
					Label: e.Label,
				})
				b.Spans = append(b.Spans, e.TextSpan)
			}
			out = append(out, b)
			es = es[n:]
		}
	}
	return out
}
