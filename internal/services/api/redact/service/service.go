// Package service contains redaction workflows over the shared pipeline
package service

import (
	"context"
	"strconv"

	"piiredact/internal/core/annotation"
	"piiredact/internal/core/chunker"
	"piiredact/internal/core/classify"
	"piiredact/internal/core/consolidate"
	"piiredact/internal/core/normalize"
	"piiredact/internal/core/pipeline"
	"piiredact/internal/core/span"
	"piiredact/internal/core/validate"
	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
	"piiredact/internal/services/api/redact/domain"
)

// Service defines the service contract for redaction
type Service interface {
	domain.ServicePort
	domain.ReadyPort
}

// Svc implements Service
type Svc struct {
	p   *pipeline.Pipeline
	clf classify.Classifier
	reg validate.Registry
}

// New creates a redaction service; clf answers Classify calls
func New(p *pipeline.Pipeline, clf classify.Classifier) *Svc {
	if p == nil {
		panic("redact.Service requires a non nil pipeline")
	}
	if clf == nil {
		panic("redact.Service requires a non nil classifier")
	}
	return &Svc{p: p, clf: clf, reg: validate.NewRegistry(p.Options().Detector.Phone)}
}

// Ready runs the end-to-end pipeline over a fixed sentence
func (s *Svc) Ready(ctx context.Context) error {
	const probe = "PESEL 02070803628."
	out, err := s.p.Redact(ctx, probe)
	if err != nil {
		return err
	}
	if out == probe {
		return perr.Unavailablef("pipeline did not redact the probe")
	}
	return nil
}

// Detect returns normalized hints before consolidation
func (s *Svc) Detect(ctx context.Context, in domain.DetectInput) (domain.DetectOutput, error) {
	doc, err := s.p.Prepare(in.Document())
	if err != nil {
		return domain.DetectOutput{}, err
	}
	hs, err := s.p.Detect(ctx, doc)
	if err != nil {
		return domain.DetectOutput{}, err
	}
	return domain.DetectOutput{Hints: nonNil(hs)}, nil
}

// Consolidate merges client hints with the requested or configured policy
func (s *Svc) Consolidate(_ context.Context, in domain.ConsolidateInput) (domain.EntitiesOutput, error) {
	hints, err := s.clientHints(in.Text, in.Hints)
	if err != nil {
		return domain.EntitiesOutput{}, err
	}
	opts := s.p.Options().Consolidate
	if in.Policy != "" {
		pol, err := consolidate.ParsePolicy(in.Policy)
		if err != nil {
			return domain.EntitiesOutput{}, perr.WithField(perr.InvalidArgf("%v", err), "policy")
		}
		opts.Policy = pol
	}
	return domain.EntitiesOutput{Entities: consolidate.Consolidate(hints, opts)}, nil
}

// Redact replaces entity spans; overlapping and invalid spans are skipped
func (s *Svc) Redact(_ context.Context, in domain.RedactInput) (domain.RedactOutput, error) {
	es := make([]span.EntityHint, 0, len(in.Entities))
	for _, e := range in.Entities {
		es = append(es, span.NewHint(in.Text, e.Start, e.End, e.Label, e.Source))
	}
	return domain.RedactOutput{Redacted: s.p.Redactor().Redact(in.Text, es)}, nil
}

// Apply renders a classification result onto text
func (s *Svc) Apply(_ context.Context, in domain.ApplyInput) (domain.RedactOutput, error) {
	rows := make([]span.Labeled, 0, len(in.Labels))
	for _, l := range in.Labels {
		rows = append(rows, span.Labeled{TextSpan: span.TextSpan{Start: l.Start, End: l.End}, Label: l.Label})
	}
	return domain.RedactOutput{Redacted: s.p.Redactor().Apply(in.Text, span.FromRows(rows))}, nil
}

// Chunks cuts budgeted context chunks
func (s *Svc) Chunks(ctx context.Context, in domain.ChunksInput) (domain.ChunksOutput, error) {
	doc, entities, err := s.prepare(ctx, in)
	if err != nil {
		return domain.ChunksOutput{}, err
	}
	c := s.p.Chunker()
	if in.Budget != nil {
		b := in.Budget.Budget()
		if err := b.Validate(); err != nil {
			return domain.ChunksOutput{}, perr.WithField(perr.InvalidArgf("%v", err), "budget")
		}
		c = chunker.New(b, c.Estimator)
	}
	sentences := c.Sentences(doc.Text, doc.SentenceBounds())
	return domain.ChunksOutput{
		MaxTokens: c.Budget.MaxTokens(),
		Chunks:    c.Chunk(sentences, doc.Text, entities),
	}, nil
}

// HintChunks cuts one sentence window per entity
func (s *Svc) HintChunks(ctx context.Context, in domain.ChunksInput) (domain.ChunksOutput, error) {
	doc, entities, err := s.prepare(ctx, in)
	if err != nil {
		return domain.ChunksOutput{}, err
	}
	radius := s.p.Options().HintRadius
	if in.Radius != nil {
		radius = *in.Radius
	}
	norm := s.p.Normalizer()
	c := s.p.Chunker()
	sentences := c.OrWhole(doc.Text, c.Sentences(doc.Text, doc.SentenceBounds()))
	return domain.ChunksOutput{
		Chunks: chunker.ByHints(sentences, doc.Text, entities, radius, &norm),
	}, nil
}

// Process runs detection through redaction
func (s *Svc) Process(ctx context.Context, in domain.DetectInput) (pipeline.Result, error) {
	return s.p.Process(ctx, in.Document())
}

// Classify processes the document and applies the classifier's verdicts
func (s *Svc) Classify(ctx context.Context, in domain.ClassifyInput) (pipeline.Final, error) {
	res, err := s.p.Process(ctx, in.Document())
	if err != nil {
		return pipeline.Final{}, err
	}
	mode := pipeline.ModeContext
	if in.Mode == "hints" {
		mode = pipeline.ModeHints
	}
	fin, err := s.p.Classify(ctx, res, s.clf, mode)
	if err != nil {
		logger.C(logger.WithDocument(ctx, res.DocumentID)).Error().Err(err).Msg("classification failed")
		return pipeline.Final{}, err
	}
	return fin, nil
}

// Validate runs one named validator
func (s *Svc) Validate(_ context.Context, in domain.ValidateInput) (domain.ValidateOutput, error) {
	fn, err := s.reg.Lookup(in.Kind)
	if err != nil || fn == nil {
		return domain.ValidateOutput{}, perr.WithField(perr.InvalidArgf("unknown validator %q", in.Kind), "kind")
	}
	return domain.ValidateOutput{
		Kind:   in.Kind,
		Valid:  fn(in.Value),
		Digits: normalize.Digits(in.Value),
	}, nil
}

// prepare converts the document and resolves the entity list: client hints when
// given, otherwise detected and consolidated ones
func (s *Svc) prepare(ctx context.Context, in domain.ChunksInput) (annotation.Document, []span.EntityHint, error) {
	doc, err := s.p.Prepare(in.Document())
	if err != nil {
		return annotation.Document{}, nil, err
	}
	if in.Entities != nil {
		es, err := s.clientHints(doc.Text, in.Entities)
		return doc, es, err
	}
	hs, err := s.p.Detect(ctx, doc)
	if err != nil {
		return annotation.Document{}, nil, err
	}
	return doc, s.p.Consolidate(hs), nil
}

// clientHints converts client spans and maps their labels to the canonical set
func (s *Svc) clientHints(text string, in []domain.HintInput) ([]span.EntityHint, error) {
	hints, err := toHints(text, in, "hints")
	if err != nil {
		return nil, err
	}
	norm := s.p.Normalizer()
	for i := range hints {
		hints[i] = hints[i].WithLabel(norm.Normalize(hints[i].Label))
	}
	return hints, nil
}

// toHints checks client spans against text; a supplied Text must match the span
func toHints(text string, in []domain.HintInput, field string) ([]span.EntityHint, error) {
	out := make([]span.EntityHint, 0, len(in))
	for i, h := range in {
		hint := span.NewHint(text, h.Start, h.End, h.Label, h.Source)
		if hint.Text == "" || (h.Text != "" && h.Text != hint.Text) {
			return nil, perr.WithField(
				perr.Offsetf("span [%d,%d) does not fit the text", h.Start, h.End),
				fieldIndex(field, i),
			)
		}
		out = append(out, hint)
	}
	return out, nil
}

func nonNil(hs []span.EntityHint) []span.EntityHint {
	if hs == nil {
		return []span.EntityHint{}
	}
	return hs
}

func fieldIndex(field string, i int) string { return field + "[" + strconv.Itoa(i) + "]" }
