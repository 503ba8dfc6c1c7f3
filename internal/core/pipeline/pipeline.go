// Package pipeline wires the detection, consolidation, chunking, redaction and
// classification stages into one pass over a document
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"piiredact/internal/core/annotation"
	"piiredact/internal/core/chunker"
	"piiredact/internal/core/classify"
	"piiredact/internal/core/consolidate"
	"piiredact/internal/core/detector"
	"piiredact/internal/core/labels"
	"piiredact/internal/core/langhint"
	"piiredact/internal/core/normalize"
	"piiredact/internal/core/redact"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/core/span"
	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
)

// Result holds the output of every stage; nothing in it is shared with the input
type Result struct {
	DocumentID string              `json:"document_id"`
	Text       string              `json:"text"`
	Hints      []span.EntityHint   `json:"hints"`
	Entities   []span.EntityHint   `json:"entities"`
	Sentences  []span.SentenceSpan `json:"sentences"`
	Chunks     []span.Chunk        `json:"chunks"`
	HintChunks []span.Chunk        `json:"hint_chunks"`
	Redacted   string              `json:"redacted"`
	Language   langhint.Hint       `json:"language"`
}

// ChunkMode picks which chunks are sent to the classifier
type ChunkMode int

const (
	// ModeContext sends budgeted context chunks
	ModeContext ChunkMode = iota
	// ModeHints sends one hint anchored chunk per entity
	ModeHints
)

// Final is the classifier-confirmed outcome
type Final struct {
	Classification span.Classification `json:"-"`
	Labels         []span.Labeled      `json:"labels"`
	Redacted       string              `json:"redacted"`
	// Fallback is set when the classifier failed and entities were used instead
	Fallback bool `json:"fallback"`
}

// Pipeline is immutable after New and safe for concurrent use
type Pipeline struct {
	opts     Options
	pack     *rulepack.Pack
	det      *detector.Detector
	norm     labels.Normalizer
	mapper   annotation.Mapper
	chunker  chunker.Chunker
	redactor redact.Redactor
}

// New builds a pipeline over a loaded rule pack
func New(pack *rulepack.Pack, opts Options) (*Pipeline, error) {
	if pack == nil {
		return nil, errors.New("pipeline: nil rule pack")
	}
	if err := opts.Budget.Validate(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "pipeline: budget")
	}
	det, err := detector.New(pack, opts.Detector)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "pipeline: detector")
	}
	norm := pack.Normalizer()
	p := &Pipeline{
		opts:     opts,
		pack:     pack,
		det:      det,
		norm:     norm,
		mapper:   annotation.NewMapper(norm, pack.SchoolKeywords),
		chunker:  chunker.New(opts.Budget, chunker.CharRatio{CharsPerToken: opts.CharsPerToken}),
		redactor: redact.Redactor{Placeholders: opts.Placeholders},
	}
	logger.Named("pipeline").Debug().
		Strs("matchers", det.Matchers()).
		Int("max_tokens", opts.Budget.MaxTokens()).
		Str("policy", opts.Consolidate.Policy.String()).
		Msg("pipeline ready")
	return p, nil
}

// Options returns the configuration the pipeline was built with
func (p *Pipeline) Options() Options { return p.opts }

// Pack returns the rule pack the pipeline was compiled from
func (p *Pipeline) Pack() *rulepack.Pack { return p.pack }

// Normalizer returns the label normalizer of the loaded rule pack
func (p *Pipeline) Normalizer() labels.Normalizer { return p.norm }

// Chunker returns the configured chunker
func (p *Pipeline) Chunker() chunker.Chunker { return p.chunker }

// Redactor returns the configured redactor
func (p *Pipeline) Redactor() redact.Redactor { return p.redactor }

// Prepare converts offsets to bytes and, for plain text, optionally canonicalizes it
func (p *Pipeline) Prepare(doc annotation.Document) (annotation.Document, error) {
	plain := len(doc.Sentences) == 0 && len(doc.Tokens) == 0 && len(doc.Entities) == 0
	if plain && p.opts.CanonicalizeText {
		doc.Text = normalize.Text(doc.Text)
	}
	out, err := doc.Bytes()
	if err != nil {
		return annotation.Document{}, perr.Wrap(err, perr.ErrorCodeOffset, "annotation offsets")
	}
	return out, nil
}

// Detect runs the matchers and the annotator mapper over a prepared document
// and returns hints carrying normalized labels, unsorted
func (p *Pipeline) Detect(ctx context.Context, doc annotation.Document) ([]span.EntityHint, error) {
	found, err := p.det.Scan(ctx, doc.Text, doc.Tokens)
	if err != nil {
		return nil, perr.FromContext(err, "detect")
	}
	hs := append(found, p.mapper.Hints(doc)...)
	out := make([]span.EntityHint, 0, len(hs))
	for _, h := range hs {
		if h.Text == "" {
			continue
		}
		out = append(out, h.WithLabel(p.norm.Normalize(h.Label)))
	}
	return out, nil
}

// Consolidate applies the configured overlap policy
func (p *Pipeline) Consolidate(hints []span.EntityHint) []span.EntityHint {
	return consolidate.Consolidate(hints, p.opts.Consolidate)
}

// Process runs detect, consolidate, chunk and redact over one document
func (p *Pipeline) Process(ctx context.Context, in annotation.Document) (Result, error) {
	id := uuid.NewString()
	ctx = logger.WithDocument(ctx, id)
	log := logger.C(ctx).With().Str("component", "pipeline").Logger()

	doc, err := p.Prepare(in)
	if err != nil {
		return Result{}, err
	}
	hints, err := p.Detect(ctx, doc)
	if err != nil {
		return Result{}, err
	}
	entities := p.Consolidate(hints)
	sentences := p.chunker.Sentences(doc.Text, doc.SentenceBounds())

	res := Result{
		DocumentID: id,
		Text:       doc.Text,
		Hints:      hints,
		Entities:   entities,
		Sentences:  sentences,
		Chunks:     p.chunker.Chunk(sentences, doc.Text, entities),
		HintChunks: chunker.ByHints(p.chunker.OrWhole(doc.Text, sentences), doc.Text, entities, p.opts.HintRadius, &p.norm),
		Redacted:   p.redactor.Redact(doc.Text, entities),
		Language:   langhint.Detect(doc.Text),
	}
	if res.Language.Script != "" && !res.Language.Polish() && res.Language.Letters >= 200 {
		log.Warn().Str("script", res.Language.Script).Msg("document does not look Polish; rules may under-detect")
	}
	log.Debug().
		Int("bytes", len(doc.Text)).
		Int("hints", len(hints)).
		Int("entities", len(entities)).
		Int("sentences", len(sentences)).
		Int("chunks", len(res.Chunks)).
		Msg("document processed")
	return res, nil
}

// Classify sends the chunks of res to clf and applies the returned labels.
// With FallbackOnClassifierError a failing classifier yields the consolidated
// entities instead of an error
func (p *Pipeline) Classify(ctx context.Context, res Result, clf classify.Classifier, mode ChunkMode) (Final, error) {
	ctx = logger.WithDocument(ctx, res.DocumentID)
	chunks := res.Chunks
	if mode == ModeHints {
		chunks = res.HintChunks
	}

	c, err := classify.NewRunner(clf, p.opts.Classify).Run(ctx, chunks)
	fallback := false
	if err != nil {
		if !p.opts.FallbackOnClassifierError {
			return Final{}, err
		}
		logger.C(ctx).Warn().Err(err).Msg("classifier failed; redacting consolidated entities")
		c, fallback = classify.FromHints(res.Entities), true
	}
	return Final{
		Classification: c,
		Labels:         c.Rows(),
		Redacted:       p.redactor.Apply(res.Text, c),
		Fallback:       fallback,
	}, nil
}

// Redact is the one-call path: process then return the redacted text
func (p *Pipeline) Redact(ctx context.Context, text string) (string, error) {
	res, err := p.Process(ctx, annotation.Document{Text: text})
	if err != nil {
		return "", err
	}
	return res.Redacted, nil
}
