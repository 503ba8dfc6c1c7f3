// Package detector runs the rule based PII matchers over raw text and annotator tokens
package detector

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"piiredact/internal/core/annotation"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/core/span"
	"piiredact/internal/core/validate"
)

// Options controls detector behavior
type Options struct {
	// Workers bounds concurrent matchers (0 = GOMAXPROCS)
	Workers int
	// Phone is the length policy bound to the "phone" validator
	Phone validate.PhonePolicy
	// DisableKeywords skips surface keyword matching on raw text
	DisableKeywords bool
	// DisableTokens skips lemma and age matching on annotator tokens
	DisableTokens bool
}

// DefaultOptions uses the default phone policy and all matcher families
func DefaultOptions() Options {
	return Options{Phone: validate.DefaultPhonePolicy()}
}

// Detector fans a document out to independent matchers and concatenates their hints
type Detector struct {
	matchers []Matcher
	workers  int
}

// New compiles matchers from the pack, binding validators by name
func New(p *rulepack.Pack, opts Options) (*Detector, error) {
	reg := validate.NewRegistry(opts.Phone)

	ms := make([]Matcher, 0, len(p.Patterns)+2)
	for _, pat := range p.Patterns {
		fn, err := reg.Lookup(pat.Validator)
		if err != nil {
			return nil, err
		}
		ms = append(ms, NewRegexMatcher(pat, fn))
	}
	if !opts.DisableKeywords && len(p.Keywords) > 0 {
		ms = append(ms, NewKeywordMatcher(p.Keywords))
	}
	if !opts.DisableTokens {
		ms = append(ms, NewTokenMatcher(p))
	}
	return NewWithMatchers(opts.Workers, ms...), nil
}

// NewWithMatchers builds a detector from explicit matchers
func NewWithMatchers(workers int, ms ...Matcher) *Detector {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Detector{matchers: ms, workers: workers}
}

// Matchers returns matcher names in run order
func (d *Detector) Matchers() []string {
	out := make([]string, len(d.matchers))
	for i, m := range d.matchers {
		out[i] = m.Name()
	}
	return out
}

// Scan runs every matcher and returns hints grouped in matcher order
// ordering across matchers is left to the consolidator
func (d *Detector) Scan(ctx context.Context, text string, tokens []annotation.Token) ([]span.EntityHint, error) {
	if text == "" || len(d.matchers) == 0 {
		return nil, nil
	}
	in := NewInput(text, tokens)
	results := make([][]span.EntityHint, len(d.matchers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, m := range d.matchers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.Match(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, r := range results {
		n += len(r)
	}
	out := make([]span.EntityHint, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
