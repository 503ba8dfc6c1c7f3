package detector

import (
	"piiredact/internal/core/annotation"
	"piiredact/internal/core/labels"
	"piiredact/internal/core/normalize"
	"piiredact/internal/core/rulepack"
	"piiredact/internal/core/span"
	"piiredact/internal/core/validate"
)

// Input is the read-only view every matcher receives
type Input struct {
	Text   string
	Folded string // normalize.Fold(Text), same byte offsets
	Tokens []annotation.Token
}

// NewInput prepares the shared matcher input
func NewInput(text string, tokens []annotation.Token) Input {
	return Input{Text: text, Folded: normalize.Fold(text), Tokens: tokens}
}

// Matcher proposes candidate hints; implementations keep no mutable state
type Matcher interface {
	Name() string
	Match(in Input) []span.EntityHint
}

// RegexMatcher emits the configured capture group of every pattern match
// candidates failing the bound validator are dropped
type RegexMatcher struct {
	pat      rulepack.Pattern
	validate validate.Func
}

// NewRegexMatcher binds a compiled pattern to an optional validator
func NewRegexMatcher(p rulepack.Pattern, fn validate.Func) RegexMatcher {
	return RegexMatcher{pat: p, validate: fn}
}

// Name implements Matcher
func (m RegexMatcher) Name() string { return "regex:" + m.pat.ID }

// Match implements Matcher
func (m RegexMatcher) Match(in Input) []span.EntityHint {
	var out []span.EntityHint
	g := m.pat.Group
	for _, loc := range m.pat.Re.FindAllStringSubmatchIndex(in.Text, -1) {
		start, end := trimSpace(in.Text, loc[2*g], loc[2*g+1])
		if start < 0 || start >= end {
			continue
		}
		h := span.NewHint(in.Text, start, end, m.pat.Label, m.Name())
		if m.validate != nil && !m.validate(h.Text) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// KeywordMatcher finds whole-word keyword occurrences in folded text
type KeywordMatcher struct {
	ac       *acAutomaton
	keywords []rulepack.Keyword
}

// NewKeywordMatcher builds one automaton over all keywords
func NewKeywordMatcher(kws []rulepack.Keyword) KeywordMatcher {
	ac := newAutomaton()
	for i, kw := range kws {
		ac.add(kw.Term, i)
	}
	ac.build()
	return KeywordMatcher{ac: ac, keywords: kws}
}

// Name implements Matcher
func (m KeywordMatcher) Name() string { return "keyword" }

// Match implements Matcher
func (m KeywordMatcher) Match(in Input) []span.EntityHint {
	var out []span.EntityHint
	m.ac.findAll(in.Folded, func(start, end, id int) bool {
		if boundaryOK(in.Folded, start, end) {
			out = append(out, span.NewHint(in.Text, start, end, m.keywords[id].Label, m.Name()))
		}
		return true
	})
	return out
}

// TokenMatcher matches annotator tokens by lemma or surface form and finds
// ages as a number token followed by an age unit token
type TokenMatcher struct {
	keywords map[string][]string
	ageUnits map[string]struct{}
}

// NewTokenMatcher uses the pack's keyword set and age units
func NewTokenMatcher(p *rulepack.Pack) TokenMatcher {
	return TokenMatcher{keywords: p.KeywordSet, ageUnits: p.AgeUnits}
}

// Name implements Matcher
func (m TokenMatcher) Name() string { return "token" }

// Match implements Matcher
func (m TokenMatcher) Match(in Input) []span.EntityHint {
	var out []span.EntityHint
	for i, tok := range in.Tokens {
		sp := tok.Span()
		if !sp.ValidIn(in.Text) {
			continue
		}
		surface := in.Text[sp.Start:sp.End]
		lemma := normalize.Keyword(tok.Lemma)
		if lemma == "" {
			lemma = normalize.Keyword(surface)
		}
		for _, lbl := range m.keywords[lemma] {
			out = append(out, span.NewHint(in.Text, sp.Start, sp.End, lbl, m.Name()))
		}

		if i+1 < len(in.Tokens) && (tok.POS == "NUM" || isNumber(surface)) {
			nxt := in.Tokens[i+1]
			unit := normalize.Keyword(nxt.Lemma)
			if unit == "" && nxt.Span().ValidIn(in.Text) {
				unit = normalize.Keyword(in.Text[nxt.Start:nxt.End])
			}
			if _, ok := m.ageUnits[unit]; ok {
				out = append(out, span.NewHint(in.Text, sp.Start, sp.End, labels.Age, m.Name()))
			}
		}
	}
	return out
}
