// Package rulepack loads and compiles PII rules from the embedded rules.json
// It prepares regex patterns, keyword lists and label tables for the detector
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/normalize"
)

//go:embed rules.json
var embedded []byte

// SupportedVersion is the rules.json schema version this loader understands
const SupportedVersion = 1

type rawPattern struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Pattern   string `json:"pattern"`
	Validator string `json:"validator,omitempty"`
	Group     int    `json:"group,omitempty"`
}

type rawKeywords struct {
	Label string   `json:"label"`
	Terms []string `json:"terms"`
}

type rawPack struct {
	Version        int               `json:"version"`
	Meta           map[string]any    `json:"meta"`
	Patterns       []rawPattern      `json:"patterns"`
	Keywords       []rawKeywords     `json:"keywords"`
	AgeUnits       []string          `json:"age_units"`
	LegacyLabels   map[string]string `json:"legacy_labels"`
	SchoolKeywords []string          `json:"school_keywords"`
}

// Pattern is a compiled regex rule
type Pattern struct {
	ID        string
	Label     string
	Validator string // name resolved by the detector, "" for none
	Group     int    // capture group that forms the hint span
	Re        *regexp.Regexp
}

// Keyword is a single folded term bound to a label
type Keyword struct {
	Term  string
	Label string
}

// Pack is the compiled, read-only rule set
type Pack struct {
	Version int
	Meta    map[string]any

	Patterns []Pattern
	// Keywords sorted by (Term, Label), terms folded with normalize.Keyword
	Keywords []Keyword
	// KeywordSet maps folded term -> labels, for token lemma lookups
	KeywordSet map[string][]string

	AgeUnits       map[string]struct{}
	LegacyLabels   map[string]string
	SchoolKeywords []string
}

// Load returns the compiled pack from the embedded rules.json
func Load() (*Pack, error) { return Parse(embedded) }

// MustLoad is Load for process bootstrap
func MustLoad() *Pack {
	p, err := Load()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse compiles a rules.json document
func Parse(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if rp.Version != SupportedVersion {
		return nil, fmt.Errorf("rulepack: unsupported rules.json version %d (want %d)", rp.Version, SupportedVersion)
	}

	p := &Pack{
		Version:      rp.Version,
		Meta:         rp.Meta,
		KeywordSet:   make(map[string][]string, 256),
		AgeUnits:     make(map[string]struct{}, len(rp.AgeUnits)),
		LegacyLabels: make(map[string]string, len(rp.LegacyLabels)),
	}

	for _, rpat := range rp.Patterns {
		pat, err := compilePattern(rpat)
		if err != nil {
			return nil, err
		}
		p.Patterns = append(p.Patterns, pat)
	}

	seen := make(map[Keyword]struct{}, 256)
	for _, blk := range rp.Keywords {
		if !labels.IsCanonical(blk.Label) {
			return nil, fmt.Errorf("rulepack: keyword label %q is not canonical", blk.Label)
		}
		for _, t := range blk.Terms {
			term := normalize.Keyword(t)
			if term == "" {
				continue
			}
			kw := Keyword{Term: term, Label: blk.Label}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			p.Keywords = append(p.Keywords, kw)
			p.KeywordSet[term] = append(p.KeywordSet[term], blk.Label)
		}
	}
	sort.Slice(p.Keywords, func(i, j int) bool {
		if p.Keywords[i].Term != p.Keywords[j].Term {
			return p.Keywords[i].Term < p.Keywords[j].Term
		}
		return p.Keywords[i].Label < p.Keywords[j].Label
	})
	for term := range p.KeywordSet {
		slices.Sort(p.KeywordSet[term])
	}

	for _, u := range rp.AgeUnits {
		if u = normalize.Keyword(u); u != "" {
			p.AgeUnits[u] = struct{}{}
		}
	}

	for from, to := range rp.LegacyLabels {
		if !labels.IsCanonical(to) {
			return nil, fmt.Errorf("rulepack: legacy label %q maps to non-canonical %q", from, to)
		}
		p.LegacyLabels[from] = to
	}

	for _, s := range rp.SchoolKeywords {
		if s = normalize.Keyword(s); s != "" {
			p.SchoolKeywords = append(p.SchoolKeywords, s)
		}
	}
	slices.Sort(p.SchoolKeywords)
	p.SchoolKeywords = slices.Compact(p.SchoolKeywords)

	return p, nil
}

func compilePattern(rp rawPattern) (Pattern, error) {
	if rp.ID == "" {
		return Pattern{}, fmt.Errorf("rulepack: pattern without id")
	}
	if !labels.IsCanonical(rp.Label) {
		return Pattern{}, fmt.Errorf("rulepack: pattern %s: label %q is not canonical", rp.ID, rp.Label)
	}
	re, err := regexp.Compile(rp.Pattern)
	if err != nil {
		return Pattern{}, fmt.Errorf("rulepack: pattern %s: %w", rp.ID, err)
	}
	if rp.Group < 0 || rp.Group > re.NumSubexp() {
		return Pattern{}, fmt.Errorf("rulepack: pattern %s: group %d out of range (have %d)", rp.ID, rp.Group, re.NumSubexp())
	}
	return Pattern{
		ID:        rp.ID,
		Label:     rp.Label,
		Validator: rp.Validator,
		Group:     rp.Group,
		Re:        re,
	}, nil
}

// Normalizer returns a label normalizer seeded with the pack's legacy table
func (p *Pack) Normalizer() labels.Normalizer { return labels.NewNormalizer(p.LegacyLabels) }

// PatternsFor returns the compiled patterns bound to label
func (p *Pack) PatternsFor(label string) []Pattern {
	var out []Pattern
	for _, pat := range p.Patterns {
		if pat.Label == label {
			out = append(out, pat)
		}
	}
	return out
}
