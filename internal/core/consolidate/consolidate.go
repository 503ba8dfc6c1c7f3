// Package consolidate merges multi-source hints into one ordered, deduplicated label set
package consolidate

import (
	"cmp"
	"fmt"
	"slices"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
)

// Policy selects how overlapping distinct spans are treated
type Policy int

const (
	// PolicyStrict drops every hint intersecting an already accepted one
	PolicyStrict Policy = iota
	// PolicyLax keeps overlapping distinct spans; only exact duplicates collapse
	PolicyLax
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLax:
		return "lax"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "strict", "lax" or "" (strict)
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "lax":
		return PolicyLax, nil
	}
	return PolicyStrict, fmt.Errorf("consolidate: unknown policy %q", s)
}

// Options configures Consolidate
type Options struct {
	Policy Policy
}

type key struct {
	start, end int
	label      string
}

// Consolidate sorts hints by (start asc, length desc), drops exact (start, end, label)
// duplicates and non-canonical labels, then under PolicyStrict keeps the first
// accepted hint of every overlapping group. The input slice is not modified
func Consolidate(hints []span.EntityHint, opts Options) []span.EntityHint {
	if len(hints) == 0 {
		return []span.EntityHint{}
	}
	sorted := slices.Clone(hints)
	slices.SortFunc(sorted, compare)

	seen := make(map[key]struct{}, len(sorted))
	out := make([]span.EntityHint, 0, len(sorted))
	lastEnd := 0
	for _, h := range sorted {
		k := key{h.Start, h.End, h.Label}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if !labels.IsCanonical(h.Label) {
			continue
		}
		if opts.Policy == PolicyStrict {
			// sorted by start, so overlap with any accepted span means overlap with the furthest end
			if len(out) > 0 && h.Start < lastEnd {
				continue
			}
			lastEnd = h.End
		}
		out = append(out, h)
	}
	return out
}

// Strict is Consolidate with PolicyStrict
func Strict(hints []span.EntityHint) []span.EntityHint {
	return Consolidate(hints, Options{Policy: PolicyStrict})
}

// compare is a total order so any permutation of the same multiset sorts identically
func compare(a, b span.EntityHint) int {
	return cmp.Or(
		cmp.Compare(a.Start, b.Start),
		cmp.Compare(b.Len(), a.Len()),
		cmp.Compare(a.Label, b.Label),
		cmp.Compare(a.Source, b.Source),
		cmp.Compare(a.Text, b.Text),
	)
}
