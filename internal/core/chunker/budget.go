package chunker

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Budget derives the per-chunk text token limit from a bounded context window
type Budget struct {
	ContextWindow    int     `json:"context_window"`
	ReservedSystem   int     `json:"reserved_system"`
	ReservedResponse int     `json:"reserved_response"`
	SafetyMargin     float64 `json:"safety_margin"`
}

// DefaultBudget is 8192 tokens minus 300 system and 512 response, at 70%
func DefaultBudget() Budget {
	return Budget{ContextWindow: 8192, ReservedSystem: 300, ReservedResponse: 512, SafetyMargin: 0.7}
}

// MaxTokens is (window - reserved) * margin, never below 1
func (b Budget) MaxTokens() int {
	n := int(float64(b.ContextWindow-b.ReservedSystem-b.ReservedResponse) * b.SafetyMargin)
	return max(n, 1)
}

// Validate rejects budgets that leave no room for text
func (b Budget) Validate() error {
	switch {
	case b.ContextWindow <= 0:
		return fmt.Errorf("chunker: context window must be positive, got %d", b.ContextWindow)
	case b.ReservedSystem < 0 || b.ReservedResponse < 0:
		return fmt.Errorf("chunker: reserved tokens must not be negative")
	case b.ContextWindow-b.ReservedSystem-b.ReservedResponse <= 0:
		return fmt.Errorf("chunker: reservations exhaust the context window")
	case b.SafetyMargin <= 0 || b.SafetyMargin > 1:
		return fmt.Errorf("chunker: safety margin must be in (0,1], got %v", b.SafetyMargin)
	}
	return nil
}

// TokenEstimator estimates how many model tokens a text occupies
type TokenEstimator interface {
	Estimate(text string) int
}

// DefaultCharsPerToken is the heuristic ratio used by CharRatio{}
const DefaultCharsPerToken = 4.0

// CharRatio estimates max(1, floor(chars / CharsPerToken)) counting runes
type CharRatio struct {
	CharsPerToken float64
}

// Estimate implements TokenEstimator
func (c CharRatio) Estimate(text string) int {
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	n := int(math.Floor(float64(utf8.RuneCountInString(text)) / ratio))
	return max(n, 1)
}

// EstimatorFunc adapts a function to TokenEstimator
type EstimatorFunc func(text string) int

// Estimate implements TokenEstimator
func (f EstimatorFunc) Estimate(text string) int { return f(text) }
