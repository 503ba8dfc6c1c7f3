// Package domain holds DTOs for the redaction http and service contracts
package domain

import (
	"piiredact/internal/core/annotation"
	"piiredact/internal/core/chunker"
	"piiredact/internal/core/span"
)

// DocumentInput is a plain text or a full annotator payload
type DocumentInput struct {
	Text       string                `json:"text" example:"Mój PESEL to 02070803628."`
	Sentences  []annotation.Sentence `json:"sentences,omitempty"`
	Tokens     []annotation.Token    `json:"tokens,omitempty"`
	Entities   []annotation.Entity   `json:"entities,omitempty"`
	OffsetUnit string                `json:"offset_unit,omitempty" validate:"omitempty,oneof=byte rune" example:"byte"`
}

// Document converts the input to the annotator payload type
func (d DocumentInput) Document() annotation.Document {
	return annotation.Document{
		Text:       d.Text,
		Sentences:  d.Sentences,
		Tokens:     d.Tokens,
		Entities:   d.Entities,
		OffsetUnit: annotation.OffsetUnit(d.OffsetUnit),
	}
}

// HintInput is a client supplied span with a label; Text is filled from the document when empty
type HintInput struct {
	Start  int    `json:"start" validate:"min=0" example:"13"`
	End    int    `json:"end" validate:"gtfield=Start" example:"24"`
	Label  string `json:"label" validate:"required" example:"national-id-number"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty" example:"annotator"`
}

// LabeledInput is one row of a classification result
type LabeledInput struct {
	Start int    `json:"start" validate:"min=0"`
	End   int    `json:"end" validate:"gtfield=Start"`
	Label string `json:"label" validate:"required"`
}

// DetectInput asks for raw, normalized hints
type DetectInput struct {
	DocumentInput
}

// DetectOutput lists hints in detection order
type DetectOutput struct {
	Hints []span.EntityHint `json:"hints"`
}

// ConsolidateInput merges client hints over text
type ConsolidateInput struct {
	Text   string      `json:"text"`
	Hints  []HintInput `json:"hints" validate:"dive"`
	Policy string      `json:"policy,omitempty" validate:"omitempty,oneof=strict lax" example:"strict"`
}

// EntitiesOutput lists consolidated entities in document order
type EntitiesOutput struct {
	Entities []span.EntityHint `json:"entities"`
}

// RedactInput replaces entity spans with placeholders
type RedactInput struct {
	Text     string      `json:"text"`
	Entities []HintInput `json:"entities" validate:"dive"`
}

// ApplyInput applies a classification result to text
type ApplyInput struct {
	Text   string         `json:"text"`
	Labels []LabeledInput `json:"labels" validate:"dive"`
}

// RedactOutput is the redacted text
type RedactOutput struct {
	Redacted string `json:"redacted" example:"Mój PESEL to [NATIONAL-ID-NUMBER]."`
}

// BudgetInput overrides the configured chunk budget per request
type BudgetInput struct {
	ContextWindow    int     `json:"context_window" validate:"min=1"`
	ReservedSystem   int     `json:"reserved_system" validate:"min=0"`
	ReservedResponse int     `json:"reserved_response" validate:"min=0"`
	SafetyMargin     float64 `json:"safety_margin" validate:"min=0,max=1"`
}

// Budget converts to the chunker type
func (b BudgetInput) Budget() chunker.Budget {
	return chunker.Budget{
		ContextWindow:    b.ContextWindow,
		ReservedSystem:   b.ReservedSystem,
		ReservedResponse: b.ReservedResponse,
		SafetyMargin:     b.SafetyMargin,
	}
}

// ChunksInput chunks a document; entities default to the detected ones
type ChunksInput struct {
	DocumentInput
	Entities []HintInput `json:"hints,omitempty" validate:"omitempty,dive"`
	Budget   *BudgetInput `json:"budget,omitempty"`
	Radius   *int         `json:"radius,omitempty" validate:"omitempty,min=0,max=10"`
}

// ChunksOutput lists chunks with the budget they were cut for
type ChunksOutput struct {
	MaxTokens int          `json:"max_tokens,omitempty"`
	Chunks    []span.Chunk `json:"chunks"`
}

// ClassifyInput runs the full pipeline and asks the classifier about each chunk
type ClassifyInput struct {
	DocumentInput
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=context hints" example:"context"`
}

// ValidateInput checks one candidate against a named validator
type ValidateInput struct {
	Kind  string `json:"kind" validate:"required,pii_validator" example:"pesel"`
	Value string `json:"value" validate:"required,max=128" example:"02070803628"`
}

// ValidateOutput reports the verdict and the normalized digits
type ValidateOutput struct {
	Kind   string `json:"kind"`
	Valid  bool   `json:"valid"`
	Digits string `json:"digits"`
}
