package domain

import (
	"context"

	"piiredact/internal/core/pipeline"
)

// ServicePort defines the service contract for redaction
type ServicePort interface {
	Detect(ctx context.Context, in DetectInput) (DetectOutput, error)
	Consolidate(ctx context.Context, in ConsolidateInput) (EntitiesOutput, error)
	Redact(ctx context.Context, in RedactInput) (RedactOutput, error)
	Apply(ctx context.Context, in ApplyInput) (RedactOutput, error)
	Chunks(ctx context.Context, in ChunksInput) (ChunksOutput, error)
	HintChunks(ctx context.Context, in ChunksInput) (ChunksOutput, error)
	Process(ctx context.Context, in DetectInput) (pipeline.Result, error)
	Classify(ctx context.Context, in ClassifyInput) (pipeline.Final, error)
	Validate(ctx context.Context, in ValidateInput) (ValidateOutput, error)
}

// ReadyPort reports whether the redaction pipeline is able to serve
type ReadyPort interface {
	Ready(ctx context.Context) error
}
