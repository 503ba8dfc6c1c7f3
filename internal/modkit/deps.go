package modkit

import (
	"time"

	"piiredact/internal/core/classify"
	"piiredact/internal/core/pipeline"
	"piiredact/internal/platform/config"
	"piiredact/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf

	// Pipeline is built once from the embedded rule pack and shared read-only
	Pipeline *pipeline.Pipeline
	// Classifier answers /classify calls; nil means the built-in hint confirmer
	Classifier classify.Classifier

	Service   string
	StartedAt time.Time
}

// ClassifierOrDefault returns the configured classifier or classify.Confirm
func (d Deps) ClassifierOrDefault() classify.Classifier {
	if d.Classifier != nil {
		return d.Classifier
	}
	return classify.Confirm()
}
