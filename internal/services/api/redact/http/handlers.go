// Package http provides http transport for redaction
package http

import (
	stdhttp "net/http"
	"sync"

	"piiredact/internal/core/validate"
	"piiredact/internal/modkit/httpkit"
	"piiredact/internal/platform/net/http/bind"
	"piiredact/internal/services/api/redact/domain"
)

var validatorTag sync.Once

// registerValidatorTag installs the pii_validator validation used by domain DTOs
func registerValidatorTag() {
	validatorTag.Do(func() {
		names := validate.NewRegistry(validate.DefaultPhonePolicy())
		_ = bind.RegisterValidation("pii_validator", "{0} must name a known validator", func(fl bind.FieldLevel) bool {
			fn, err := names.Lookup(fl.Field().String())
			return err == nil && fn != nil
		})
	})
}

// Register mounts redaction endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	registerValidatorTag()
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/detect", h.detect)
	httpkit.PostJSON(r, "/consolidate", h.consolidate)
	httpkit.PostJSON(r, "/redact", h.redact)
	httpkit.PostJSON(r, "/apply", h.apply)
	httpkit.PostJSON(r, "/chunks", h.chunks)
	httpkit.PostJSON(r, "/hint-chunks", h.hintChunks)
	httpkit.PostJSON(r, "/process", h.process)
	httpkit.PostJSON(r, "/classify", h.classify)
	httpkit.PostJSON(r, "/validate", h.validate)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Detect raw PII hints
// @Tags Redact
// @Accept json
// @Produce json
// @Param payload body domain.DetectInput true "Document"
// @Success 200 {object} domain.DetectOutput
// @Router /redact/detect [post]
func (h *handlers) detect(r *stdhttp.Request, in domain.DetectInput) (any, error) {
	return h.svc.Detect(r.Context(), in)
}

// @Summary Consolidate hints into non-overlapping entities
// @Tags Redact
// @Router /redact/consolidate [post]
func (h *handlers) consolidate(r *stdhttp.Request, in domain.ConsolidateInput) (any, error) {
	return h.svc.Consolidate(r.Context(), in)
}

// @Summary Replace entity spans with placeholders
// @Tags Redact
// @Router /redact/redact [post]
func (h *handlers) redact(r *stdhttp.Request, in domain.RedactInput) (any, error) {
	return h.svc.Redact(r.Context(), in)
}

// @Summary Apply a classification result
// @Tags Redact
// @Router /redact/apply [post]
func (h *handlers) apply(r *stdhttp.Request, in domain.ApplyInput) (any, error) {
	return h.svc.Apply(r.Context(), in)
}

// @Summary Budgeted context chunks
// @Tags Chunks
// @Router /redact/chunks [post]
func (h *handlers) chunks(r *stdhttp.Request, in domain.ChunksInput) (any, error) {
	return h.svc.Chunks(r.Context(), in)
}

// @Summary One sentence window per entity
// @Tags Chunks
// @Router /redact/hint-chunks [post]
func (h *handlers) hintChunks(r *stdhttp.Request, in domain.ChunksInput) (any, error) {
	return h.svc.HintChunks(r.Context(), in)
}

// @Summary Full pipeline without classification
// @Tags Pipeline
// @Router /redact/process [post]
func (h *handlers) process(r *stdhttp.Request, in domain.DetectInput) (any, error) {
	return h.svc.Process(r.Context(), in)
}

// @Summary Full pipeline with classification
// @Tags Pipeline
// @Router /redact/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.svc.Classify(r.Context(), in)
}

// @Summary Run one span validator
// @Tags Redact
// @Router /redact/validate [post]
func (h *handlers) validate(r *stdhttp.Request, in domain.ValidateInput) (any, error) {
	return h.svc.Validate(r.Context(), in)
}
