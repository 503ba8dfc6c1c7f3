// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"sort"
	"time"

	"piiredact/internal/core/labels"
	"piiredact/internal/core/version"
	"piiredact/internal/modkit/httpkit"
)

// Checker is satisfied by ports that can prove they serve
type Checker interface {
	Ready(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName  string
	StartedAt    time.Time
	RulePack     int
	Placeholders labels.Placeholders
	Legacy       map[string]string
	// Checks are run by /ready; keys name the check
	Checks map[string]Checker
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/labels", h.labels)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"piiredact-api"`
	Started string `json:"started" example:"2026-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pipeline"`
	Status string `json:"status" example:"ok"` // ok fail
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-09-03T13:05:00Z"`
}

// LabelInfo pairs a canonical label with its placeholder
type LabelInfo struct {
	Label       string `json:"label"       example:"national-id-number"`
	Placeholder string `json:"placeholder" example:"[NATIONAL-ID-NUMBER]"`
}

// LabelsResponse lists the canonical labels and the accepted legacy spellings
type LabelsResponse struct {
	Labels []LabelInfo        `json:"labels"`
	Legacy map[string]string `json:"legacy"`
}

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness probe; a failing check answers 503
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps.Checks))
	for n := range h.deps.Checks {
		names = append(names, n)
	}
	sort.Strings(names)

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(names))}
	for _, n := range names {
		c := ReadyCheck{Name: n, Status: "ok"}
		if err := h.deps.Checks[n].Ready(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, c)
	}
	out.Now = time.Now().UTC().Format(time.RFC3339)
	if out.Status != "ok" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// @Summary Build and rule pack version
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	bi := version.Info(h.deps.ServiceName)
	bi.RulePack = h.deps.RulePack
	return bi, nil
}

// @Summary Canonical labels and placeholders
// @Tags Meta
// @Produce json
// @Success 200 {object} LabelsResponse
// @Router /meta/labels [get]
func (h *handlers) labels(_ *http.Request) (any, error) {
	all := labels.Canonical()
	out := LabelsResponse{Labels: make([]LabelInfo, 0, len(all)), Legacy: h.deps.Legacy}
	for _, l := range all {
		out.Labels = append(out.Labels, LabelInfo{Label: l, Placeholder: h.deps.Placeholders.For(l)})
	}
	if out.Legacy == nil {
		out.Legacy = map[string]string{}
	}
	return out, nil
}
