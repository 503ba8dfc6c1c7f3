// Package module wires redaction into the API using modkit
package module

import (
	"piiredact/internal/modkit"
	"piiredact/internal/modkit/httpkit"
	redacthttp "piiredact/internal/services/api/redact/http"
	redactsvc "piiredact/internal/services/api/redact/service"
)

// Ports is what other modules may pull from this one
type Ports struct {
	Service redactsvc.Service
}

// Module implements modkit.Module
type Module struct {
	b   modkit.Built
	svc redactsvc.Service
}

// New constructs the redaction module over the shared pipeline
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("redact"),
		modkit.WithPrefix("/redact"),
	}, opts...)...)
	return &Module{b: b, svc: redactsvc.New(deps.Pipeline, deps.ClassifierOrDefault())}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { redacthttp.Register(rr, m.svc) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Service: m.svc} }
