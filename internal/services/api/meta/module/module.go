// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"piiredact/internal/modkit"
	"piiredact/internal/modkit/httpkit"
	metahttp "piiredact/internal/services/api/meta/http"
)

// Ports are the readiness checks other modules contribute
type Ports struct {
	Checks map[string]metahttp.Checker
}

// Module implements modkit.Module
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; readiness checks arrive through modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	hd := metahttp.Deps{
		ServiceName: deps.Service,
		StartedAt:   deps.StartedAt,
	}
	if p := deps.Pipeline; p != nil {
		hd.RulePack = p.Pack().Version
		hd.Placeholders = p.Options().Placeholders
		hd.Legacy = p.Pack().LegacyLabels
	}
	if ports, ok := b.Ports.(Ports); ok {
		hd.Checks = ports.Checks
	}
	return &Module{b: b, deps: hd}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
