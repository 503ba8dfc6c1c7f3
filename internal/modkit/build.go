package modkit

import (
	"net/http"

	phttp "piiredact/internal/platform/net/http"
	pstrings "piiredact/internal/platform/strings"
)

// Built is the resolved wiring of one module
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Option adjusts a module's wiring before it is validated
type Option func(*Built)

// WithName names the module for logs and port lookups
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix sets the path the module is routed under
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends module scoped middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts hands a module the ports another module exposes
func WithPorts[T any](p T) Option { return func(b *Built) { b.Ports = p } }

// WithRegister mounts extra routes beside the module's own
func WithRegister(fn func(phttp.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts and panics when name or prefix is missing
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Name = pstrings.MustString(b.Name, "module name")
	b.Prefix = pstrings.MustPrefix(b.Prefix)
	if b.Register == nil {
		b.Register = func(phttp.Router) {}
	}
	return b
}

// Mount routes own and then Register under Prefix, scoped by Mw
func (b Built) Mount(r phttp.Router, own func(phttp.Router)) {
	r.Route(b.Prefix, func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		own(sub)
		b.Register(sub)
	})
}
