// Package httpkit is the slice of the platform http layer that service modules see
// modules register routes through it and never import platform/net/http
package httpkit

import (
	"net/http"

	phttp "piiredact/internal/platform/net/http"
	"piiredact/internal/platform/net/http/bind"
)

type (
	// Router is what a module mounts its routes on
	Router = phttp.Router
	// Response lets a handler pin a status, e.g. 503 from a readiness probe
	Response = phttp.Response
	// JSONOptions sizes request bodies for PostJSON
	JSONOptions = bind.JSONOptions
)

// PostJSON registers a POST route whose body is decoded into T and validated
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PostJSON(r, path, h, opts...)
}

// Get registers a GET route, the returned value is wrapped in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}
