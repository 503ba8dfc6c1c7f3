package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	perr "piiredact/internal/platform/errors"
)

// Handler is a plain handler func; modules never see chi
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what services mount on; the api only serves GET and POST
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	With(mw ...func(http.Handler) http.Handler) Router
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// Mux is the root http.Handler
	Mux() http.Handler
}

// AdaptChi wraps m and answers unknown routes and methods with the JSON envelope
func AdaptChi(m *chi.Mux) Router {
	m.NotFound(Handle(func(r *http.Request) Response {
		return Error(perr.NotFoundf("no route for %s %s", r.Method, r.URL.Path))
	}))
	m.MethodNotAllowed(Handle(func(r *http.Request) Response {
		return Response{
			Status: http.StatusMethodNotAllowed,
			Body:   perr.InvalidArgf("method %s not allowed on %s", r.Method, r.URL.Path),
		}
	}))
	return chiRouter{m}
}

type chiRouter struct{ chi.Router }

func (c chiRouter) Get(p string, h Handler)  { c.Method(http.MethodGet, p, http.HandlerFunc(h)) }
func (c chiRouter) Post(p string, h Handler) { c.Method(http.MethodPost, p, http.HandlerFunc(h)) }

func (c chiRouter) With(mw ...func(http.Handler) http.Handler) Router {
	return chiRouter{c.Router.With(mw...)}
}

func (c chiRouter) Group(fn func(Router)) {
	c.Router.Group(func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.Router.Route(pattern, func(sub chi.Router) { fn(chiRouter{sub}) })
}

func (c chiRouter) Mux() http.Handler { return c.Router }
