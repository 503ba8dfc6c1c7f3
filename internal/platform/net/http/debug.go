package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the swagger UI under prefix, e.g. "/docs", pointed at docURL
func MountSwagger(r Router, prefix, docURL string) {
	h := httpSwagger.Handler(httpSwagger.URL(docURL))
	r.Get(prefix+"/*", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		h.ServeHTTP(w, req)
	})
}

// MountProfiler mounts pprof under prefix, e.g. "/debug"
func MountProfiler(r Router, prefix string) {
	h := stdhttp.StripPrefix(prefix, mw.Profiler())
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}
