// Package middleware assembles the api middleware chain from chi, go-chi/cors and in house pieces
// callers get plain func(http.Handler) http.Handler values, never chi types
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	pstrings "piiredact/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID honours an incoming X-Request-ID or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// AllowContentType answers 415 to bodies of any other media type
func AllowContentType(ct ...string) func(http.Handler) http.Handler {
	return chimw.AllowContentType(ct...)
}

// CORSOptions is the part of go-chi/cors the api exposes
type CORSOptions struct {
	AllowedOrigins []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS allows GET and POST from AllowedOrigins, any origin when empty
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         o.MaxAge,
	})
}

// Defaults is the head of every api chain
// request ids come first so RecoverJSON can stamp them on panics
func Defaults(timeout time.Duration) []func(http.Handler) http.Handler {
	gzip := chimw.NewCompressor(flate.DefaultCompression, "application/json")
	return []func(http.Handler) http.Handler{
		chimw.RealIP,
		chimw.RequestID,
		RequestContext,
		RecoverJSON,
		chimw.Timeout(timeout),
		gzip.Handler,
		chimw.NoCache,
	}
}
