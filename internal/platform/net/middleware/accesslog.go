package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"piiredact/internal/platform/logger"
	pnet "piiredact/internal/platform/net"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow promotes requests at or above this duration to warn, 0 disables it
	Slow time.Duration
}

// RequestContext echoes the request id in the response and binds it to the request logger
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pnet.RequestID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), id)))
	})
}

// AccessLogZerolog writes one line per request with status, timing and sizes
// bodies stay out of the log since they are the documents being redacted
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			t0 := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(t0)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			evt := log.Info()
			if status >= http.StatusInternalServerError || (opt.Slow > 0 && took >= opt.Slow) {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("elapsed", took).
				Int64("req_bytes", r.ContentLength).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
