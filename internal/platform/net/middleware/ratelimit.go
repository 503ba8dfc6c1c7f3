package middleware

import (
	stdhttp "net/http"
	"strconv"
	"time"

	perr "piiredact/internal/platform/errors"
	phttp "piiredact/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures the process-wide token bucket
type RateLimitOptions struct {
	// RPS is the sustained request rate; <= 0 disables limiting
	RPS float64
	// Burst is the bucket size; defaults to max(1, RPS)
	Burst int
}

// RateLimit rejects requests beyond the bucket with a 429 envelope and Retry-After
func RateLimit(o RateLimitOptions) func(stdhttp.Handler) stdhttp.Handler {
	if o.RPS <= 0 {
		return func(next stdhttp.Handler) stdhttp.Handler { return next }
	}
	burst := o.Burst
	if burst <= 0 {
		burst = max(1, int(o.RPS))
	}
	lim := rate.NewLimiter(rate.Limit(o.RPS), burst)
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			res := lim.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				secs := int(delay.Round(time.Second) / time.Second)
				w.Header().Set("Retry-After", strconv.Itoa(max(1, secs)))
				phttp.RespondError(w, r, perr.TooManyRequestsf("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
