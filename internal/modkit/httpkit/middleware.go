package httpkit

import (
	"net/http"
	"time"

	"piiredact/internal/platform/config"
	"piiredact/internal/platform/net/middleware"
)

// StackOptions tunes the api middleware stack
type StackOptions struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	CORSOrigins []string
	RateRPS     float64
	RateBurst   int
}

// StackFromConfig reads API_TIMEOUT, API_SLOW, API_CORS_ORIGINS, API_RATE_RPS and API_RATE_BURST
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Timeout:     cfg.MayDuration("API_TIMEOUT", 60*time.Second),
		SlowRequest: cfg.MayDuration("API_SLOW", 2*time.Second),
		CORSOrigins: cfg.MayCSV("API_CORS_ORIGINS", nil),
		RateRPS:     cfg.MayFloat64("API_RATE_RPS", 0),
		RateBurst:   cfg.MayInt("API_RATE_BURST", 0),
	}
}

// CommonStack returns the baseline middleware slice for the versioned api
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	stack := middleware.Defaults(o.Timeout)
	return append(stack,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.RateLimit(middleware.RateLimitOptions{RPS: o.RateRPS, Burst: o.RateBurst}),
		middleware.AllowContentType("application/json"),
	)
}
