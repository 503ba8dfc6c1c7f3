// Package logger wraps zerolog: one root logger configured from LOG_* env,
// request scoped children and optional Sentry forwarding of errors
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"piiredact/internal/platform/config/raw"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string

	// SentryDSN enables forwarding of error-level events when non-empty
	SentryDSN         string
	SentryEnvironment string
}

// FromEnv reads LOG_* through the raw config view, which never logs
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:             strings.ToLower(rc.Get("LEVEL", "info")),
		Format:            strings.ToLower(rc.Get("FORMAT", "console")),
		Service:           rc.Get("SERVICE", ""),
		Component:         rc.Get("COMPONENT", ""),
		WithCaller:        rc.GetBool("CALLER", false),
		SampleEvery:       rc.GetInt("SAMPLE_EVERY", 0),
		SentryDSN:         rc.Get("SENTRY_DSN", ""),
		SentryEnvironment: rc.Get("SENTRY_ENV", "development"),
	}
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the root logger, initializing it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Init builds the root logger from opt; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

func build(opt Options) zerolog.Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := map[string]string{"service": opt.Service, "component": opt.Component}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields["go_version"] = bi.GoVersion
	}
	for k, v := range opt.StaticFields {
		fields[k] = v
	}
	zc := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	for k, v := range fields {
		if v != "" {
			zc = zc.Str(k, v)
		}
	}
	if opt.WithCaller {
		zc = zc.Caller()
	}

	l := zc.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	if opt.SentryDSN == "" {
		return l
	}
	if err := initSentry(opt); err != nil {
		l.Warn().Err(err).Msg("sentry disabled")
		return l
	}
	return l.Hook(SentryHook{Hub: sentry.CurrentHub()})
}

// parseLevel maps LOG_LEVEL onto zerolog, anything unknown or empty is info
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyDocumentID
	keyReported
)

// Reported marks ctx as already sent to Sentry so SentryHook skips events logged with it
func Reported(ctx context.Context) context.Context {
	return context.WithValue(ctx, keyReported, true)
}

// WithRequest stores the request id that C attaches as request_id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return withString(ctx, keyRequestID, reqID)
}

// WithDocument stores the document id that C attaches as doc_id
func WithDocument(ctx context.Context, docID string) context.Context {
	return withString(ctx, keyDocumentID, docID)
}

func withString(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// C is the root logger with request_id and doc_id taken from ctx
func C(ctx context.Context) *Logger {
	zc := Get().With()
	for k, field := range map[ctxKey]string{keyRequestID: "request_id", keyDocumentID: "doc_id"} {
		if v, _ := ctx.Value(k).(string); v != "" {
			zc = zc.Str(field, v)
		}
	}
	l := zc.Logger()
	return &l
}

// Named is the root logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
