package logger

import (
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

func initSentry(opt Options) error {
	var release string
	if bi, ok := debug.ReadBuildInfo(); ok {
		release = bi.Main.Version
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:         opt.SentryDSN,
		Environment: opt.SentryEnvironment,
		Release:     release,
		ServerName:  opt.Service,
	})
}

// Flush waits up to timeout for queued Sentry events
func Flush(timeout time.Duration) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.Flush(timeout)
}

// SentryHook captures error, fatal and panic events on Hub
// events carrying a Reported context are skipped, RecoverJSON already sent them
type SentryHook struct {
	Hub *sentry.Hub
}

// Run implements zerolog.Hook
func (h SentryHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if h.Hub == nil || !forwarded(level) {
		return
	}
	if ctx := e.GetCtx(); ctx != nil {
		if seen, _ := ctx.Value(keyReported).(bool); seen {
			return
		}
	}
	sl := sentry.LevelError
	if level >= zerolog.FatalLevel {
		sl = sentry.LevelFatal
	}
	h.Hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sl)
		scope.SetTag("logger", "zerolog")
		h.Hub.CaptureMessage(msg)
	})
}

func forwarded(l zerolog.Level) bool {
	switch l {
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return true
	}
	return false
}
