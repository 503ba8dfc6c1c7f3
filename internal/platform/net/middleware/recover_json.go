package middleware

import (
	stdhttp "net/http"
	"runtime/debug"
	"strings"

	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
	pnet "piiredact/internal/platform/net"
	phttp "piiredact/internal/platform/net/http"

	"github.com/getsentry/sentry-go"
)

// RecoverJSON converts panics into a JSON 500, reports them to Sentry when configured
// and logs the stack with the request id
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == stdhttp.ErrAbortHandler {
				panic(v)
			}
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)

			if hub := sentry.CurrentHub(); hub.Client() != nil {
				hub = hub.Clone()
				hub.Scope().SetTag("request_id", reqID)
				hub.Scope().SetRequest(r)
				hub.RecoverWithContext(ctx, v)
				ctx = logger.Reported(ctx)
			}

			// format stack like chi recover
			stack := strings.Join(strings.Split(string(debug.Stack()), "\n"), "\n\t")
			logger.C(ctx).Error().Ctx(ctx).
				Interface("panic", v).
				Msgf("panic recovered\n%s", stack)

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
