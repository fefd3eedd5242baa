package middleware

import (
	"net/http"
	"runtime/debug"

	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/logger"
	lnet "launchdeck/internal/platform/net"
)

// RecoverJSON turns a panic into a 500 error envelope and logs the stack
func RecoverJSON(write WriteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				reqID := lnet.RequestID(r.Context())
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				if reqID != "" {
					w.Header().Set("X-Request-ID", reqID)
				}
				status, body := lnet.Fail(perr.PanicErrf("internal error"), reqID)
				write(w, status, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
