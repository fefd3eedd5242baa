// Package middleware holds the chi adapters and in house middlewares: access log,
// JSON panic recovery, the guard pipeline and the response cache
package middleware

import (
	"net/http"
	"time"

	"launchdeck/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests at or above this duration at warn; 0 disables it
	Slow time.Duration
}

// AccessLogZerolog logs one line per request: route, status, elapsed, bytes, request id and the X-Cache outcome.
// 5xx log at error, slow requests at warn
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := level(logger.C(r.Context()), status, elapsed, opt.Slow)
			if id := chimw.GetReqID(r.Context()); id != "" {
				evt = evt.Str("request_id", id)
			}
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				evt = evt.Str("route", rc.RoutePattern())
			}
			if xc := ww.Header().Get(CacheHeader); xc != "" {
				evt = evt.Str("cache", xc)
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}

func level(log *logger.Logger, status int, elapsed, slow time.Duration) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case slow > 0 && elapsed >= slow:
		return log.Warn()
	default:
		return log.Info()
	}
}
