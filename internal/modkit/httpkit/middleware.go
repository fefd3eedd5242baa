package httpkit

import (
	"time"

	"launchdeck/internal/platform/config"
	phttp "launchdeck/internal/platform/net/http"
	"launchdeck/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	SlowRequest    time.Duration
}

// StackOptionsFromEnv reads API_CORS_ORIGINS, API_REQUEST_TIMEOUT and API_SLOW_REQUEST
func StackOptionsFromEnv(c config.Conf) StackOptions {
	ac := c.Prefix("API_")
	return StackOptions{
		CORSOrigins:    ac.MayCSV("CORS_ORIGINS", nil),
		RequestTimeout: ac.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    ac.MayDuration("SLOW_REQUEST", time.Second),
	}
}

// CommonStack is the middleware every versioned route runs
func CommonStack(o StackOptions) []Middleware {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	return []Middleware{
		// correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// observability wraps recovery so panics are logged with their 500
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.RecoverJSON(phttp.JSON),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.StripSlashes(),
		middleware.Timeout(o.RequestTimeout),
	}
}

// Gate wires the authenticate then capability pipeline to the platform JSON writer
func Gate(p middleware.AuthPort, capability string) Middleware {
	return middleware.Gate(phttp.JSON, p, capability)
}
