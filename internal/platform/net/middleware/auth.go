package middleware

import (
	"context"
	"net/http"
	"strings"

	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/logger"
	lnet "launchdeck/internal/platform/net"
)

// KeyHeader carries an API key as an alternative to Authorization: Bearer
const KeyHeader = "spacex-key"

// AuthPort verifies an API key and resolves the caller
type AuthPort interface {
	Authenticate(ctx context.Context, key string) (lnet.Principal, error)
}

// AuthFunc adapts a function to AuthPort
type AuthFunc func(ctx context.Context, key string) (lnet.Principal, error)

// Authenticate implements AuthPort
func (f AuthFunc) Authenticate(ctx context.Context, key string) (lnet.Principal, error) {
	return f(ctx, key)
}

// Credential extracts the API key from spacex-key or a Bearer Authorization header
func Credential(r *http.Request) (string, bool) {
	if k := strings.TrimSpace(r.Header.Get(KeyHeader)); k != "" {
		return k, true
	}
	s := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer"
	if len(s) <= len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(s[len(prefix):])
	return tok, tok != ""
}

// Authenticate rejects requests without a valid key (401) and stores the principal on success
func Authenticate(port AuthPort) Guard {
	return func(r *http.Request) (*http.Request, error) {
		key, ok := Credential(r)
		if !ok {
			return nil, perr.Unauthorizedf("missing api key")
		}
		if port == nil {
			return nil, perr.Unauthorizedf("invalid api key")
		}
		p, err := port.Authenticate(r.Context(), key)
		if err != nil {
			if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
				logger.C(r.Context()).Warn().Err(err).Msg("auth port failed")
			}
			return nil, perr.Unauthorizedf("invalid api key")
		}
		ctx := lnet.WithPrincipal(r.Context(), p)
		ctx = logger.WithRequest(ctx, lnet.RequestID(ctx), p.Subject)
		return r.WithContext(ctx), nil
	}
}
