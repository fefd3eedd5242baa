package middleware

import (
	"net/http"

	perr "launchdeck/internal/platform/errors"
	"launchdeck/internal/platform/logger"
	lnet "launchdeck/internal/platform/net"
)

// RequireCapability admits principals holding exactly capability.
// No principal is a 401; a principal without it is a 403
func RequireCapability(capability string) Guard {
	return func(r *http.Request) (*http.Request, error) {
		p, ok := lnet.PrincipalFrom(r.Context())
		if !ok {
			return nil, perr.Unauthorizedf("authentication required")
		}
		if !p.Can(capability) {
			logger.C(r.Context()).Info().Str("capability", capability).Msg("capability denied")
			return nil, perr.Forbiddenf("missing capability %s", capability)
		}
		return r, nil
	}
}
