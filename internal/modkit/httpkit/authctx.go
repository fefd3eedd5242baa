package httpkit

import (
	"net/http"

	perr "launchdeck/internal/platform/errors"
	lnet "launchdeck/internal/platform/net"
)

// Principal returns the authenticated caller; routes behind Protected always have one
func Principal(r *http.Request) (lnet.Principal, error) {
	p, ok := lnet.PrincipalFrom(r.Context())
	if !ok {
		return lnet.Principal{}, perr.Unauthorizedf("missing credentials")
	}
	return p, nil
}
