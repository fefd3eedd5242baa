package middleware

import (
	"net/http"

	lnet "launchdeck/internal/platform/net"
)

// WriteFunc writes a JSON body with status; phttp.JSON satisfies it
type WriteFunc func(w http.ResponseWriter, status int, body any)

// Guard admits a request, possibly enriched, or rejects it with an error
type Guard func(r *http.Request) (*http.Request, error)

// Guards runs guards in order and stops at the first rejection.
// The rejection is written as the error envelope and the wrapped handler never runs
func Guards(write WriteFunc, guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, g := range guards {
				nr, err := g(r)
				if err != nil {
					status, body := lnet.Fail(err, lnet.RequestID(r.Context()))
					if status == http.StatusUnauthorized {
						w.Header().Set("WWW-Authenticate", `Bearer realm="launchdeck"`)
					}
					write(w, status, body)
					return
				}
				if nr != nil {
					r = nr
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Gate is the standard mutation pipeline: authenticate, then require capability
func Gate(write WriteFunc, port AuthPort, capability string) func(http.Handler) http.Handler {
	return Guards(write, Authenticate(port), RequireCapability(capability))
}
