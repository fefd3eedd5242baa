package httpkit

import "launchdeck/internal/platform/net/middleware"

// Protected registers fn's routes behind Gate(p, capability); routes added to r directly stay public
func Protected(r Router, p middleware.AuthPort, capability string, fn func(Router)) {
	fn(r.With(Gate(p, capability)))
}
