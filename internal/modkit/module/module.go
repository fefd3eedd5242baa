// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "launchdeck/internal/platform/net/http"
)

// Module is what api.Mount iterates over
// it lives apart from modkit so a module package can export its own ports type without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
