// Package version reports build metadata stamped in with -ldflags
package version

import "runtime"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Set via -ldflags "-X 'launchdeck/internal/core/version.version=v4.0.1'
// -X 'launchdeck/internal/core/version.commit=abcd' -X 'launchdeck/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Service is the name reported by meta endpoints and the swagger doc
const Service = "launchdeck-api"

// Info returns the build information
func Info() BuildInfo {
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
}
