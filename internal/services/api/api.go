// Package api provides the HTTP API for launchdeck
package api

import (
	"launchdeck/internal/core/version"
	"launchdeck/internal/modkit"
	"launchdeck/internal/modkit/httpkit"
	"launchdeck/internal/modkit/module"
	"launchdeck/internal/modkit/swaggerkit"
	phttp "launchdeck/internal/platform/net/http"
	"launchdeck/internal/services/api/launches/domain"

	launchesmod "launchdeck/internal/services/api/launches/module"
	metamod "launchdeck/internal/services/api/meta/module"
)

// Version is the path segment every module mounts under
const Version = "v4"

// Options are the API options
type Options struct {
	Deps           modkit.Deps
	Stack          httpkit.StackOptions
	Docs           swaggerkit.Options
	EnableProfiler bool
	// Populator is optional; without it populate requests return ids
	Populator domain.Populator
}

// DocInfo describes the served API in the swagger document
func DocInfo() swaggerkit.Info {
	return swaggerkit.Info{Title: "launchdeck API", Version: version.Info().Version, ServerURL: "/" + Version}
}

// Mount mounts every module under /v4 and returns them so callers can reach their ports
func Mount(r phttp.Router, opt Options) []module.Module {
	mods := []module.Module{
		metamod.New(opt.Deps),
		launchesmod.New(opt.Deps, modkit.WithPorts(launchesmod.Needs{Populator: opt.Populator})),
	}

	if opt.Docs.Info.Title == "" {
		opt.Docs.Info = DocInfo()
	}
	swaggerkit.Mount(r, opt.Docs)
	phttp.MountProfiler(r, "/debug/pprof", opt.EnableProfiler)

	httpkit.MountVersion(r, Version, httpkit.CommonStack(opt.Stack), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
	return mods
}
