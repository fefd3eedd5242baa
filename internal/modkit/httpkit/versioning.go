package httpkit

import "strings"

// MountVersion mounts a subrouter under /{version}, applies mw, then calls mount
//
// example:
//
//	httpkit.MountVersion(r, "v4", httpkit.CommonStack(opts), func(api httpkit.Router) {
//	  launches.MountRoutes(api)
//	})
func MountVersion(r Router, version string, mw []Middleware, mount func(Router)) {
	MountUnder(r, "/"+strings.Trim(version, "/"), mw, mount)
}
