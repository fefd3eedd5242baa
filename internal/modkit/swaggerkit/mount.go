package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"

	"launchdeck/internal/platform/config"
	phttp "launchdeck/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options controls Mount
type Options struct {
	Enabled bool
	// Prefix is where the UI lives, doc.json sits under it
	Prefix string
	Info   Info
}

// OptionsFromEnv reads API_DOCS and API_DOCS_TITLE_SUFFIX
func OptionsFromEnv(c config.Conf, info Info) Options {
	ac := c.Prefix("API_")
	if v := ac.MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
		info.Title += " " + v
	}
	return Options{Enabled: ac.MayBool("DOCS", true), Prefix: "/swagger", Info: info}
}

// Mount serves the swagger UI and the built document when enabled
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	prefix := "/" + strings.Trim(o.Prefix, "/")
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/index.html", http.StatusPermanentRedirect)
	})
	r.Get(prefix+"/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Build(o.Info))
	})
	r.Handle(prefix+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName("launchdeck"),
		httpSwagger.URL(prefix+"/doc.json"),
	))
}
