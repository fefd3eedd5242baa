package http

import "launchdeck/internal/modkit/swaggerkit"

// Docs adds the meta routes under base to the API document
func Docs(base string) swaggerkit.SpecMutator {
	return func(s swaggerkit.Spec) {
		get := func(summary string) map[string]any {
			return map[string]any{"get": map[string]any{
				"tags":      []string{"meta"},
				"summary":   summary,
				"responses": map[string]any{"200": map[string]any{"description": "OK"}},
			}}
		}
		swaggerkit.AddPath(s, base+"/health", get("Liveness and uptime"))
		swaggerkit.AddPath(s, base+"/ready", get("Dependency readiness; 503 when any check fails"))
		swaggerkit.AddPath(s, base+"/version", get("Build information"))
	}
}
