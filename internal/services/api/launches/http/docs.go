package http

import (
	"maps"

	"launchdeck/internal/modkit/swaggerkit"
	"launchdeck/internal/services/api/launches/domain"
)

// Docs registers the launch paths under base, e.g. /launches
func Docs(base string) swaggerkit.SpecMutator {
	return func(s swaggerkit.Spec) {
		swaggerkit.AddSchema(s, "Launch", launchSchema())
		swaggerkit.AddSchema(s, "LaunchPage", pageSchema())
		swaggerkit.AddSchema(s, "LaunchInput", inputSchema())

		list := op("list", "200", swaggerkit.JSONBody("launches", map[string]any{"type": "array", "items": swaggerkit.Ref("Launch")}))
		one := op("single launch", "200", swaggerkit.JSONBody("launch", swaggerkit.Ref("Launch")))
		nullable := op("first match or null", "200", swaggerkit.JSONBody("launch or null", swaggerkit.Ref("Launch")))

		swaggerkit.AddPath(s, base+"/past", map[string]any{"get": list})
		swaggerkit.AddPath(s, base+"/upcoming", map[string]any{"get": list})
		swaggerkit.AddPath(s, base+"/latest", map[string]any{"get": nullable})
		swaggerkit.AddPath(s, base+"/next", map[string]any{"get": nullable})
		swaggerkit.AddPath(s, base, map[string]any{
			"get":  list,
			"post": secured(op("create", "201", swaggerkit.JSONBody("created", swaggerkit.Ref("Launch"))), domain.CapCreate, swaggerkit.Ref("LaunchInput")),
		})
		swaggerkit.AddPath(s, base+"/query", map[string]any{
			"post": withBody(op("filter, sort and paginate", "200", swaggerkit.JSONBody("page", swaggerkit.Ref("LaunchPage"))), map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":   map[string]any{"type": "object"},
					"options": map[string]any{"type": "object"},
				},
			}),
		})
		idParam := []any{map[string]any{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string", "format": "uuid"}}}
		byID := map[string]any{
			"get":    withParams(one, idParam),
			"patch":  withParams(secured(op("partial update", "200", swaggerkit.JSONBody("updated", swaggerkit.Ref("Launch"))), domain.CapUpdate, map[string]any{"type": "object"}), idParam),
			"delete": withParams(secured(op("delete if present", "200", swaggerkit.JSONBody("deleted", map[string]any{"type": "object", "properties": map[string]any{"deleted": map[string]any{"type": "boolean"}}})), domain.CapDelete, nil), idParam),
		}
		swaggerkit.AddPath(s, base+"/{id}", byID)
	}
}

func op(summary, status string, ok map[string]any) map[string]any {
	return map[string]any{
		"tags":      []any{"Launches"},
		"summary":   summary,
		"responses": map[string]any{status: ok},
	}
}

func withBody(o map[string]any, schema map[string]any) map[string]any {
	o["requestBody"] = map[string]any{
		"required": true,
		"content":  map[string]any{"application/json": map[string]any{"schema": schema}},
	}
	return o
}

func withParams(o map[string]any, params []any) map[string]any {
	c := maps.Clone(o)
	c["parameters"] = params
	return c
}

// secured adds the key requirement and the 401/403 responses
func secured(o map[string]any, capability string, body map[string]any) map[string]any {
	o["security"] = []any{map[string]any{"apiKey": []any{}}}
	o["description"] = "requires capability " + capability
	resps := o["responses"].(map[string]any)
	resps["401"] = swaggerkit.JSONBody("missing or invalid key", swaggerkit.Ref("ErrorResponse"))
	resps["403"] = swaggerkit.JSONBody("capability missing", swaggerkit.Ref("ErrorResponse"))
	if body != nil {
		withBody(o, body)
	}
	return o
}

func launchSchema() map[string]any {
	str := map[string]any{"type": "string"}
	nstr := map[string]any{"type": "string", "nullable": true}
	boolean := map[string]any{"type": "boolean"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":             map[string]any{"type": "string", "format": "uuid"},
			"flight_number":  map[string]any{"type": "integer"},
			"name":           str,
			"date_utc":       map[string]any{"type": "string", "format": "date-time"},
			"date_unix":      map[string]any{"type": "integer"},
			"date_precision": map[string]any{"type": "string", "enum": precisions()},
			"upcoming":       boolean,
			"success":        map[string]any{"type": "boolean", "nullable": true},
			"details":        nstr,
			"rocket":         nstr,
			"launchpad":      nstr,
			"tbd":            boolean,
			"net":            boolean,
			"window":         map[string]any{"type": "integer", "nullable": true},
			"auto_update":    boolean,
			"payloads":       map[string]any{"type": "array", "items": str},
			"created_at":     map[string]any{"type": "string", "format": "date-time"},
			"updated_at":     map[string]any{"type": "string", "format": "date-time"},
		},
	}
}

func inputSchema() map[string]any {
	s := launchSchema()
	props := s["properties"].(map[string]any)
	for _, k := range []string{"id", "date_unix", "created_at", "updated_at"} {
		delete(props, k)
	}
	s["required"] = []any{"flight_number", "name", "date_utc", "date_precision", "upcoming"}
	return s
}

func pageSchema() map[string]any {
	integer := map[string]any{"type": "integer"}
	nint := map[string]any{"type": "integer", "nullable": true}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items":         map[string]any{"type": "array", "items": swaggerkit.Ref("Launch")},
			"total_count":   integer,
			"page":          integer,
			"limit":         integer,
			"total_pages":   integer,
			"has_prev_page": map[string]any{"type": "boolean"},
			"has_next_page": map[string]any{"type": "boolean"},
			"prev_page":     nint,
			"next_page":     nint,
		},
	}
}

func precisions() []any {
	out := make([]any, len(domain.DatePrecisions))
	for i, p := range domain.DatePrecisions {
		out[i] = p
	}
	return out
}
