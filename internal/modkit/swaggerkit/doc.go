// Package swaggerkit serves an OpenAPI document assembled from module registrations
package swaggerkit

import (
	"maps"
	"net/http"
	"strconv"
	"sync"

	perr "launchdeck/internal/platform/errors"
)

// Spec is a decoded OpenAPI 3.0 document
type Spec = map[string]any

// SpecMutator lets a module add its paths and schemas
type SpecMutator func(Spec)

var (
	mu       sync.Mutex
	mutators []SpecMutator
)

// Register adds a spec mutator; modules call it while mounting routes
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Reset drops every registration; tests only
func Reset() {
	mu.Lock()
	mutators = nil
	mu.Unlock()
}

// Info titles the document
type Info struct {
	Title     string
	Version   string
	ServerURL string
}

// Build renders the document: the base skeleton, every mutator, then default error responses
func Build(info Info) Spec {
	spec := Spec{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": info.Title, "version": info.Version},
		"servers": []any{map[string]any{"url": info.ServerURL}},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{"ErrorResponse": errorSchema()},
			"securitySchemes": map[string]any{
				"apiKey": map[string]any{"type": "apiKey", "in": "header", "name": "spacex-key"},
			},
		},
	}

	mu.Lock()
	ms := append([]SpecMutator(nil), mutators...)
	mu.Unlock()
	for _, m := range ms {
		m(spec)
	}

	addDefault(spec, http.StatusBadRequest, perr.ErrorCodeValidation, "limit must be a positive integer")
	addDefault(spec, http.StatusInternalServerError, perr.ErrorCodeDB, "store error")
	return spec
}

// AddPath merges ops into paths[path]
func AddPath(spec Spec, path string, ops map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	if paths == nil {
		paths = map[string]any{}
		spec["paths"] = paths
	}
	node, _ := paths[path].(map[string]any)
	if node == nil {
		node = map[string]any{}
		paths[path] = node
	}
	maps.Copy(node, ops)
}

// AddSchema sets components.schemas[name]
func AddSchema(spec Spec, name string, schema map[string]any) {
	comps, _ := spec["components"].(map[string]any)
	if comps == nil {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, _ := comps["schemas"].(map[string]any)
	if schemas == nil {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	schemas[name] = schema
}

// Ref is a $ref to a component schema
func Ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// JSONBody wraps a schema as application/json content
func JSONBody(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

// matches the runtime error envelope
func errorSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func addDefault(spec Spec, status int, code perr.ErrorCode, msg string) {
	key, text := strconv.Itoa(status), http.StatusText(status)
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := JSONBody(text, Ref("ErrorResponse"))
	resp["content"].(map[string]any)["application/json"].(map[string]any)["example"] = map[string]any{
		"status_code": status,
		"status":      text,
		"code":        code,
		"error":       msg,
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			resps, ok := op["responses"].(map[string]any)
			if !ok {
				resps = map[string]any{}
				op["responses"] = resps
			}
			if _, exists := resps[key]; !exists {
				resps[key] = resp
			}
		}
	}
}
