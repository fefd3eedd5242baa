package httpkit

import (
	"net/http"

	phttp "launchdeck/internal/platform/net/http"
)

// Get mounts a body-less JSON handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// Delete mounts a body-less JSON handler under DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.DeleteJSON(r, path, h)
}

// PostRaw mounts a POST handler that parses its own body
func PostRaw(r Router, path string, h func(*http.Request, []byte) (any, error)) {
	phttp.PostRaw(r, path, h)
}

// Create mounts a validated JSON POST that answers 201
func Create[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.CreateJSON(r, path, h)
}

// Patch mounts a validated JSON PATCH that answers 200
func Patch[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PatchJSON(r, path, h)
}
