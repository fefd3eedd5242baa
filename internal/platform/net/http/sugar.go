package http

import "net/http"

// GetJSON mounts a JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, NoBodyHandler(h))
}

// DeleteJSON mounts a JSON handler for DELETE (no request body)
func DeleteJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, NoBodyHandler(h))
}

// PostRaw mounts a POST handler that receives the raw body
func PostRaw(r Router, path string, h func(*http.Request, []byte) (any, error)) {
	r.Post(path, RawHandler(h))
}

// CreateJSON mounts a POST handler that answers 201
func CreateJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(http.StatusCreated, h))
}

// PatchJSON mounts a PATCH handler that answers 200
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Patch(path, JSONHandler(http.StatusOK, h))
}
