package http

import (
	"net/http"

	"launchdeck/internal/platform/net/http/bind"
)

// JSONHandler decodes and validates T, then writes fn's result with status
func JSONHandler[T any](status int, fn func(*http.Request, T) (any, error)) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := bind.ParseJSON[T](w, r)
		if err != nil {
			Fail(w, r, err)
			return
		}
		out, err := fn(r, in)
		if err != nil {
			Fail(w, r, err)
			return
		}
		JSON(w, status, out)
	}
}

// RawHandler passes the unparsed body to fn; an empty body arrives as nil
func RawHandler(fn func(*http.Request, []byte) (any, error)) Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := bind.Raw(w, r, bind.DefaultMaxBytes)
		if err != nil {
			Fail(w, r, err)
			return
		}
		out, err := fn(r, body)
		if err != nil {
			Fail(w, r, err)
			return
		}
		JSON(w, http.StatusOK, out)
	}
}

// NoBodyHandler calls fn without reading a request body
func NoBodyHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
