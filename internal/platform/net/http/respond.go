// Package http holds the router facade, server and JSON response helpers.
// Success bodies are written as is; failures use the net.Wire envelope
package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"

	"launchdeck/internal/platform/logger"
	lnet "launchdeck/internal/platform/net"
)

// ContentTypeJSON is the content type of every JSON body we write
const ContentTypeJSON = "application/json; charset=utf-8"

// JSON encodes v and writes it with status. An unencodable v becomes a 500 envelope
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Get().Error().Err(err).Msg("encode response")
		status = stdhttp.StatusInternalServerError
		buf.Reset()
		_, wire := lnet.Fail(nil, "")
		_ = json.NewEncoder(&buf).Encode(wire)
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Fail writes the error envelope for err; server side failures are logged with their cause
func Fail(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, wire := lnet.Fail(err, lnet.RequestID(r.Context()))
	if status >= stdhttp.StatusInternalServerError {
		logger.C(r.Context()).Error().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	}
	JSON(w, status, wire)
}

// Response is returned by return-style handlers
type Response struct {
	Status int
	Body   any
	Err    error
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to a Handler
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if resp.Err != nil {
		Fail(w, r, resp.Err)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, resp.Body)
}

// OK returns a 200 response; a nil body is written as null
func OK(v any) Response { return Response{Status: stdhttp.StatusOK, Body: v} }

// Created returns a 201 response
func Created(v any) Response { return Response{Status: stdhttp.StatusCreated, Body: v} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response that writes the envelope for err
func Error(err error) Response { return Response{Err: err} }
