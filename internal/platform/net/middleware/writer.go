package middleware

import (
	"bytes"
	"net/http"
)

// bufferedWriter holds a whole response so it can be inspected before the client sees it
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: http.Header{}}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) code() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

// flush copies the buffered response to w; extra headers are set after the buffered ones
func (b *bufferedWriter) flush(w http.ResponseWriter, extra http.Header) {
	replay(w, b.header, extra, b.code(), b.body.Bytes())
}

func replay(w http.ResponseWriter, header, extra http.Header, status int, body []byte) {
	dst := w.Header()
	for k, vv := range header {
		dst[k] = append([]string(nil), vv...)
	}
	for k, vv := range extra {
		dst[k] = append([]string(nil), vv...)
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
