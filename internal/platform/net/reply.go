package net

import (
	"net/http"

	perr "launchdeck/internal/platform/errors"
)

// Wire is the error envelope written by every transport; success bodies are not wrapped
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code"`
	Error      string         `json:"error"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Fail maps err to its status and envelope. A nil err yields 500 since callers only fail on errors
func Fail(err error, reqID string) (int, Wire) {
	if err == nil {
		err = perr.Internalf("internal error")
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
