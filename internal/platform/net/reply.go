package net

import (
	"net/http"

	perr "piiredact/internal/platform/errors"
)

// Wire is the common envelope used by transports
// exactly one of Data or Error is set
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, reqID string) Wire {
	return Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID}
}

// OK builds a 200 envelope around data
func OK(data any, reqID string) (int, Wire) {
	w := envelope(http.StatusOK, reqID)
	w.Data = data
	return w.StatusCode, w
}

// Error classifies err and builds its envelope, nil is treated as success
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	pub := perr.WireFrom(err)
	w := envelope(perr.HTTPStatus(err), reqID)
	w.Code, w.Error, w.Field = pub.Code, pub.Message, pub.Field
	return w.StatusCode, w
}
