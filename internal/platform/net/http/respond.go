// Package http is the transport layer of the api: a chi backed Router, the
// server lifecycle, debug mounts and the JSON envelope every handler answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "piiredact/internal/platform/net"
)

// Envelope is the body of every api response
type Envelope = pnet.Wire

// JSON writes v with status as application/json
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes data in a 200 envelope
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	OK(data).write(w, r)
}

// RespondError writes err in an envelope with its mapped status
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	Error(err).write(w, r)
}

// Response is what return style handlers produce
// a zero Status means 200 for data and the mapped status for an error Body
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK is a 200 response around data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// NoContent is an empty 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error is a response whose status comes from err's code
func Error(err error) Response { return Response{Body: err} }

// Handle serves the Response built by h
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if resp.Status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}
	reqID := pnet.RequestID(r.Context())

	var env Envelope
	if err, ok := resp.Body.(error); ok && err != nil {
		_, env = pnet.Error(err, reqID)
	} else {
		_, env = pnet.OK(resp.Body, reqID)
	}
	if resp.Status != 0 {
		env.StatusCode = resp.Status
		env.Status = stdhttp.StatusText(resp.Status)
	}
	JSON(w, env.StatusCode, env)
}
