package http

import (
	"net/http"

	"piiredact/internal/platform/net/http/bind"
)

// result turns a handler's return pair into a Response
// a Response returned as data is written untouched so handlers can pin a status
func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// Call adapts a handler that reads nothing from the request body
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// Bind adapts a handler that takes a decoded and validated JSON body
func Bind[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// GetJSON registers fn under GET path
func GetJSON(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}

// PostJSON registers fn under POST path with a typed JSON body
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, Bind(fn, opts...))
}
