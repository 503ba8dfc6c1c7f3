package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "piiredact/internal/platform/errors"
	"piiredact/internal/platform/logger"
)

// DefaultMaxBytes bounds request bodies; documents run to a few hundred kB
const DefaultMaxBytes = 4 << 20

// JSONOptions controls ParseJSON; with no options bodies are capped at
// DefaultMaxBytes and unknown fields are rejected
type JSONOptions struct {
	MaxBytes        int64 // 0 = unbounded
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// ParseJSON reads exactly one JSON value from r into T and validates it
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	o := JSONOptions{MaxBytes: DefaultMaxBytes, DisallowUnknown: true}
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()

	body := io.Reader(r.Body)
	if o.MaxBytes > 0 {
		body = http.MaxBytesReader(nil, r.Body, o.MaxBytes)
	}
	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var out T
	if err := decodeOne(dec, &out, o.AllowEmptyBody); err != nil {
		var zero T
		return zero, err
	}
	if err := Validate(out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func decodeOne(dec *json.Decoder, dst any, allowEmpty bool) error {
	err := dec.Decode(dst)
	var big *http.MaxBytesError
	switch {
	case err == nil:
		if dec.More() {
			return perr.JSONErrf("unexpected trailing data")
		}
		return nil
	case errors.Is(err, io.EOF):
		if allowEmpty {
			return nil
		}
		return perr.JSONErrf("empty body")
	case errors.As(err, &big):
		return perr.Newf(perr.ErrorCodeTooLarge, "body exceeds %d bytes", big.Limit)
	default:
		return perr.JSONErrf("invalid JSON: %v", err)
	}
}
