package errors

import (
	"net/http"
	"strconv"
)

// ErrorCode classifies failures at the service boundary
// Values are stable for wire compatibility; append only
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota
	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic
	// ErrorCodeUnavailable is for transient collaborator failures where retry may succeed
	ErrorCodeUnavailable
	// ErrorCodeTooManyRequests is for rate limiting
	ErrorCodeTooManyRequests
	// ErrorCodeInvalidArgument is for well-formed input that cannot be processed
	ErrorCodeInvalidArgument
	// ErrorCodeValidation is for request DTO validation failures
	ErrorCodeValidation
	// ErrorCodeJSON is for JSON parsing errors
	ErrorCodeJSON
	// ErrorCodeNotFound is for unknown routes or resources
	ErrorCodeNotFound
	// ErrorCodeOffset is for spans that fall outside the text or split a rune
	ErrorCodeOffset
	// ErrorCodeUpstream is for malformed replies from the classifier
	ErrorCodeUpstream
	// ErrorCodeTimeout is for deadlines hit while waiting on a collaborator
	ErrorCodeTimeout
	// ErrorCodeTooLarge is for request bodies over the configured limit
	ErrorCodeTooLarge
)

type codeInfo struct {
	name      string
	status    int
	retryable bool
}

// codes is indexed by ErrorCode
var codes = [...]codeInfo{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError, false},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError, false},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable, true},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests, true},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity, false},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest, false},
	ErrorCodeJSON:            {"json", http.StatusBadRequest, false},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound, false},
	ErrorCodeOffset:          {"offset", http.StatusUnprocessableEntity, false},
	ErrorCodeUpstream:        {"upstream", http.StatusBadGateway, false},
	ErrorCodeTimeout:         {"timeout", http.StatusGatewayTimeout, true},
	ErrorCodeTooLarge:        {"too_large", http.StatusRequestEntityTooLarge, false},
}

func (c ErrorCode) info() codeInfo {
	if int(c) < len(codes) {
		return codes[c]
	}
	return codes[ErrorCodeUnknown]
}

// String returns the snake case name used in logs
func (c ErrorCode) String() string {
	if int(c) >= len(codes) {
		return "code(" + strconv.Itoa(int(c)) + ")"
	}
	return codes[c].name
}

// HTTPStatusCode turns an ErrorCode into an http status code; unknown values map to 500
func HTTPStatusCode(c ErrorCode) int { return c.info().status }
