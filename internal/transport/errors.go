package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common HTTP status codes.
var (
	ErrUnauthorized = errors.New("numopay: unauthorized (401)")
	ErrForbidden    = errors.New("numopay: forbidden (403)")
	ErrNotFound     = errors.New("numopay: not found (404)")
	ErrRateLimited  = errors.New("numopay: rate limited (429)")
)

// APIError is any non-success outcome after an HTTP response was received.
// It lives in transport so both this package and the root client package can
// use it without an import cycle; the root package re-exports it.
type APIError struct {
	StatusCode int
	// Status is the reason phrase from the status line, e.g. "Unauthorized".
	Status string
	Method string
	Path   string
	// Message is the body's "error" field for structured errors, otherwise
	// the reason phrase.
	Message string
	// Body is the decoded JSON payload. It is non-nil exactly when IsJSON is
	// set; a JSON null body counts as unstructured.
	Body   any
	IsJSON bool
	Header http.Header
	// RawBody is the undecoded response body.
	RawBody []byte
	// Err is the decode failure for a success status whose body was not JSON.
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("numopay: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Structured reports whether the server answered with a decodable JSON body.
func (e *APIError) Structured() bool {
	return e.IsJSON
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}
