package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/numopay/client-go/internal/transport"
)

// APIError represents a non-success response from the NumoPay API.
//
// Structured() reports whether the server sent a JSON body; in that case
// Message is the body's "error" field and Body holds the decoded payload.
// Otherwise Message is the HTTP reason phrase and Body is nil. A success
// status with an undecodable body is also reported as an unstructured
// APIError, with the decode failure available through errors.Unwrap.
//
// Network failures that happen before any response is received are not
// APIErrors; they are returned as produced by net/http.
type APIError = transport.APIError

// Sentinel errors for common HTTP status codes, matched with errors.Is:
//
//	if errors.Is(err, client.ErrUnauthorized) { ... }
var (
	ErrUnauthorized = transport.ErrUnauthorized
	ErrForbidden    = transport.ErrForbidden
	ErrNotFound     = transport.ErrNotFound
	ErrRateLimited  = transport.ErrRateLimited
)

// AuthError indicates the client cannot sign requests.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("numopay auth: %s", e.Message)
}

// ValidationError indicates invalid call input. No request is sent.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("numopay validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request could be
// retried by the caller. The client never retries on its own.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
