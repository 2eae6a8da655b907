package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var errInvalidJSON = errors.New("numopay: response body is not valid JSON")

// HTTPClient issues exactly one HTTP request per call against a fixed base
// URL. It performs no retries and imposes no timeout of its own; both are
// left to the caller's context and the wrapped *http.Client.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  zerolog.Logger
}

// Option is a functional option for configuring HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewHTTPClient creates a new HTTPClient with the given base URL and options.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are sent to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do sends method to baseURL+path+query. query must be empty or start with
// "?". A nil body sends no request body. Transport failures are returned
// unwrapped.
func (c *HTTPClient) Do(ctx context.Context, method, path, query string, headers http.Header, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+query, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("numopay: creating request: %w", err)
	}
	for key, vals := range headers {
		for _, val := range vals {
			req.Header.Add(key, val)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("numopay request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("numopay request")
	return resp, nil
}

// ParseResponse reads and closes the response body and sorts the outcome:
//   - 2xx with a JSON body: the raw JSON is returned.
//   - 2xx with anything else: an unstructured *APIError wrapping the decode error.
//   - non-2xx with a JSON body: a structured *APIError carrying the body's
//     "error" message and the decoded payload.
//   - non-2xx with anything else, including a bare JSON null: an unstructured
//     *APIError whose message is the status reason phrase.
func ParseResponse(resp *http.Response) (json.RawMessage, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("numopay: reading response body: %w", err)
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     reasonPhrase(resp),
		Header:     resp.Header,
		RawBody:    body,
	}
	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.Path = resp.Request.URL.Path
	}
	apiErr.Message = apiErr.Status

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var raw json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			apiErr.Err = err
			return nil, apiErr
		}
		return raw, nil
	}

	payload, err := DecodeJSON(body)
	if err != nil || payload == nil {
		return nil, apiErr
	}
	apiErr.Body = payload
	apiErr.IsJSON = true
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok {
			apiErr.Message = msg
		}
	}
	return nil, apiErr
}

// DecodeJSON decodes body into generic values, keeping numbers as
// json.Number so large amounts survive untouched.
func DecodeJSON(body []byte) (any, error) {
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// reasonPhrase extracts the reason phrase from the status line, falling back
// to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
