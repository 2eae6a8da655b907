package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/numopay/client-go/internal/query"
	"github.com/numopay/client-go/internal/signing"
	"github.com/numopay/client-go/internal/transport"
)

// Params are the parameters of a call. Values may be scalars (strings,
// numbers, bools, decimal.Decimal, time.Time), nil, slices, maps or structs.
type Params map[string]any

// CallOptions describes one API call.
type CallOptions struct {
	// Method is the HTTP method, any case. Defaults to GET.
	Method string
	// Parameters are sent as the query string for GET and HEAD and as a JSON
	// object body for every other method. Defaults to none.
	Parameters Params
}

// Client signs and sends requests to the NumoPay API. It holds no mutable
// state after construction and is safe for concurrent use.
type Client struct {
	creds      signing.Credentials
	baseURL    string
	version    string
	clock      func() time.Time
	httpClient *http.Client
	logger     zerolog.Logger
	http       *transport.HTTPClient
}

// New creates a Client for the given API key pair.
func New(apiKey, apiSecret string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, &AuthError{Message: "API key is required"}
	}
	if apiSecret == "" {
		return nil, &AuthError{Message: "API secret is required"}
	}

	c := &Client{
		creds:   signing.Credentials{APIKey: apiKey, APISecret: apiSecret},
		baseURL: DefaultBaseURL,
		version: signing.DefaultVersion,
		clock:   time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = transport.NewHTTPClient(c.baseURL,
		transport.WithHTTPClient(c.httpClient),
		transport.WithLogger(c.logger),
	)
	return c, nil
}

// APIKey returns the public half of the credentials.
func (c *Client) APIKey() string {
	return c.creds.APIKey
}

// BaseURL returns the URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Call sends a signed request to path and returns the decoded JSON response.
// JSON numbers are returned as json.Number.
//
// Any non-success outcome after a response is received is an *APIError.
func (c *Client) Call(ctx context.Context, path string, opts CallOptions) (any, error) {
	raw, err := c.send(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return transport.DecodeJSON(raw)
}

// CallInto is Call that decodes the response into out.
func (c *Client) CallInto(ctx context.Context, path string, opts CallOptions, out any) error {
	raw, err := c.send(ctx, path, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("numopay: parsing response: %w", err)
	}
	return nil
}

// Do calls path and decodes the response into a value of type T.
func Do[T any](ctx context.Context, c *Client, path string, opts CallOptions) (T, error) {
	var result T
	if err := c.CallInto(ctx, path, opts, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Get calls path with GET.
func (c *Client) Get(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodGet, Parameters: params})
}

// Head calls path with HEAD. A successful HEAD response has no body, so it is
// reported as an unstructured *APIError unless the server sends JSON anyway.
func (c *Client) Head(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodHead, Parameters: params})
}

// Post calls path with POST.
func (c *Client) Post(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodPost, Parameters: params})
}

// Put calls path with PUT.
func (c *Client) Put(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodPut, Parameters: params})
}

// Patch calls path with PATCH.
func (c *Client) Patch(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodPatch, Parameters: params})
}

// Delete calls path with DELETE.
func (c *Client) Delete(ctx context.Context, path string, params Params) (any, error) {
	return c.Call(ctx, path, CallOptions{Method: http.MethodDelete, Parameters: params})
}

// send prepares, signs and dispatches a single request.
func (c *Client) send(ctx context.Context, path string, opts CallOptions) (json.RawMessage, error) {
	req, err := prepare(path, opts)
	if err != nil {
		return nil, err
	}

	headers := signing.BuildAuthHeaders(c.creds, c.clock, c.version, req.method, req.path, req.query, string(req.body))

	resp, err := c.http.Do(ctx, req.method, req.path, req.query, headers, req.body)
	if err != nil {
		return nil, err
	}
	return transport.ParseResponse(resp)
}

// preparedRequest is the wire form of a call. query and body are computed once
// and used verbatim for both the signature and the request itself.
type preparedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

func prepare(path string, opts CallOptions) (preparedRequest, error) {
	if path == "" {
		return preparedRequest{}, &ValidationError{Field: "path", Message: "must not be empty"}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if strings.ContainsAny(path, "?#") {
		return preparedRequest{}, &ValidationError{Field: "path", Message: "must not contain a query or fragment; use Parameters"}
	}

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	req := preparedRequest{method: method, path: path}

	if paramsInQuery(method) {
		q, err := query.Encode(opts.Parameters)
		if err != nil {
			return preparedRequest{}, &ValidationError{Field: "parameters", Message: err.Error(), Err: err}
		}
		if q != "" {
			req.query = "?" + q
		}
		return req, nil
	}

	body, err := encodeBody(opts.Parameters)
	if err != nil {
		return preparedRequest{}, &ValidationError{Field: "parameters", Message: err.Error(), Err: err}
	}
	req.body = body
	return req, nil
}

func paramsInQuery(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// encodeBody serializes params as a JSON object. Missing parameters encode as
// {}. HTML characters are left unescaped so the signed body matches what the
// server sees byte for byte.
func encodeBody(params Params) ([]byte, error) {
	if params == nil {
		params = Params{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
