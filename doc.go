// Package client is a Go client for the NumoPay HTTP API.
//
// Every request is signed with a short-lived access token sent as
//
//	Authorization: NP-ACCESS-TOKEN <version>.<timestamp>.<apiKey>.<signature>
//
// where signature is the lowercase hex HMAC-SHA256, keyed by the API secret,
// of timestamp + METHOD + path + query + body. A new token is built for every
// request.
//
// # Parameters
//
// For GET and HEAD, [CallOptions.Parameters] become the query string: keys
// sorted, values strictly percent-encoded, slices as repeated keys and maps or
// structs as bracketed keys (filter[from]=...). For every other method they are
// sent as a JSON object body and no query string is added.
//
// # Errors
//
// Any non-success outcome after a response is received is an [*APIError].
// Use [APIError.Structured] to tell a JSON error payload (Message taken from
// its "error" field, Body holding the decoded payload) from an unstructured
// failure whose Message is the HTTP reason phrase. Network failures are
// returned as produced by net/http. The client never retries.
//
//	result, err := c.Post(ctx, "/v1/payments", client.Params{"amount": "12.50"})
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) && apiErr.Structured() {
//	    log.Printf("rejected: %s (%v)", apiErr.Message, apiErr.Body)
//	}
//
// # Thread Safety
//
// A [Client] is immutable after [New] and safe for concurrent use.
package client
