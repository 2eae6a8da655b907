package signing

import (
	"net/http"
)

// Header names and values used by the NumoPay API.
const (
	HeaderAccept        = "Accept"
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"

	// Scheme prefixes the access token in the Authorization header.
	Scheme = "NP-ACCESS-TOKEN"

	ContentTypeJSON = "application/json"
)

// BuildAuthHeaders returns the signed headers for a single request. The
// timestamp is read from clock on every call so no token is ever reused.
// Content-Type is always set, even for requests without a body.
func BuildAuthHeaders(creds Credentials, clock Clock, version, method, path, query, body string) http.Header {
	if clock == nil {
		clock = SystemClock
	}
	token := AccessToken(creds, clock().Unix(), method, path, query, body, version)

	h := http.Header{}
	h.Set(HeaderAccept, ContentTypeJSON)
	h.Set(HeaderContentType, ContentTypeJSON)
	h.Set(HeaderAuthorization, Scheme+" "+token)
	return h
}
