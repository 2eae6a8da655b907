package signing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultVersion is the access-token protocol version agreed with the API.
// It is unrelated to the version of this module.
const DefaultVersion = "2019-12-22"

// Clock returns the current time. Production code uses SystemClock; tests
// pin it to a fixed instant.
type Clock func() time.Time

// SystemClock reads the wall clock.
var SystemClock Clock = time.Now

// Credentials holds the API key pair used to sign requests.
type Credentials struct {
	APIKey    string
	APISecret string
}

// String redacts the secret.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey: %q, APISecret: [redacted]}", c.APIKey)
}

// GoString redacts the secret for %#v.
func (c Credentials) GoString() string {
	return c.String()
}

// Envelope is the decoded form of an access token.
type Envelope struct {
	Version   string
	Timestamp int64
	APIKey    string
	Signature string
}

// String joins the envelope fields into the wire format.
func (e Envelope) String() string {
	return strings.Join([]string{
		e.Version,
		strconv.FormatInt(e.Timestamp, 10),
		e.APIKey,
		e.Signature,
	}, ".")
}

// AccessToken signs a request and returns "version.timestamp.apiKey.signature".
//
// Parameters:
//   - creds: API key and secret
//   - timestamp: unix time in seconds
//   - method: HTTP method, any case
//   - path: request path with leading slash, without query
//   - query: canonical query string including "?", or empty
//   - body: exact serialized body, or empty
//   - version: protocol version; empty selects DefaultVersion
func AccessToken(creds Credentials, timestamp int64, method, path, query, body, version string) string {
	if version == "" {
		version = DefaultVersion
	}
	msg := CanonicalMessage(timestamp, method, path, query, body)
	return Envelope{
		Version:   version,
		Timestamp: timestamp,
		APIKey:    creds.APIKey,
		Signature: BuildHMACSignature(creds.APISecret, msg),
	}.String()
}

// ParseAccessToken splits a token into its envelope fields. The API key may
// itself contain dots, so the version, timestamp and signature are taken from
// the ends.
func ParseAccessToken(token string) (Envelope, error) {
	first := strings.Index(token, ".")
	last := strings.LastIndex(token, ".")
	if first < 0 || first == last {
		return Envelope{}, errors.New("signing: malformed access token")
	}
	version, rest := token[:first], token[first+1:last]
	sig := token[last+1:]

	dot := strings.Index(rest, ".")
	if dot < 0 {
		return Envelope{}, errors.New("signing: malformed access token")
	}
	ts, err := strconv.ParseInt(rest[:dot], 10, 64)
	if err != nil {
		return Envelope{}, fmt.Errorf("signing: invalid timestamp: %w", err)
	}
	if version == "" || sig == "" {
		return Envelope{}, errors.New("signing: malformed access token")
	}
	return Envelope{
		Version:   version,
		Timestamp: ts,
		APIKey:    rest[dot+1:],
		Signature: sig,
	}, nil
}
