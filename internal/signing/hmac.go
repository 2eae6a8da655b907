package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// CanonicalMessage builds the exact string the server reconstructs to verify
// a request signature.
//
// The message is the concatenation: timestamp + METHOD + path + query + body,
// with no separators. query is either empty or starts with "?", and body is
// empty when the request carries none.
func CanonicalMessage(timestamp int64, method, path, query, body string) string {
	var b strings.Builder
	b.Grow(20 + len(method) + len(path) + len(query) + len(body))
	b.WriteString(strconv.FormatInt(timestamp, 10))
	b.WriteString(strings.ToUpper(method))
	b.WriteString(path)
	b.WriteString(query)
	b.WriteString(body)
	return b.String()
}

// BuildHMACSignature creates an HMAC-SHA256 signature of message keyed by the
// raw API secret.
//
// Returns the lowercase hex encoded digest.
func BuildHMACSignature(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
