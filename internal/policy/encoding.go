package policy

import (
	"net/url"
	"strings"
)

// EncodeDocument percent-encodes a policy document the way the identity
// service returns documents from role reads.
func EncodeDocument(document string) string {
	return strings.ReplaceAll(url.QueryEscape(document), "+", "%20")
}

// DecodeDocument reverses [EncodeDocument].
//
// Documents that are not percent-encoded are returned as is.
func DecodeDocument(encoded string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(encoded), "{") {
		return encoded, nil
	}
	return url.QueryUnescape(encoded)
}
