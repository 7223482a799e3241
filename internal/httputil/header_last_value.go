package httputil

import (
	"net/http"
	"strings"
)

// HeaderLastValue returns the last entry of a comma separated header value.
func HeaderLastValue(headers http.Header, key string) (string, bool) {
	raw := headers.Get(key)
	if raw == "" {
		return "", false
	}
	if index := strings.LastIndexByte(raw, ','); index >= 0 {
		raw = raw[index+1:]
	}
	return strings.TrimSpace(raw), true
}
