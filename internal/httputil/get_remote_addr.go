package httputil

import (
	"net"
	"net/http"
)

// GetRemoteAddr returns the client address of a request.
//
// The last value of X-Forwarded-For wins, then the last value of X-Real-IP,
// then the host portion of the request's RemoteAddr.
func GetRemoteAddr(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwardedFor, ok := HeaderLastValue(r.Header, HeaderXForwardedFor); ok {
		return forwardedFor
	}
	if realIP, ok := HeaderLastValue(r.Header, HeaderXRealIP); ok {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
