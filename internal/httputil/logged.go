package httputil

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Logged wraps an input handler with logging at [slog.LevelDebug] level.
func Logged(h http.Handler) http.Handler {
	return &logged{
		next: h,
	}
}

type logged struct {
	next http.Handler
}

func (l logged) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	start := time.Now()
	// query api requests carry the action in the form body, which
	// can only be read once; parsing here leaves it on the request.
	if strings.HasPrefix(req.Header.Get(HeaderContentType), ContentTypeApplicationFormEncoded) {
		_ = req.ParseForm()
	}
	srw := NewResponseWriter(rw)
	l.next.ServeHTTP(srw, req)
	attributes := []any{
		slog.String("verb", req.Method),
		slog.String("url", req.URL.String()),
		slog.String("user_agent", req.UserAgent()),
		slog.String("remote_addr", GetRemoteAddr(req)),
		slog.Int("status_code", srw.StatusCode()),
		slog.Int("content_length", srw.ContentLength()),
		slog.Duration("elapsed", time.Since(start)),
	}
	if action := req.Form.Get("Action"); action != "" {
		attributes = append(attributes, slog.String("action", action))
	}
	if requestID := rw.Header().Get(HeaderXAmznRequestID); requestID != "" {
		attributes = append(attributes, slog.String("request_id", requestID))
	}
	slog.Debug("http-request", attributes...)
}
