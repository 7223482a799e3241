package spy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wcharczuk/roleprov/internal/httputil"
)

var _ http.Handler = (*Handler)(nil)

// Handler implements [http.Handler] and captures the details of a request and response
// that flows through it, calling the [Handler.Do] function once the request and response complete.
//
// Use the [Handler.Next] field to wrap another handler with the capturing mechanics of the spy handler,
// for example a reverse proxy to the identity service.
type Handler struct {
	Do   func(Request)
	Next http.Handler
}

// redactedHeaders are request headers whose values are never captured.
var redactedHeaders = []string{
	httputil.HeaderAuthorization,
	httputil.HeaderXAmzSecurityToken,
}

// ServeHTTP implements [http.Handler].
func (l *Handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	var details Request
	start := time.Now()

	details.Method = req.Method
	details.URL = req.URL.String()
	details.RequestHeaders = make(map[string]string)
	for key, values := range req.Header {
		if isRedacted(key) {
			details.RequestHeaders[key] = "<redacted>"
			continue
		}
		if len(values) > 0 {
			details.RequestHeaders[key] = values[0]
		}
	}
	if req.Body != nil {
		requestBody := new(bytes.Buffer)
		_, _ = io.Copy(requestBody, req.Body)
		details.RequestBody = requestBody.String()
		req.Body = io.NopCloser(requestBody)
	}

	responseBody := new(bytes.Buffer)
	captured := httputil.NewCapturingResponseWriter(rw, responseBody)
	if l.Next != nil {
		l.Next.ServeHTTP(captured, req)
	} else {
		captured.WriteHeader(http.StatusOK)
	}

	details.ResponseHeaders = make(map[string]string)
	for key, values := range rw.Header() {
		if len(values) > 0 {
			details.ResponseHeaders[key] = values[0]
		}
	}
	details.ResponseBody = responseBody.String()
	details.StatusCode = captured.StatusCode()
	details.Elapsed = time.Since(start)

	if l.Do != nil {
		l.Do(details)
	}
}

func isRedacted(key string) bool {
	for _, redacted := range redactedHeaders {
		if strings.EqualFold(key, redacted) {
			return true
		}
	}
	return false
}
