package httputil

import (
	"io"
	"net/http"
)

// NewResponseWriter returns a response writer that records the status code
// and content length written through it.
func NewResponseWriter(rw http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{inner: rw}
}

// NewCapturingResponseWriter returns a response writer that also copies the
// response body to a given writer.
func NewCapturingResponseWriter(rw http.ResponseWriter, capture io.Writer) *ResponseWriter {
	return &ResponseWriter{inner: rw, capture: capture}
}

// ResponseWriter wraps a response writer with status and content length information.
type ResponseWriter struct {
	inner         http.ResponseWriter
	capture       io.Writer
	statusCode    int
	contentLength int
}

// Write implements [http.ResponseWriter]; a write before [ResponseWriter.WriteHeader] implies 200.
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	if rw.capture != nil {
		_, _ = rw.capture.Write(b)
	}
	n, err := rw.inner.Write(b)
	rw.contentLength += n
	return n, err
}

// Header implements [http.ResponseWriter].
func (rw *ResponseWriter) Header() http.Header {
	return rw.inner.Header()
}

// WriteHeader implements [http.ResponseWriter].
func (rw *ResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.inner.WriteHeader(code)
}

// Flush implements [http.Flusher] if the inner writer does.
func (rw *ResponseWriter) Flush() {
	if flusher, ok := rw.inner.(http.Flusher); ok {
		flusher.Flush()
	}
}

// StatusCode returns the status code written, or zero if nothing was written.
func (rw *ResponseWriter) StatusCode() int {
	return rw.statusCode
}

// ContentLength returns the number of body bytes written.
func (rw *ResponseWriter) ContentLength() int {
	return rw.contentLength
}
