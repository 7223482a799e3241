package spy

import (
	"time"
)

// Request is a captured request and response exchange.
type Request struct {
	Method     string
	URL        string
	StatusCode int

	RequestHeaders map[string]string
	RequestBody    string

	ResponseHeaders map[string]string
	ResponseBody    string

	Elapsed time.Duration
}
