package httputil

// Header names in canonical form.
const (
	HeaderAuthorization     = "Authorization"
	HeaderContentType       = "Content-Type"
	HeaderXForwardedFor     = "X-Forwarded-For"
	HeaderXRealIP           = "X-Real-IP"
	HeaderXAmznRequestID    = "X-Amzn-Requestid"
	HeaderXAmzSecurityToken = "X-Amz-Security-Token"
)

const (
	// ContentTypeApplicationJSON is a content type for JSON responses.
	// We specify chartset=utf-8 so that clients know to use the UTF-8 string encoding.
	ContentTypeApplicationJSON = "application/json; charset=utf-8"

	// ContentTypeApplicationFormEncoded is a content type header value.
	ContentTypeApplicationFormEncoded = "application/x-www-form-urlencoded"

	// ContentTypeXML is the content type for query protocol responses.
	ContentTypeXML = "text/xml"
)
