package iamlite

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/wcharczuk/roleprov/internal/httputil"
)

// timestampFormat is the iso8601 form of response timestamps.
const timestampFormat = "2006-01-02T15:04:05Z"

type responseMetadata struct {
	RequestID string `xml:"RequestId"`
}

type withResponseMetadata struct {
	ResponseMetadata responseMetadata `xml:"ResponseMetadata"`
}

func (w *withResponseMetadata) setRequestID(requestID string) {
	w.ResponseMetadata.RequestID = requestID
}

type response interface {
	setRequestID(string)
}

type xmlRole struct {
	Path                     string `xml:"Path"`
	RoleName                 string `xml:"RoleName"`
	RoleID                   string `xml:"RoleId"`
	Arn                      string `xml:"Arn"`
	CreateDate               string `xml:"CreateDate"`
	AssumeRolePolicyDocument string `xml:"AssumeRolePolicyDocument,omitempty"`
	Description              string `xml:"Description,omitempty"`
	MaxSessionDuration       int32  `xml:"MaxSessionDuration,omitempty"`
}

func asXMLRole(role types.Role) xmlRole {
	return xmlRole{
		Path:                     aws.ToString(role.Path),
		RoleName:                 aws.ToString(role.RoleName),
		RoleID:                   aws.ToString(role.RoleId),
		Arn:                      aws.ToString(role.Arn),
		CreateDate:               formatTimestamp(aws.ToTime(role.CreateDate)),
		AssumeRolePolicyDocument: aws.ToString(role.AssumeRolePolicyDocument),
		Description:              aws.ToString(role.Description),
		MaxSessionDuration:       aws.ToInt32(role.MaxSessionDuration),
	}
}

type roleResult struct {
	Role xmlRole `xml:"Role"`
}

type createRoleResponse struct {
	XMLName xml.Name   `xml:"https://iam.amazonaws.com/doc/2010-05-08/ CreateRoleResponse"`
	Result  roleResult `xml:"CreateRoleResult"`
	withResponseMetadata
}

type getRoleResponse struct {
	XMLName xml.Name   `xml:"https://iam.amazonaws.com/doc/2010-05-08/ GetRoleResponse"`
	Result  roleResult `xml:"GetRoleResult"`
	withResponseMetadata
}

type updateAssumeRolePolicyResponse struct {
	XMLName xml.Name `xml:"https://iam.amazonaws.com/doc/2010-05-08/ UpdateAssumeRolePolicyResponse"`
	withResponseMetadata
}

type deleteRoleResponse struct {
	XMLName xml.Name `xml:"https://iam.amazonaws.com/doc/2010-05-08/ DeleteRoleResponse"`
	withResponseMetadata
}

type errorResponse struct {
	XMLName   xml.Name    `xml:"https://iam.amazonaws.com/doc/2010-05-08/ ErrorResponse"`
	Error     errorDetail `xml:"Error"`
	RequestID string      `xml:"RequestId"`
}

type errorDetail struct {
	Type    string `xml:"Type"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

type requestIDKey struct{}

// WithContextRequestID adds a request id to a given context.
func WithContextRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetContextRequestID returns the request id from a given context.
func GetContextRequestID(ctx context.Context) (requestID string) {
	if value := ctx.Value(requestIDKey{}); value != nil {
		requestID, _ = value.(string)
	}
	return
}

func serialize(rw http.ResponseWriter, req *http.Request, res any) {
	requestID := GetContextRequestID(req.Context())
	rw.Header().Set(httputil.HeaderContentType, httputil.ContentTypeXML)
	if requestID != "" {
		rw.Header().Set(httputil.HeaderXAmznRequestID, requestID)
	}
	statusCode := http.StatusOK
	if apiError, ok := res.(*Error); ok {
		statusCode = apiError.StatusCode
		res = asErrorResponse(apiError, requestID)
	} else if typed, ok := res.(response); ok {
		typed.setRequestID(requestID)
	}
	body := new(bytes.Buffer)
	body.WriteString(xml.Header)
	if err := xml.NewEncoder(body).Encode(res); err != nil {
		statusCode = http.StatusInternalServerError
		body.Reset()
		body.WriteString(xml.Header)
		_ = xml.NewEncoder(body).Encode(asErrorResponse(ErrorServiceFailure().WithMessage(err.Error()), requestID))
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(body.Bytes())
}

func asErrorResponse(apiError *Error, requestID string) errorResponse {
	return errorResponse{
		Error: errorDetail{
			Type:    apiError.Type,
			Code:    apiError.Code,
			Message: apiError.Message,
		},
		RequestID: requestID,
	}
}
