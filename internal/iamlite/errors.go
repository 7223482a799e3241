package iamlite

import (
	"fmt"
	"net/http"
)

func ErrorEntityAlreadyExists() *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Type:       errorTypeSender,
		Code:       "EntityAlreadyExists",
	}
}

func ErrorNoSuchEntity() *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Type:       errorTypeSender,
		Code:       "NoSuchEntity",
	}
}

func ErrorMalformedPolicyDocument() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Type:       errorTypeSender,
		Code:       "MalformedPolicyDocument",
	}
}

func ErrorLimitExceeded() *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Type:       errorTypeSender,
		Code:       "LimitExceeded",
	}
}

func ErrorValidation() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Type:       errorTypeSender,
		Code:       "ValidationError",
	}
}

func ErrorInvalidAction() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Type:       errorTypeSender,
		Code:       "InvalidAction",
	}
}

func ErrorMalformedQueryString() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Type:       errorTypeSender,
		Code:       "MalformedQueryString",
	}
}

func ErrorInvalidClientTokenID() *Error {
	return &Error{
		StatusCode: http.StatusForbidden,
		Type:       errorTypeSender,
		Code:       "InvalidClientTokenId",
		Message:    "The security token included in the request is invalid.",
	}
}

func ErrorThrottling() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Type:       errorTypeSender,
		Code:       "Throttling",
		Message:    "Rate exceeded",
	}
}

func ErrorMethodNotAllowed() *Error {
	return &Error{
		StatusCode: http.StatusMethodNotAllowed,
		Type:       errorTypeSender,
		Code:       "MethodNotAllowed",
	}
}

func ErrorUnknownPath() *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Type:       errorTypeSender,
		Code:       "UnknownOperationException",
	}
}

func ErrorServiceFailure() *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Type:       errorTypeReceiver,
		Code:       "ServiceFailure",
	}
}

// Error is an api error, rendered as an error response document.
type Error struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e Error) WithMessage(message string) *Error {
	e.Message = message
	return &e
}

func (e Error) WithMessagef(format string, args ...any) *Error {
	e.Message = fmt.Sprintf(format, args...)
	return &e
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
