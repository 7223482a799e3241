package provision

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/smithy-go"
)

// Error codes the identity service reports for the outcomes we branch on.
const (
	ErrorCodeEntityAlreadyExists     = "EntityAlreadyExists"
	ErrorCodeMalformedPolicyDocument = "MalformedPolicyDocument"
)

// Outcome is the result of a create role call, reduced to the cases we act on.
type Outcome int

// Outcome values.
const (
	// OutcomeOther is any failure we do not handle locally.
	OutcomeOther Outcome = iota
	OutcomeCreated
	OutcomeAlreadyExists
	OutcomeMalformed
)

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyExists:
		return "already-exists"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "other"
	}
}

// ClassifyCreateRole maps the error returned by a create role call to an [Outcome].
//
// The sdk's typed exceptions are checked first; any other api error is matched
// on its error code so that errors from clients that do not produce the typed
// values still classify the same way.
func ClassifyCreateRole(err error) Outcome {
	if err == nil {
		return OutcomeCreated
	}
	var alreadyExists *types.EntityAlreadyExistsException
	if errors.As(err, &alreadyExists) {
		return OutcomeAlreadyExists
	}
	var malformed *types.MalformedPolicyDocumentException
	if errors.As(err, &malformed) {
		return OutcomeMalformed
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case ErrorCodeEntityAlreadyExists:
			return OutcomeAlreadyExists
		case ErrorCodeMalformedPolicyDocument:
			return OutcomeMalformed
		}
	}
	return OutcomeOther
}

// IsMalformedPolicy returns if an error is the identity service rejecting a policy document.
func IsMalformedPolicy(err error) bool {
	return err != nil && ClassifyCreateRole(err) == OutcomeMalformed
}
