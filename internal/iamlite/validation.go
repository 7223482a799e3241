package iamlite

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/wcharczuk/roleprov/internal/policy"
)

var (
	validRoleNameRegexp = regexp.MustCompile(`^[\w+=,.@-]+$`)
	validRolePathRegexp = regexp.MustCompile(`^(/|/[\x{0021}-\x{007E}]+/)$`)
)

func validateRoleName(roleName string) *Error {
	if roleName == "" {
		return errorMemberNull(ParamRoleName)
	}
	if utf8.RuneCountInString(roleName) > MaxRoleNameLength {
		return errorConstraint(ParamRoleName, roleName, fmt.Sprintf("Member must have length less than or equal to %d", MaxRoleNameLength))
	}
	if !validRoleNameRegexp.MatchString(roleName) {
		return errorConstraint(ParamRoleName, roleName, `Member must satisfy regular expression pattern: [\w+=,.@-]+`)
	}
	return nil
}

func validateRolePath(path string) *Error {
	if len(path) > MaxRolePathLength {
		return errorConstraint(ParamPath, path, fmt.Sprintf("Member must have length less than or equal to %d", MaxRolePathLength))
	}
	if !validRolePathRegexp.MatchString(path) {
		return errorConstraint(ParamPath, path, `Member must satisfy regular expression pattern: (/)|(/[!-~]+/)`)
	}
	return nil
}

func validateRoleDescription(description string) *Error {
	if utf8.RuneCountInString(description) > MaxRoleDescriptionLength {
		return errorConstraint(ParamDescription, description, fmt.Sprintf("Member must have length less than or equal to %d", MaxRoleDescriptionLength))
	}
	return nil
}

func validateMaxSessionDuration(maxSessionDuration int32) *Error {
	if maxSessionDuration < DefaultMaxSessionDuration || maxSessionDuration > MaxMaxSessionDuration {
		return ErrorValidation().WithMessagef(
			"The requested MaxSessionDuration %d exceeds the allowed range of %d to %d seconds.",
			maxSessionDuration, DefaultMaxSessionDuration, MaxMaxSessionDuration,
		)
	}
	return nil
}

// validateTrustPolicyDocument checks a trust policy document in the order
// the identity service does: presence, size, syntax and then grammar.
func validateTrustPolicyDocument(param, document string) *Error {
	if document == "" {
		return errorMemberNull(param)
	}
	if utf8.RuneCountInString(document) > MaxTrustPolicyLength {
		return ErrorLimitExceeded().WithMessagef("Cannot exceed quota for ACLSizePerRole: %d", MaxTrustPolicyLength)
	}
	doc, err := policy.Parse([]byte(document))
	if err != nil {
		return ErrorMalformedPolicyDocument().WithMessage("This policy contains invalid Json")
	}
	if validationErr := policy.ValidateTrustPolicy(doc); validationErr != nil {
		return ErrorMalformedPolicyDocument().WithMessage(validationErr.Message)
	}
	return nil
}

func errorMemberNull(param string) *Error {
	return ErrorValidation().WithMessagef(
		"1 validation error detected: Value null at '%s' failed to satisfy constraint: Member must not be null",
		lowerFirst(param),
	)
}

func errorConstraint(param, value, constraint string) *Error {
	return ErrorValidation().WithMessagef(
		"1 validation error detected: Value '%s' at '%s' failed to satisfy constraint: %s",
		value, lowerFirst(param), constraint,
	)
}

func lowerFirst(value string) string {
	if value == "" {
		return value
	}
	return strings.ToLower(value[:1]) + value[1:]
}
