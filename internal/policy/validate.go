package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError is returned when a document is rejected by [ValidateTrustPolicy].
type ValidationError struct {
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var (
	accountIDRegexp         = regexp.MustCompile(`^\d{12}$`)
	iamPrincipalARNRegexp   = regexp.MustCompile(`^arn:(aws|aws-cn|aws-us-gov):iam::\d{12}:(root|user/.+|role/.+)$`)
	assumedRoleARNRegexp    = regexp.MustCompile(`^arn:(aws|aws-cn|aws-us-gov):sts::\d{12}:assumed-role/.+$`)
	servicePrincipalPattern = regexp.MustCompile(`^[a-z0-9.-]+\.amazonaws\.com(\.cn)?$`)
)

var trustPolicyActions = map[string]struct{}{
	"sts:assumerole":                {},
	"sts:assumerolewithsaml":        {},
	"sts:assumerolewithwebidentity": {},
	"sts:tagsession":                {},
	"sts:setsourceidentity":         {},
	"sts:setcontext":                {},
	"sts:*":                         {},
	"*":                             {},
}

// ValidateTrustPolicy checks a document against the rules IAM applies to role trust policies.
func ValidateTrustPolicy(doc Document) *ValidationError {
	if doc.Version != Version20121017 && doc.Version != Version20081017 {
		return invalidf("The policy failed legacy parsing")
	}
	if len(doc.Statement) == 0 {
		return invalidf("Syntax errors in policy.")
	}
	for _, statement := range doc.Statement {
		if err := validateTrustStatement(statement); err != nil {
			return err
		}
	}
	return nil
}

func validateTrustStatement(s Statement) *ValidationError {
	if s.Effect != EffectAllow && s.Effect != EffectDeny {
		return invalidf("Invalid effect: %s", s.Effect)
	}
	if len(s.Resource) > 0 {
		return invalidf("Has prohibited field Resource")
	}
	if s.Principal == nil {
		return invalidf("Missing required field Principal")
	}
	if len(s.Action) == 0 {
		return invalidf("Missing required field Action")
	}
	for _, action := range s.Action {
		if _, ok := trustPolicyActions[strings.ToLower(action)]; !ok {
			return invalidf("Invalid action in trust policy: %q", action)
		}
	}
	return validatePrincipal(*s.Principal)
}

func validatePrincipal(p Principal) *ValidationError {
	if p.Wildcard {
		return nil
	}
	if len(p.AWS) == 0 && len(p.Service) == 0 && len(p.Federated) == 0 {
		return invalidf("Missing required field Principal")
	}
	for _, aws := range p.AWS {
		if aws == "*" || accountIDRegexp.MatchString(aws) {
			continue
		}
		if iamPrincipalARNRegexp.MatchString(aws) || assumedRoleARNRegexp.MatchString(aws) {
			continue
		}
		return invalidf("Invalid principal in policy: \"AWS\":\"%s\"", aws)
	}
	for _, service := range p.Service {
		if !servicePrincipalPattern.MatchString(service) {
			return invalidf("Invalid principal in policy: \"SERVICE\":\"%s\"", service)
		}
	}
	for _, federated := range p.Federated {
		if strings.TrimSpace(federated) == "" {
			return invalidf("Invalid principal in policy: \"FEDERATED\":\"%s\"", federated)
		}
	}
	return nil
}
