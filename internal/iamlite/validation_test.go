package iamlite

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_validateRoleName(t *testing.T) {
	for _, valid := range []string{"my-role", "a", "role_name+=,.@-", strings.Repeat("a", MaxRoleNameLength)} {
		require.Nil(t, validateRoleName(valid), valid)
	}

	err := validateRoleName("")
	require.NotNil(t, err)
	require.Equal(t, "ValidationError", err.Code)
	require.Contains(t, err.Message, "Value null at 'roleName'")

	err = validateRoleName(strings.Repeat("a", MaxRoleNameLength+1))
	require.NotNil(t, err)
	require.Contains(t, err.Message, "less than or equal to 64")

	err = validateRoleName("my role")
	require.NotNil(t, err)
	require.Contains(t, err.Message, "regular expression pattern")
}

func Test_validateRolePath(t *testing.T) {
	for _, valid := range []string{"/", "/service/", "/a/b/c/"} {
		require.Nil(t, validateRolePath(valid), valid)
	}
	for _, invalid := range []string{"", "service", "/service", "service/", "/ spaces /", "/" + strings.Repeat("a", MaxRolePathLength) + "/"} {
		require.NotNil(t, validateRolePath(invalid), invalid)
	}
}

func Test_validateRoleDescription(t *testing.T) {
	require.Nil(t, validateRoleDescription(""))
	require.Nil(t, validateRoleDescription(strings.Repeat("a", MaxRoleDescriptionLength)))
	require.NotNil(t, validateRoleDescription(strings.Repeat("a", MaxRoleDescriptionLength+1)))
}

func Test_validateMaxSessionDuration(t *testing.T) {
	require.Nil(t, validateMaxSessionDuration(DefaultMaxSessionDuration))
	require.Nil(t, validateMaxSessionDuration(MaxMaxSessionDuration))
	require.NotNil(t, validateMaxSessionDuration(DefaultMaxSessionDuration-1))
	require.NotNil(t, validateMaxSessionDuration(MaxMaxSessionDuration+1))
}

func Test_validateTrustPolicyDocument(t *testing.T) {
	require.Nil(t, validateTrustPolicyDocument(ParamAssumeRolePolicyDocument, testTrustPolicy(t, "123456789012")))

	err := validateTrustPolicyDocument(ParamPolicyDocument, "")
	require.NotNil(t, err)
	require.Equal(t, "ValidationError", err.Code)
	require.Contains(t, err.Message, "'policyDocument'")

	err = validateTrustPolicyDocument(ParamAssumeRolePolicyDocument, strings.Repeat(" ", MaxTrustPolicyLength+1))
	require.NotNil(t, err)
	require.Equal(t, "LimitExceeded", err.Code)
	require.Equal(t, http.StatusConflict, err.StatusCode)

	err = validateTrustPolicyDocument(ParamAssumeRolePolicyDocument, "not json")
	require.NotNil(t, err)
	require.Equal(t, "MalformedPolicyDocument", err.Code)

	err = validateTrustPolicyDocument(ParamAssumeRolePolicyDocument, testTrustPolicy(t, "abc"))
	require.NotNil(t, err)
	require.Equal(t, "MalformedPolicyDocument", err.Code)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func Test_Error_WithMessage(t *testing.T) {
	base := ErrorNoSuchEntity()
	withMessage := base.WithMessage("a")
	withMessagef := base.WithMessagef("%s-%d", "b", 1)
	require.Empty(t, base.Message)
	require.Equal(t, "a", withMessage.Message)
	require.Equal(t, "b-1", withMessagef.Message)
	require.Equal(t, "NoSuchEntity: a", withMessage.Error())
}
