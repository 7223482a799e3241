package provision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Config_Validate(t *testing.T) {
	valid := Config{
		RoleName:         DefaultRoleName,
		PolicyFilePath:   DefaultPolicyFilePath,
		TrustedAccountID: DefaultTrustedAccountID,
	}
	require.NoError(t, valid.Validate())

	missingRole := valid
	missingRole.RoleName = " "
	require.ErrorIs(t, missingRole.Validate(), ErrInvalidConfig)

	missingPath := valid
	missingPath.PolicyFilePath = ""
	require.ErrorIs(t, missingPath.Validate(), ErrInvalidConfig)

	missingAccount := valid
	missingAccount.TrustedAccountID = ""
	err := missingAccount.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "trusted account id")
}
