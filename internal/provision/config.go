package provision

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults for the provisioning inputs.
const (
	DefaultRoleName         = "my-role"
	DefaultPolicyFilePath   = "policy.json"
	DefaultTrustedAccountID = "123456789012"
)

// ErrInvalidConfig is wrapped by every error [Config.Validate] returns.
var ErrInvalidConfig = errors.New("provision; invalid config")

// Config holds the inputs of a provisioning run.
type Config struct {
	// RoleName is the target role identifier.
	RoleName string
	// PolicyFilePath is the output path for the trust document.
	PolicyFilePath string
	// TrustedAccountID is the account allowed to assume the role.
	TrustedAccountID string
}

// Validate returns an error if a required input is missing.
//
// The trusted account id is only checked for presence; whether it names a
// real account is up to the identity service.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RoleName) == "" {
		return fmt.Errorf("%w: role name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.PolicyFilePath) == "" {
		return fmt.Errorf("%w: policy file path is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.TrustedAccountID) == "" {
		return fmt.Errorf("%w: trusted account id is required", ErrInvalidConfig)
	}
	return nil
}
