package iamlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/wcharczuk/roleprov/internal/policy"
)

// NewRoleFromCreateRoleInput validates a create role request and returns the new role.
func NewRoleFromCreateRoleInput(clock clockwork.Clock, authz Authorization, input *iam.CreateRoleInput) (*Role, *Error) {
	roleName := safeDeref(input.RoleName)
	if err := validateRoleName(roleName); err != nil {
		return nil, err
	}
	path := coalesceZero(safeDeref(input.Path), DefaultRolePath)
	if err := validateRolePath(path); err != nil {
		return nil, err
	}
	description := safeDeref(input.Description)
	if err := validateRoleDescription(description); err != nil {
		return nil, err
	}
	maxSessionDuration := coalesceZero(safeDeref(input.MaxSessionDuration), DefaultMaxSessionDuration)
	if err := validateMaxSessionDuration(maxSessionDuration); err != nil {
		return nil, err
	}
	document := safeDeref(input.AssumeRolePolicyDocument)
	if err := validateTrustPolicyDocument(ParamAssumeRolePolicyDocument, document); err != nil {
		return nil, err
	}
	accountID := authz.AccountIDOrDefault()
	now := clock.Now().UTC()
	return &Role{
		AccountID:                accountID,
		Path:                     path,
		Name:                     roleName,
		ID:                       newRoleID(),
		ARN:                      FormatRoleARN(DefaultPartition, accountID, path, roleName),
		Description:              description,
		MaxSessionDuration:       maxSessionDuration,
		AssumeRolePolicyDocument: document,
		Created:                  now,
		LastModified:             now,
	}, nil
}

// Role is a stored role.
type Role struct {
	AccountID                string
	Path                     string
	Name                     string
	ID                       string
	ARN                      string
	Description              string
	MaxSessionDuration       int32
	AssumeRolePolicyDocument string
	Created                  time.Time
	LastModified             time.Time
}

// Types returns the role in the shape the sdk uses.
func (r Role) Types() types.Role {
	output := types.Role{
		Path:                     aws.String(r.Path),
		RoleName:                 aws.String(r.Name),
		RoleId:                   aws.String(r.ID),
		Arn:                      aws.String(r.ARN),
		CreateDate:               aws.Time(r.Created),
		AssumeRolePolicyDocument: aws.String(policy.EncodeDocument(r.AssumeRolePolicyDocument)),
		MaxSessionDuration:       aws.Int32(r.MaxSessionDuration),
	}
	if r.Description != "" {
		output.Description = aws.String(r.Description)
	}
	return output
}

// FormatRoleARN returns the arn of a role.
func FormatRoleARN(partition, accountID, path, roleName string) string {
	return fmt.Sprintf("arn:%s:iam::%s:role%s%s", partition, accountID, path, roleName)
}

// newRoleID returns a unique role id, i.e. AROA followed by
// uppercase alphanumeric characters.
func newRoleID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return RoleIDPrefix + raw[:RoleIDSuffixLength]
}
