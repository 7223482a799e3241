package provision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/wcharczuk/roleprov/internal/policy"
)

// Client is the subset of the identity service api the provisioner calls.
type Client interface {
	CreateRole(ctx context.Context, params *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	UpdateAssumeRolePolicy(ctx context.Context, params *iam.UpdateAssumeRolePolicyInput, optFns ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error)
}

var _ Client = (*iam.Client)(nil)

// New returns a new provisioner for a given client.
func New(client Client, options ...Option) *Provisioner {
	p := Provisioner{
		client:    client,
		output:    os.Stdout,
		log:       slog.Default(),
		partition: policy.DefaultPartition,
	}
	for _, opt := range options {
		opt(&p)
	}
	return &p
}

// Option mutates a provisioner.
type Option func(*Provisioner)

// OptOutput sets the writer status lines are written to.
func OptOutput(output io.Writer) Option {
	return func(p *Provisioner) {
		p.output = output
	}
}

// OptLogger sets the logger.
func OptLogger(log *slog.Logger) Option {
	return func(p *Provisioner) {
		p.log = log
	}
}

// OptPartition sets the partition the trusted principal arn is formatted in.
func OptPartition(partition string) Option {
	return func(p *Provisioner) {
		p.partition = partition
	}
}

// Provisioner creates or updates a role's trust policy.
type Provisioner struct {
	client    Client
	output    io.Writer
	log       *slog.Logger
	partition string
}

// Action is what a successful provisioning run did to the role.
type Action string

// Action values.
const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Role is a role and the trust policy that governs who may assume it.
type Role struct {
	Name        string
	TrustPolicy policy.Document
}

// Result is the result of a successful provisioning run.
type Result struct {
	Role   Role
	Action Action
	// Document is the serialized trust policy, identical to the bytes
	// written to the policy file and sent to the identity service.
	Document string
}

// Provision writes the trust policy for a trusted account to a file and then
// creates the role with it, or updates the existing role's trust policy
// if a role with that name already exists.
//
// The policy file is always written before any remote call and is left in place
// if a remote call fails. A malformed policy rejection is reported and returned
// unmodified, as is any other error.
func (p *Provisioner) Provision(ctx context.Context, roleName, policyFilePath, trustedAccountID string) (*Result, error) {
	trustPolicy := policy.NewTrustPolicy(p.partition, trustedAccountID)
	contents, err := trustPolicy.Marshal()
	if err != nil {
		return nil, err
	}
	if err = writePolicyFile(policyFilePath, contents); err != nil {
		return nil, err
	}
	p.log.Debug("wrote trust policy",
		slog.String("policy_path", policyFilePath),
		slog.Int("bytes", len(contents)),
	)

	document := string(contents)
	_, createErr := p.client.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(document),
	})
	outcome := ClassifyCreateRole(createErr)
	p.log.Debug("create role",
		slog.String("role_name", roleName),
		slog.String("outcome", outcome.String()),
	)

	result := &Result{
		Role: Role{
			Name:        roleName,
			TrustPolicy: trustPolicy,
		},
		Document: document,
	}
	switch outcome {
	case OutcomeCreated:
		result.Action = ActionCreated
		p.statusf("IAM role %s created successfully.", roleName)
		return result, nil
	case OutcomeAlreadyExists:
		if _, err = p.client.UpdateAssumeRolePolicy(ctx, &iam.UpdateAssumeRolePolicyInput{
			RoleName:       aws.String(roleName),
			PolicyDocument: aws.String(document),
		}); err != nil {
			return nil, err
		}
		p.log.Debug("updated assume role policy", slog.String("role_name", roleName))
		result.Action = ActionUpdated
		p.statusf("IAM role %s updated successfully.", roleName)
		return result, nil
	case OutcomeMalformed:
		p.statusf("The role %s already exists and the trust policy is different.", roleName)
		p.log.Error("trust policy rejected",
			slog.String("role_name", roleName),
			slog.Any("err", createErr),
		)
		return nil, createErr
	default:
		return nil, createErr
	}
}

func (p *Provisioner) statusf(format string, args ...any) {
	fmt.Fprintf(p.output, format+"\n", args...)
}

// writePolicyFile overwrites the file at path with contents.
func writePolicyFile(path string, contents []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to open policy file for write: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("unable to close policy file: %w", closeErr)
		}
	}()
	if _, err = f.Write(contents); err != nil {
		err = fmt.Errorf("unable to write policy file: %w", err)
	}
	return
}
