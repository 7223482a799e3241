package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/wcharczuk/roleprov/internal/policy"
	"github.com/wcharczuk/roleprov/internal/provision"
)

// Run is the handle a scenario uses to drive the identity service.
type Run struct {
	id          string
	ctx         context.Context
	iamClient   *iam.Client
	log         *slog.Logger
	output      io.Writer
	policyPath  string
	roleOrdinal uint64
	after       []func()
}

func (it *Run) Cleanup() {
	for _, fn := range it.after {
		fn()
	}
}

func (it *Run) After(fn func()) {
	it.after = append(it.after, fn)
}

// PolicyPath is the path of the policy file the run provisions with.
func (it *Run) PolicyPath() string {
	return it.policyPath
}

// RoleName returns a new role name unique to the run, and deletes the role
// when the run completes.
func (it *Run) RoleName() string {
	roleName := fmt.Sprintf("test-%s-%d", it.id, atomic.AddUint64(&it.roleOrdinal, 1))
	it.After(func() {
		_, _ = it.iamClient.DeleteRole(context.Background(), &iam.DeleteRoleInput{
			RoleName: aws.String(roleName),
		})
	})
	return roleName
}

// Provision runs the provisioning flow for a role trusting a given account.
func (it *Run) Provision(roleName, trustedAccountID string) *provision.Result {
	it.checkDone()
	p := provision.New(it.iamClient,
		provision.OptOutput(it.output),
		provision.OptLogger(it.log),
	)
	res, err := p.Provision(it.ctx, roleName, it.policyPath, trustedAccountID)
	if err != nil {
		panic(err)
	}
	return res
}

// GetRole returns the trust policy attached to a given role.
func (it *Run) GetRole(roleName string) policy.Document {
	it.checkDone()
	res, err := it.iamClient.GetRole(it.ctx, &iam.GetRoleInput{
		RoleName: aws.String(roleName),
	})
	if err != nil {
		panic(err)
	}
	decoded, err := policy.DecodeDocument(aws.ToString(res.Role.AssumeRolePolicyDocument))
	if err != nil {
		panic(err)
	}
	doc, err := policy.Parse([]byte(decoded))
	if err != nil {
		panic(err)
	}
	return doc
}

// PolicyFile returns the document last written to the policy file.
func (it *Run) PolicyFile() policy.Document {
	contents, err := os.ReadFile(it.policyPath)
	if err != nil {
		panic(err)
	}
	doc, err := policy.Parse(contents)
	if err != nil {
		panic(err)
	}
	return doc
}

func (it *Run) ExpectFailure(fn func()) {
	defer func() {
		if r := recover(); r == nil {
			panic("expected panic to be raised by step")
		}
	}()
	fn()
}

// Expect panics with a given message if the condition is false.
func (it *Run) Expect(condition bool, format string, args ...any) {
	if !condition {
		panic(fmt.Errorf(format, args...))
	}
}

func (it *Run) checkDone() {
	select {
	case <-it.ctx.Done():
		panic(it.ctx.Err())
	default:
	}
}
