package policy

import "fmt"

// DefaultPartition is the standard aws partition.
const DefaultPartition = "aws"

// ActionAssumeRole is the sts action a trust policy grants.
const ActionAssumeRole = "sts:AssumeRole"

// TrustPolicyForAccount returns the trust policy that lets the root of
// a given account assume a role, in the standard partition.
func TrustPolicyForAccount(accountID string) Document {
	return NewTrustPolicy(DefaultPartition, accountID)
}

// NewTrustPolicy returns a trust policy with a single statement allowing
// [ActionAssumeRole] to the root principal of the trusted account.
//
// The account id is not validated; the identity service is the authority on that.
func NewTrustPolicy(partition, accountID string) Document {
	return Document{
		Version: Version20121017,
		Statement: StatementList{
			{
				Effect: EffectAllow,
				Principal: &Principal{
					AWS: Value{FormatAccountRootARN(partition, accountID)},
				},
				Action: Value{ActionAssumeRole},
			},
		},
	}
}

// FormatAccountRootARN formats the root principal arn for an account.
func FormatAccountRootARN(partition, accountID string) string {
	if partition == "" {
		partition = DefaultPartition
	}
	return fmt.Sprintf("arn:%s:iam::%s:root", partition, accountID)
}
