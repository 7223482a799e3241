package iamlite

const (
	// APIVersion is the only query api version the server answers.
	APIVersion = "2010-05-08"
	// XMLNamespace is the namespace of every response document.
	XMLNamespace = "https://iam.amazonaws.com/doc/2010-05-08/"

	DefaultHost      = "iam.amazonaws.com"
	DefaultRegion    = "us-east-1"
	DefaultAccountID = "000000000000"
	DefaultPartition = "aws"
	DefaultRolePath  = "/"

	DefaultMaxSessionDuration = 3600  // 1 hour
	MaxMaxSessionDuration     = 43200 // 12 hours
	MaxRoleNameLength         = 64
	MaxRolePathLength         = 512
	MaxRoleDescriptionLength  = 1000
	MaxTrustPolicyLength      = 2048

	// RoleIDPrefix is the prefix of every role id.
	RoleIDPrefix = "AROA"
	// RoleIDSuffixLength is the number of characters after the prefix in a role id.
	RoleIDSuffixLength = 17
)

// Form parameter names.
const (
	ParamAction                   = "Action"
	ParamVersion                  = "Version"
	ParamRoleName                 = "RoleName"
	ParamPath                     = "Path"
	ParamDescription              = "Description"
	ParamMaxSessionDuration       = "MaxSessionDuration"
	ParamAssumeRolePolicyDocument = "AssumeRolePolicyDocument"
	ParamPolicyDocument           = "PolicyDocument"
)

// Action names
const (
	ActionCreateRole             = "CreateRole"
	ActionGetRole                = "GetRole"
	ActionUpdateAssumeRolePolicy = "UpdateAssumeRolePolicy"
	ActionDeleteRole             = "DeleteRole"
)

const (
	// errorTypeSender marks errors caused by the request.
	errorTypeSender = "Sender"
	// errorTypeReceiver marks errors caused by the server.
	errorTypeReceiver = "Receiver"
)
