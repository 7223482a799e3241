package iamlite

import (
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// NewServer returns a new server.
func NewServer(options ...ServerOption) *Server {
	s := &Server{
		accounts: NewAccounts(),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// ServerOption mutates a server.
type ServerOption func(*Server)

// OptRateLimit limits the rate of requests the server accepts across all callers.
//
// Requests over the limit are rejected with a throttling error.
func OptRateLimit(limit rate.Limit, burst int) ServerOption {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(limit, burst)
	}
}

var _ http.Handler = (*Server)(nil)

// Server implements the http routing layer for iamlite.
type Server struct {
	accounts *Accounts
	clock    clockwork.Clock
	limiter  *rate.Limiter
}

// WithClock sets the server clock and returns a reference to the same server.
func (s *Server) WithClock(clock clockwork.Clock) *Server {
	s.clock = clock
	return s
}

// Clock returns the server's [clockwork.Clock] instance.
func (s *Server) Clock() clockwork.Clock {
	return s.clock
}

// Accounts returns the underlying roles storage.
func (s *Server) Accounts() *Accounts {
	return s.accounts
}

// EachRole returns an iterator for every role in the server across all accounts.
func (s *Server) EachRole() iter.Seq[Role] {
	return func(yield func(Role) bool) {
		for accountID := range s.accounts.EachAccount() {
			for role := range s.accounts.EnsureRoles(accountID).EachRole() {
				if !yield(role) {
					return
				}
			}
		}
	}
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	req = req.WithContext(
		WithContextRequestID(req.Context(), uuid.NewString()),
	)
	if req.Method != http.MethodPost {
		s.unknownMethod(rw, req)
		return
	}
	if req.URL.Path != "/" {
		s.unknownPath(rw, req)
		return
	}

	authz, err := getRequestAuthorization(req)
	if err != nil {
		serialize(rw, req, err)
		return
	}
	req = req.WithContext(
		WithContextAuthorization(req.Context(), authz),
	)
	if s.limiter != nil && !s.limiter.Allow() {
		serialize(rw, req, ErrorThrottling())
		return
	}
	if parseErr := req.ParseForm(); parseErr != nil {
		serialize(rw, req, ErrorMalformedQueryString().WithMessagef("Unable to parse request: %v", parseErr))
		return
	}

	action := req.Form.Get(ParamAction)
	if version := req.Form.Get(ParamVersion); version != "" && version != APIVersion {
		serialize(rw, req, ErrorInvalidAction().WithMessagef("Could not find operation %s for version %s", action, version))
		return
	}
	switch action {
	case ActionCreateRole:
		s.createRole(rw, req)
	case ActionGetRole:
		s.getRole(rw, req)
	case ActionUpdateAssumeRolePolicy:
		s.updateAssumeRolePolicy(rw, req)
	case ActionDeleteRole:
		s.deleteRole(rw, req)
	default:
		s.invalidAction(rw, req, action)
	}
}

func (s *Server) createRole(rw http.ResponseWriter, req *http.Request) {
	input, err := createRoleInputFromForm(req.Form)
	if err != nil {
		serialize(rw, req, err)
		return
	}
	authz, ok := GetContextAuthorization(req.Context())
	if !ok {
		serialize(rw, req, ErrorInvalidClientTokenID())
		return
	}
	role, err := NewRoleFromCreateRoleInput(s.clock, authz, input)
	if err != nil {
		serialize(rw, req, err)
		return
	}
	if err = s.accounts.EnsureRoles(authz.AccountIDOrDefault()).AddRole(role); err != nil {
		serialize(rw, req, err)
		return
	}
	serialize(rw, req, &createRoleResponse{
		Result: roleResult{
			Role: asXMLRole(role.Types()),
		},
	})
}

func (s *Server) getRole(rw http.ResponseWriter, req *http.Request) {
	roleName := req.Form.Get(ParamRoleName)
	if err := validateRoleName(roleName); err != nil {
		serialize(rw, req, err)
		return
	}
	authz, ok := GetContextAuthorization(req.Context())
	if !ok {
		serialize(rw, req, ErrorInvalidClientTokenID())
		return
	}
	role, err := s.accounts.EnsureRoles(authz.AccountIDOrDefault()).GetRole(roleName)
	if err != nil {
		serialize(rw, req, err)
		return
	}
	serialize(rw, req, &getRoleResponse{
		Result: roleResult{
			Role: asXMLRole(role.Types()),
		},
	})
}

func (s *Server) updateAssumeRolePolicy(rw http.ResponseWriter, req *http.Request) {
	roleName := req.Form.Get(ParamRoleName)
	if err := validateRoleName(roleName); err != nil {
		serialize(rw, req, err)
		return
	}
	document := req.Form.Get(ParamPolicyDocument)
	if err := validateTrustPolicyDocument(ParamPolicyDocument, document); err != nil {
		serialize(rw, req, err)
		return
	}
	authz, ok := GetContextAuthorization(req.Context())
	if !ok {
		serialize(rw, req, ErrorInvalidClientTokenID())
		return
	}
	if err := s.accounts.EnsureRoles(authz.AccountIDOrDefault()).UpdateAssumeRolePolicy(roleName, document, s.clock.Now().UTC()); err != nil {
		serialize(rw, req, err)
		return
	}
	serialize(rw, req, &updateAssumeRolePolicyResponse{})
}

func (s *Server) deleteRole(rw http.ResponseWriter, req *http.Request) {
	roleName := req.Form.Get(ParamRoleName)
	if err := validateRoleName(roleName); err != nil {
		serialize(rw, req, err)
		return
	}
	authz, ok := GetContextAuthorization(req.Context())
	if !ok {
		serialize(rw, req, ErrorInvalidClientTokenID())
		return
	}
	if err := s.accounts.EnsureRoles(authz.AccountIDOrDefault()).DeleteRole(roleName); err != nil {
		serialize(rw, req, err)
		return
	}
	serialize(rw, req, &deleteRoleResponse{})
}

func (s *Server) unknownMethod(rw http.ResponseWriter, req *http.Request) {
	serialize(rw, req, ErrorMethodNotAllowed().WithMessagef("Expected POST as the request method, you used: %v", req.Method))
}

func (s *Server) unknownPath(rw http.ResponseWriter, req *http.Request) {
	serialize(rw, req, ErrorUnknownPath().WithMessage(fmt.Sprintf("Expected '/' as the request path, you used: %v", req.URL.Path)))
}

func (s *Server) invalidAction(rw http.ResponseWriter, req *http.Request, action string) {
	if action == "" {
		serialize(rw, req, ErrorInvalidAction().WithMessage("Action is required"))
		return
	}
	serialize(rw, req, ErrorInvalidAction().WithMessagef("Could not find operation %s for version %s", action, APIVersion))
}

func createRoleInputFromForm(form url.Values) (*iam.CreateRoleInput, *Error) {
	input := &iam.CreateRoleInput{
		RoleName:                 optionalFormValue(form, ParamRoleName),
		AssumeRolePolicyDocument: optionalFormValue(form, ParamAssumeRolePolicyDocument),
		Path:                     optionalFormValue(form, ParamPath),
		Description:              optionalFormValue(form, ParamDescription),
	}
	if raw := form.Get(ParamMaxSessionDuration); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, errorConstraint(ParamMaxSessionDuration, raw, "Member must be a number")
		}
		input.MaxSessionDuration = aws.Int32(int32(parsed))
	}
	return input, nil
}

func optionalFormValue(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	return aws.String(form.Get(key))
}
