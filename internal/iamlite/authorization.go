package iamlite

import (
	"context"
	"net/http"
	"strings"

	"github.com/wcharczuk/roleprov/internal/httputil"
)

const knownGoodSignatureType = "AWS4-HMAC-SHA256"

// Authorization is the caller identity derived from a request's signature.
//
// The access key id of the signing credentials is used as the account id.
type Authorization struct {
	Host      string
	Region    string
	AccountID string
}

func (a Authorization) HostOrDefault() string {
	if a.Host != "" {
		return a.Host
	}
	return DefaultHost
}

func (a Authorization) RegionOrDefault() string {
	if a.Region != "" {
		return a.Region
	}
	return DefaultRegion
}

func (a Authorization) AccountIDOrDefault() string {
	if a.AccountID != "" {
		return a.AccountID
	}
	return DefaultAccountID
}

type authorizationKey struct{}

// WithContextAuthorization adds authorization to a given context.
func WithContextAuthorization(ctx context.Context, authz Authorization) context.Context {
	return context.WithValue(ctx, authorizationKey{}, authz)
}

// GetContextAuthorization returns the authorization from a given context.
func GetContextAuthorization(ctx context.Context) (authz Authorization, ok bool) {
	if value := ctx.Value(authorizationKey{}); value != nil {
		authz, ok = value.(Authorization)
	}
	return
}

// getRequestAuthorization reads the caller identity from the Credential
// field of a SigV4 authorization header, which has the form:
//
//	<access key id>/<date>/<region>/<service>/aws4_request
func getRequestAuthorization(req *http.Request) (Authorization, *Error) {
	header := req.Header.Get(httputil.HeaderAuthorization)
	if header == "" {
		return Authorization{}, ErrorInvalidClientTokenID().WithMessage("Request is missing Authentication Token")
	}
	signatureType, params, ok := strings.Cut(header, " ")
	if !ok || signatureType != knownGoodSignatureType {
		return Authorization{}, ErrorInvalidClientTokenID()
	}
	var credential string
	for _, param := range strings.Split(params, ",") {
		if value, found := strings.CutPrefix(strings.TrimSpace(param), "Credential="); found {
			credential = value
			break
		}
	}
	scope := strings.Split(credential, "/")
	if len(scope) < 3 || scope[0] == "" || scope[2] == "" {
		return Authorization{}, ErrorInvalidClientTokenID()
	}
	return Authorization{
		Host:      req.Host,
		Region:    scope[2],
		AccountID: scope[0],
	}, nil
}
