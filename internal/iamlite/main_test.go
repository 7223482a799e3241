package iamlite

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/wcharczuk/roleprov/internal/httputil"
	"github.com/wcharczuk/roleprov/internal/policy"
)

const (
	testAccountID           = "111122223333"
	testOtherAccountID      = "444455556666"
	testAuthorizationHeader = "AWS4-HMAC-SHA256 Credential=111122223333/20250522/us-east-1/iam/aws4_request, SignedHeaders=content-length;content-type;host;x-amz-date, Signature=DEADBEEF"
)

var testNow = time.Date(2025, time.May, 22, 12, 30, 45, 0, time.UTC)

func startTestServer(t *testing.T, options ...ServerOption) (*Server, *httptest.Server) {
	t.Helper()
	server := NewServer(options...).WithClock(clockwork.NewFakeClockAt(testNow))
	svr := httptest.NewServer(httputil.Logged(server.Router()))
	t.Cleanup(svr.Close)
	return server, svr
}

func testClient(testServer *httptest.Server, accountID string) *iam.Client {
	return iam.New(iam.Options{
		BaseEndpoint: aws.String(testServer.URL),
		Region:       DefaultRegion,
		Credentials:  credentials.NewStaticCredentialsProvider(accountID, "test-secret-access-key", ""),
		Retryer:      aws.NopRetryer{},
		HTTPClient:   testServer.Client(),
	})
}

func testTrustPolicy(t *testing.T, accountID string) string {
	t.Helper()
	data, err := policy.TrustPolicyForAccount(accountID).Marshal()
	require.NoError(t, err)
	return string(data)
}

func testCreateRoleInput(t *testing.T, roleName string) *iam.CreateRoleInput {
	t.Helper()
	return &iam.CreateRoleInput{
		RoleName:                 aws.String(roleName),
		AssumeRolePolicyDocument: aws.String(testTrustPolicy(t, "123456789012")),
	}
}

func testHelperCreateRole(t *testing.T, client *iam.Client, roleName string) *iam.CreateRoleOutput {
	t.Helper()
	output, err := client.CreateRole(t.Context(), testCreateRoleInput(t, roleName))
	require.NoError(t, err)
	return output
}

// testHelperDoRaw posts a form to the test server without the sdk and
// returns the response and its decoded error document, if any.
func testHelperDoRaw(t *testing.T, testServer *httptest.Server, method, path string, form url.Values, authorization string) (*http.Response, *errorResponse) {
	t.Helper()
	req, err := http.NewRequest(method, testServer.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set(httputil.HeaderContentType, httputil.ContentTypeApplicationFormEncoded)
	if authorization != "" {
		req.Header.Set(httputil.HeaderAuthorization, authorization)
	}
	res, err := testServer.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return res, nil
	}
	var output errorResponse
	require.NoError(t, xml.NewDecoder(res.Body).Decode(&output))
	return res, &output
}

func requireHasKey[K comparable, V any](t *testing.T, key K, m map[K]V, msgAndArgs ...any) {
	t.Helper()
	_, ok := m[key]
	if !ok {
		require.Fail(t, fmt.Sprintf("map is missing expected key: %v", key), msgAndArgs...)
	}
}
