package integration

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcharczuk/roleprov/internal/spy"
)

func testRecordedRequest(action, body string) spy.Request {
	return spy.Request{
		Method:      http.MethodPost,
		URL:         "/",
		StatusCode:  http.StatusOK,
		RequestBody: "Action=" + action + "&Version=2010-05-08",
		ResponseHeaders: map[string]string{
			"Content-Type":     "text/xml",
			"X-Amzn-Requestid": normalizedRequestID,
		},
		ResponseBody: body,
	}
}

func testVerifier(t *testing.T, recorded ...spy.Request) *Verifier {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	write := WriteAndNormalizeOutput(f)
	for _, req := range recorded {
		write(req)
	}
	require.NoError(t, f.Close())
	v, err := NewVerifier(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func Test_Verifier_matches(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	v.HandleRequest(testRecordedRequest("CreateRole", strings.ReplaceAll(testCreateRoleResponseBody, "\n", "")))
	require.NoError(t, v.Finish())
}

func Test_Verifier_bodyDiff(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	v.HandleRequest(testRecordedRequest("CreateRole", strings.ReplaceAll(testCreateRoleResponseBody, "<Path>/</Path>", "<Path>/service/</Path>")))
	err := v.Finish()
	require.Error(t, err)
	require.Contains(t, err.Error(), "-      <Path>/</Path>")
	require.Contains(t, err.Error(), "+      <Path>/service/</Path>")
}

func Test_Verifier_actionMismatch(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	v.HandleRequest(testRecordedRequest("GetRole", testCreateRoleResponseBody))
	err := v.Finish()
	require.Error(t, err)
	require.Contains(t, err.Error(), `expected action "CreateRole", got "GetRole"`)
}

func Test_Verifier_statusCodeMismatch(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	actual := testRecordedRequest("CreateRole", testCreateRoleResponseBody)
	actual.StatusCode = http.StatusConflict
	v.HandleRequest(actual)
	require.ErrorContains(t, v.Finish(), "expected status code 200, got 409")
}

func Test_Verifier_headerMismatch(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	actual := testRecordedRequest("CreateRole", testCreateRoleResponseBody)
	actual.ResponseHeaders["Content-Type"] = "application/json"
	v.HandleRequest(actual)
	require.ErrorContains(t, v.Finish(), `key "Content-Type"`)

	v = testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	actual = testRecordedRequest("CreateRole", testCreateRoleResponseBody)
	delete(actual.ResponseHeaders, "X-Amzn-Requestid")
	v.HandleRequest(actual)
	require.ErrorContains(t, v.Finish(), "missing actual response header")
}

func Test_Verifier_unexpectedRequest(t *testing.T) {
	v := testVerifier(t)
	v.HandleRequest(testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	require.ErrorContains(t, v.Finish(), "unexpected actual request")
}

func Test_Verifier_missingRequest(t *testing.T) {
	v := testVerifier(t, testRecordedRequest("CreateRole", testCreateRoleResponseBody))
	require.ErrorContains(t, v.Finish(), "missing expected request")
}
