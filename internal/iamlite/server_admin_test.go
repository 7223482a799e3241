package iamlite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Server_adminGetAccounts(t *testing.T) {
	_, testServer := startTestServer(t)
	_ = testHelperCreateRole(t, testClient(testServer, testOtherAccountID), "my-role")
	_ = testHelperCreateRole(t, testClient(testServer, testAccountID), "my-role")

	var accounts []string
	testHelperAdminGet(t, testServer, "/admin/accounts", http.StatusOK, &accounts)
	require.Equal(t, []string{testAccountID, testOtherAccountID}, accounts)
}

func Test_Server_adminGetRoles(t *testing.T) {
	_, testServer := startTestServer(t)
	_ = testHelperCreateRole(t, testClient(testServer, testAccountID), "my-role")

	var roles []RoleInfo
	testHelperAdminGet(t, testServer, "/admin/account/"+testAccountID+"/roles", http.StatusOK, &roles)
	require.Len(t, roles, 1)
	require.Equal(t, "my-role", roles[0].RoleName)
	require.Equal(t, testTrustPolicy(t, "123456789012"), roles[0].AssumeRolePolicyDocument)

	testHelperAdminGet(t, testServer, "/admin/account/not-an-account/roles", http.StatusNotFound, nil)
}

func Test_Server_adminGetRole(t *testing.T) {
	_, testServer := startTestServer(t)
	_ = testHelperCreateRole(t, testClient(testServer, testAccountID), "my-role")

	var role RoleInfo
	testHelperAdminGet(t, testServer, "/admin/account/"+testAccountID+"/role/my-role", http.StatusOK, &role)
	require.Equal(t, "arn:aws:iam::111122223333:role/my-role", role.Arn)
	require.True(t, testNow.Equal(role.Created))

	testHelperAdminGet(t, testServer, "/admin/account/"+testAccountID+"/role/other-role", http.StatusNotFound, nil)
}

func testHelperAdminGet(t *testing.T, testServer *httptest.Server, path string, expectedStatus int, output any) {
	t.Helper()
	res, err := testServer.Client().Get(testServer.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, expectedStatus, res.StatusCode)
	if output != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(output))
	}
}
