package spy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Handler(t *testing.T) {
	var captured Request
	var upstreamBody string
	handler := &Handler{
		Do: func(req Request) { captured = req },
		Next: http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			body, _ := io.ReadAll(req.Body)
			upstreamBody = string(body)
			rw.Header().Set("Content-Type", "text/xml")
			rw.WriteHeader(http.StatusConflict)
			_, _ = rw.Write([]byte("<ErrorResponse/>"))
		}),
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("Action=CreateRole"))
	req.Header.Set("Authorization", "AWS4-HMAC-SHA256 Credential=secret")
	req.Header.Set("X-Amz-Security-Token", "token")
	req.Header.Set("X-Amz-Date", "20250522T123045Z")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.Equal(t, "Action=CreateRole", upstreamBody)
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Equal(t, "<ErrorResponse/>", recorder.Body.String())

	require.Equal(t, http.MethodPost, captured.Method)
	require.Equal(t, "/", captured.URL)
	require.Equal(t, http.StatusConflict, captured.StatusCode)
	require.Equal(t, "Action=CreateRole", captured.RequestBody)
	require.Equal(t, "<ErrorResponse/>", captured.ResponseBody)
	require.Equal(t, "text/xml", captured.ResponseHeaders["Content-Type"])
	require.Equal(t, "<redacted>", captured.RequestHeaders["Authorization"])
	require.Equal(t, "<redacted>", captured.RequestHeaders["X-Amz-Security-Token"])
	require.Equal(t, "20250522T123045Z", captured.RequestHeaders["X-Amz-Date"])
}

func Test_Handler_noNext(t *testing.T) {
	var captured Request
	handler := &Handler{Do: func(req Request) { captured = req }}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/accounts", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, http.StatusOK, captured.StatusCode)
	require.Equal(t, "/admin/accounts", captured.URL)
}

func Test_WriteOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	write := WriteOutput(buf)
	write(Request{Method: http.MethodPost, StatusCode: http.StatusOK})
	write(Request{Method: http.MethodGet, StatusCode: http.StatusNotFound})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var second Request
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, http.MethodGet, second.Method)
	require.Equal(t, http.StatusNotFound, second.StatusCode)
}
