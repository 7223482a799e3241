package httputil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_HeaderLastValue(t *testing.T) {
	headers := http.Header{}
	_, ok := HeaderLastValue(headers, HeaderXForwardedFor)
	require.False(t, ok)

	headers.Set(HeaderXForwardedFor, " 10.0.0.1 ")
	value, ok := HeaderLastValue(headers, HeaderXForwardedFor)
	require.True(t, ok)
	require.Equal(t, "10.0.0.1", value)

	headers.Set(HeaderXForwardedFor, "10.0.0.1, 10.0.0.2")
	value, ok = HeaderLastValue(headers, HeaderXForwardedFor)
	require.True(t, ok)
	require.Equal(t, "10.0.0.2", value)
}

func Test_GetRemoteAddr(t *testing.T) {
	require.Empty(t, GetRemoteAddr(nil))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.168.1.10:5555"
	require.Equal(t, "192.168.1.10", GetRemoteAddr(req))

	req.Header.Set(HeaderXRealIP, "10.0.0.3")
	require.Equal(t, "10.0.0.3", GetRemoteAddr(req))

	req.Header.Set(HeaderXForwardedFor, "10.0.0.1, 10.0.0.2")
	require.Equal(t, "10.0.0.2", GetRemoteAddr(req))
}

func Test_ResponseWriter(t *testing.T) {
	recorder := httptest.NewRecorder()
	rw := NewResponseWriter(recorder)
	_, err := rw.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rw.StatusCode())
	require.Equal(t, 5, rw.ContentLength())

	recorder = httptest.NewRecorder()
	rw = NewResponseWriter(recorder)
	rw.Header().Set(HeaderContentType, ContentTypeXML)
	rw.WriteHeader(http.StatusConflict)
	rw.Flush()
	require.Equal(t, http.StatusConflict, rw.StatusCode())
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Equal(t, ContentTypeXML, recorder.Header().Get(HeaderContentType))
	require.True(t, recorder.Flushed)
}

func Test_Logged(t *testing.T) {
	buf := new(bytes.Buffer)
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	var action string
	handler := Logged(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_ = req.ParseForm()
		action = req.PostForm.Get("Action")
		rw.Header().Set(HeaderXAmznRequestID, "test-request-id")
		rw.WriteHeader(http.StatusAccepted)
		_, _ = rw.Write([]byte("ok"))
	}))

	form := url.Values{"Action": []string{"GetRole"}, "RoleName": []string{"my-role"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(HeaderContentType, ContentTypeApplicationFormEncoded)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	require.Equal(t, "GetRole", action)
	require.Equal(t, http.StatusAccepted, recorder.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "http-request", line["msg"])
	require.Equal(t, "POST", line["verb"])
	require.Equal(t, "GetRole", line["action"])
	require.Equal(t, "test-request-id", line["request_id"])
	require.EqualValues(t, http.StatusAccepted, line["status_code"])
	require.EqualValues(t, 2, line["content_length"])
}

func Test_ResponseWriter_capturing(t *testing.T) {
	recorder := httptest.NewRecorder()
	capture := new(bytes.Buffer)
	rw := NewCapturingResponseWriter(recorder, capture)
	_, err := rw.Write([]byte("<Response/>"))
	require.NoError(t, err)
	require.Equal(t, "<Response/>", capture.String())
	require.Equal(t, "<Response/>", recorder.Body.String())
	require.Equal(t, 11, rw.ContentLength())
}
