package harness

import (
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pomkit/pom-test-harness/mockapp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func get(t *testing.T, url string) (int, string) {
	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	resp, err := (&http.Client{Transport: transport}).Get(url)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAppServerServesDemoApplication(t *testing.T) {
	s, err := StartAppServer("localhost", 0, mockapp.New(nil), nil)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	assert.Regexp(t, `^http://localhost:\d+$`, s.BaseURL())

	status, body := get(t, s.BaseURL()+"/login")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `id="username"`)
}

func TestAppServerAnswersHeadItself(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	s, err := StartAppServer("localhost", 0, handler, nil)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	resp, err := (&http.Client{Transport: transport}).Head(s.BaseURL())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ := get(t, s.BaseURL()+"/anything")
	assert.Equal(t, http.StatusTeapot, status)
}

func TestAppServerReportsPortInUse(t *testing.T) {
	first, err := StartAppServer("localhost", 0, mockapp.New(nil), nil)
	require.NoError(t, err)
	defer first.Close() //nolint:errcheck

	port := first.BaseURL()[len("http://localhost:"):]
	_, err = StartAppServer("localhost", mustAtoi(t, port), mockapp.New(nil), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not listen on port "+port)
}

func TestAppServerStopsOnClose(t *testing.T) {
	s, err := StartAppServer("localhost", 0, mockapp.New(nil), nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	transport := &http.Transport{DisableKeepAlives: true}
	defer transport.CloseIdleConnections()
	_, err = (&http.Client{Transport: transport}).Get(s.BaseURL() + "/login")
	assert.Error(t, err)
}

func mustAtoi(t *testing.T, s string) int {
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
