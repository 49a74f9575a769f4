package report

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/webtest"
)

var testID = webtest.TestID{"login", "invalid credentials: alice/wrong"} //nolint:gochecknoglobals

var png = []byte("\x89PNG fake") //nolint:gochecknoglobals

func TestObjectName(t *testing.T) {
	assert.Equal(t, "login/invalid_credentials_alice_wrong/Screenshot.png", objectName(testID, "Screenshot", "image/png", 1))
	assert.Equal(t, "login/invalid_credentials_alice_wrong/Screenshot-2.png", objectName(testID, "Screenshot", "image/png", 2))
	assert.Equal(t, "root/page_source.html", objectName(nil, "page source", "text/html", 1))
	assert.Equal(t, "a/attachment.bin", objectName(webtest.TestID{"a"}, "//", "application/x-unknown", 1))
}

func TestDirAttacher(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDirAttacherFs(fs, "target/attachments")

	a, err := d.Attach(testID, "Screenshot", "image/png", png)
	require.NoError(t, err)
	assert.Equal(t, "Screenshot", a.Name)
	assert.Equal(t, "image/png", a.MimeType)
	assert.Equal(t, len(png), a.Size)
	assert.Equal(t, filepath.Join("target", "attachments", "login", "invalid_credentials_alice_wrong", "Screenshot.png"), a.Location)

	data, err := afero.ReadFile(fs, a.Location)
	require.NoError(t, err)
	assert.Equal(t, png, data)

	again, err := d.Attach(testID, "Screenshot", "image/png", png)
	require.NoError(t, err)
	assert.NotEqual(t, a.Location, again.Location)
}

func TestDirAttacherWriteFailure(t *testing.T) {
	d := NewDirAttacherFs(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out")
	_, err := d.Attach(testID, "Screenshot", "image/png", png)
	assert.Error(t, err)
}

func TestS3Attacher(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		a, err := NewS3Attacher("reports", "us-east-1",
			WithS3Endpoint(server.URL), WithS3Credentials("key", "secret"), WithS3Prefix("/runs/42/"))
		require.NoError(t, err)

		att, err := a.Attach(testID, "Screenshot", "image/png", png)
		require.NoError(t, err)
		assert.Equal(t, "s3://reports/runs/42/login/invalid_credentials_alice_wrong/Screenshot.png", att.Location)
		assert.Equal(t, len(png), att.Size)

		received := <-requests
		assert.Equal(t, http.MethodPut, received.Request.Method)
		assert.Equal(t, "/reports/runs/42/login/invalid_credentials_alice_wrong/Screenshot.png", received.Request.URL.Path)
		assert.Equal(t, "image/png", received.Request.Header.Get("Content-Type"))
		assert.Equal(t, png, received.Body)
	})
}

func TestS3AttacherUploadFailure(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(403), func(server *httptest.Server) {
		a, err := NewS3Attacher("reports", "us-east-1", WithS3Endpoint(server.URL), WithS3Credentials("key", "secret"))
		require.NoError(t, err)
		_, err = a.Attach(testID, "Screenshot", "image/png", png)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket reports")
	})
}

type failingAttacher struct{}

func (failingAttacher) Attach(webtest.TestID, string, string, []byte) (webtest.Attachment, error) {
	return webtest.Attachment{}, errors.New("disk full")
}

func TestMultiAttacher(t *testing.T) {
	mem := &MemoryAttacher{}
	m := MultiAttacher{failingAttacher{}, mem}

	a, err := m.Attach(testID, "Screenshot", "image/png", png)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "memory:login/invalid_credentials_alice_wrong/Screenshot.png", a.Location)
	assert.Len(t, mem.For(testID), 1)

	_, err = MultiAttacher{}.Attach(testID, "Screenshot", "image/png", png)
	assert.Error(t, err)

	_, err = MultiAttacher{mem}.Attach(testID, "Screenshot", "image/png", png)
	assert.NoError(t, err)
}

func TestMemoryAttacher(t *testing.T) {
	mem := &MemoryAttacher{}
	_, err := mem.Attach(testID, "Screenshot", "image/png", png)
	require.NoError(t, err)
	_, err = mem.Attach(webtest.TestID{"other"}, "Log", "text/plain", []byte("x"))
	require.NoError(t, err)

	assert.Len(t, mem.Stored(), 2)
	stored := mem.For(testID)
	require.Len(t, stored, 1)
	assert.Equal(t, png, stored[0].Data)
	assert.Equal(t, "image/png", stored[0].MimeType)
}
