package lifecycle

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/mockapp"
	"github.com/pomkit/pom-test-harness/mockbrowser"
	"github.com/pomkit/pom-test-harness/pages"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	launcher *mockbrowser.Launcher
	factory  *driver.Factory
	host     *Host
	attacher *report.MemoryAttacher
	output   *bytes.Buffer
}

func testSettings() config.Settings {
	return config.Settings{
		Browser:             "chrome",
		BaseURL:             mockbrowser.DefaultBaseURL,
		ExplicitWait:        300 * time.Millisecond,
		PageLoadTimeout:     5 * time.Second,
		Headless:            true,
		ScreenshotOnFailure: true,
		Environment:         "test",
		RetryCount:          1,
		ThreadCount:         2,
	}
}

func newFixture(t *testing.T, settings config.Settings, options ...HostOption) *fixture {
	var buf bytes.Buffer
	logger, err := log.NewWithOutput(&buf, "debug")
	require.NoError(t, err)

	f := &fixture{
		launcher: &mockbrowser.Launcher{Handler: mockapp.New(nil)},
		attacher: &report.MemoryAttacher{},
		output:   &buf,
	}
	f.factory, err = driver.NewFactoryFromSettings(settings, driver.WithLauncher(f.launcher), driver.WithLogger(logger))
	require.NoError(t, err)
	all := append([]HostOption{WithAttacher(f.attacher), WithLogger(logger)}, options...)
	f.host, err = NewHost(settings, f.factory, all...)
	require.NoError(t, err)
	return f
}

func (f *fixture) run(name string, body func(*webtest.T, *Session)) webtest.Results {
	return webtest.Run(webtest.TestConfiguration{}, func(t *webtest.T) {
		f.host.Test(t, name, body)
	})
}

// validLogin signs in as alice and checks that the dashboard appears.
func validLogin(t *webtest.T, s *Session) {
	login, err := pages.NewLoginPage(s.PageConfig())
	require.NoError(t, err)
	require.True(t, login.IsLoaded())
	dashboard, err := login.Login("alice", "pw")
	require.NoError(t, err)
	assert.NoError(t, pom.WaitUntilLoaded(dashboard, dashboard.PageName(), s.Settings().ExplicitWait))
}

func TestPassingTestTakesNoScreenshot(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("valid login", validLogin)

	assert.True(t, results.OK())
	assert.Empty(t, f.attacher.Stored())

	browsers := f.launcher.Browsers()
	require.Len(t, browsers, 1)
	assert.Equal(t, 1, browsers[0].QuitCalls())
	assert.Equal(t, 0, f.factory.Registry().Len())
	assert.Contains(t, f.output.String(), "Test passed: valid login")
}

func TestFailedTestAttachesOneScreenshot(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("invalid login", func(t *webtest.T, s *Session) {
		login, err := pages.NewLoginPage(s.PageConfig())
		require.NoError(t, err)
		dashboard, err := login.Login("alice", "wrong")
		require.NoError(t, err)

		again, err := pages.NewLoginPage(s.PageConfig())
		require.NoError(t, err)
		assert.True(t, again.IsLoaded())
		assert.True(t, again.IsErrorMessageDisplayed())
		message, err := again.ErrorMessage()
		assert.NoError(t, err)
		assert.NotEmpty(t, message)

		assert.True(t, dashboard.IsLoaded(), "dashboard should be loaded")
	})

	require.Len(t, results.Failures, 1)
	failure := results.Failures[0]
	assert.Equal(t, webtest.TestID{"invalid login"}, failure.TestID)
	assert.Len(t, failure.Errors, 1)
	require.Len(t, failure.Attachments, 1)
	assert.Equal(t, ScreenshotName, failure.Attachments[0].Name)
	assert.Equal(t, ScreenshotMimeType, failure.Attachments[0].MimeType)

	stored := f.attacher.For(webtest.TestID{"invalid login"})
	require.Len(t, stored, 1)
	assert.True(t, bytes.HasPrefix(stored[0].Data, []byte("\x89PNG")))
	assert.Equal(t, 1, f.launcher.Browsers()[0].QuitCalls())
}

func (f *fixture) runWithRetries(name string, attempts int, body func(*webtest.T, *Session)) webtest.Results {
	return webtest.Run(webtest.TestConfiguration{}, func(t *webtest.T) {
		t.RunWithRetries(name, attempts, f.host.Action(body))
	})
}

func TestTestPassingOnRetryTakesNoScreenshot(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.runWithRetries("flaky", 2, func(t *webtest.T, _ *Session) {
		if t.Attempt() == 1 {
			t.Errorf("first attempt fails")
		}
	})

	assert.True(t, results.OK())
	require.NotEmpty(t, results.Tests)
	assert.Equal(t, webtest.TestID{"flaky"}, results.Tests[0].TestID)
	assert.Equal(t, 2, results.Tests[0].Attempts)
	assert.Empty(t, f.attacher.Stored())
	assert.Len(t, f.launcher.Browsers(), 2)
}

func TestTestFailingEveryAttemptTakesOneScreenshot(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.runWithRetries("broken", 3, func(t *webtest.T, _ *Session) {
		t.Errorf("attempt %d fails", t.Attempt())
	})

	require.Len(t, results.Failures, 1)
	assert.Equal(t, 3, results.Failures[0].Attempts)
	require.Len(t, f.attacher.Stored(), 1)
	assert.Len(t, results.Failures[0].Attachments, 1)
	for _, b := range f.launcher.Browsers() {
		assert.Equal(t, 1, b.QuitCalls())
	}
}

func TestFailNowStillCleansUp(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("fatal", func(t *webtest.T, s *Session) {
		require.True(t, s.VerifyURLContains("/nowhere"))
		t.Errorf("not reached")
	})

	require.Len(t, results.Failures, 1)
	assert.Len(t, results.Failures[0].Errors, 1)
	assert.Len(t, f.attacher.Stored(), 1)
	assert.Equal(t, 1, f.launcher.Browsers()[0].QuitCalls())
	assert.Equal(t, 0, f.factory.Registry().Len())
}

func TestPanicStillCleansUp(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("panics", func(*webtest.T, *Session) {
		panic("boom")
	})

	require.Len(t, results.Failures, 1)
	assert.Len(t, f.attacher.Stored(), 1)
	assert.Equal(t, 1, f.launcher.Browsers()[0].QuitCalls())
}

func TestSkippedTestTakesNoScreenshot(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("skipped", func(t *webtest.T, _ *Session) {
		t.SkipWithReason("not today")
	})

	assert.True(t, results.OK())
	assert.Empty(t, f.attacher.Stored())
	assert.Equal(t, 1, f.launcher.Browsers()[0].QuitCalls())
	assert.Contains(t, f.output.String(), "not today")
}

func TestScreenshotOnFailureCanBeDisabled(t *testing.T) {
	settings := testSettings()
	settings.ScreenshotOnFailure = false
	f := newFixture(t, settings)
	results := f.run("fails", func(t *webtest.T, _ *Session) {
		t.Errorf("expected failure")
	})

	assert.Len(t, results.Failures, 1)
	assert.Empty(t, f.attacher.Stored())
	assert.Equal(t, 1, f.launcher.Browsers()[0].QuitCalls())
}

type failingAttacher struct{}

func (failingAttacher) Attach(webtest.TestID, string, string, []byte) (webtest.Attachment, error) {
	return webtest.Attachment{}, errors.New("bucket unavailable")
}

func TestScreenshotProblemsDoNotChangeOutcome(t *testing.T) {
	f := newFixture(t, testSettings(), WithAttacher(failingAttacher{}))
	results := f.run("fails", func(t *webtest.T, _ *Session) {
		t.Errorf("expected failure")
	})
	require.Len(t, results.Failures, 1)
	assert.Len(t, results.Failures[0].Errors, 1)
	assert.Empty(t, results.Failures[0].Attachments)
	assert.Contains(t, f.output.String(), "bucket unavailable")

	g := newFixture(t, testSettings())
	g.launcher.Options = []mockbrowser.Option{mockbrowser.WithCapabilities(framework.Capabilities{})}
	results = g.run("fails", func(t *webtest.T, _ *Session) {
		t.Errorf("expected failure")
	})
	require.Len(t, results.Failures, 1)
	assert.Len(t, results.Failures[0].Errors, 1)
	assert.Empty(t, g.attacher.Stored())
	assert.Contains(t, g.output.String(), "cannot take screenshots")
}

func TestDriverConstructionFailureFailsTest(t *testing.T) {
	f := newFixture(t, testSettings())
	f.launcher.Err = errors.New("chromedriver crashed")
	bodyRan := false
	results := f.run("no browser", func(*webtest.T, *Session) { bodyRan = true })

	assert.False(t, bodyRan)
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "chromedriver crashed")
	assert.Empty(t, f.attacher.Stored())
}

func TestUnknownBrowserFailsTest(t *testing.T) {
	settings := testSettings()
	settings.Browser = "netscape"
	f := newFixture(t, settings)
	results := f.run("netscape", func(*webtest.T, *Session) {})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "netscape")
	assert.Empty(t, f.launcher.Launched())
}

func TestTeardownErrorsAreSwallowed(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("quits early", func(t *webtest.T, s *Session) {
		require.NoError(t, s.Driver().Quit())
	})

	assert.True(t, results.OK())
	assert.Equal(t, 0, f.factory.Registry().Len())
	assert.Equal(t, 2, f.launcher.Browsers()[0].QuitCalls())
	assert.Contains(t, f.output.String(), "Error during teardown")
}

func TestParallelContextsAreIsolated(t *testing.T) {
	f := newFixture(t, testSettings())
	sessions := make(chan string, 2)
	body := func(t *webtest.T, s *Session) {
		sessions <- s.Driver().SessionID()
		validLogin(t, s)
	}
	results := webtest.Run(webtest.TestConfiguration{}, func(t *webtest.T) {
		t.RunParallel(f.host.Settings().ThreadCount,
			f.host.Subtest("first", body),
			f.host.Subtest("second", body),
		)
	})
	close(sessions)

	assert.True(t, results.OK())
	var ids []string
	for id := range sessions {
		ids = append(ids, id)
	}
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	browsers := f.launcher.Browsers()
	require.Len(t, browsers, 2)
	for _, b := range browsers {
		assert.Equal(t, 1, b.QuitCalls())
	}
	assert.Equal(t, 0, f.factory.Registry().Len())
}

func TestSessionHelpers(t *testing.T) {
	f := newFixture(t, testSettings())
	results := f.run("helpers", func(t *webtest.T, s *Session) {
		assert.True(t, s.VerifyURLContains("/login"))
		assert.False(t, s.VerifyURLContains("/dashboard"))
		assert.True(t, s.VerifyTitleContains("Login"))
		assert.False(t, s.VerifyTitleContains("Dashboard"))

		require.NoError(t, s.NavigateTo("/about"))
		assert.True(t, s.VerifyTitleContains("About"))

		id, ok := driver.ExecutionIDFrom(s.Context())
		assert.True(t, ok)
		assert.Equal(t, s.ExecutionID(), id)
		assert.Equal(t, "chrome", s.Settings().Browser)
		assert.Equal(t, mockbrowser.DefaultBaseURL+"/privacy", s.PageConfig().URL("privacy"))
		s.LogStep("checked %d helpers", 4)
	})
	assert.True(t, results.OK())
	assert.Contains(t, f.output.String(), "Test step: checked 4 helpers")
}

func TestSuiteLogging(t *testing.T) {
	f := newFixture(t, testSettings())
	f.host.SuiteStarted()
	f.host.SuiteFinished(webtest.Results{
		Tests:    []webtest.TestResult{{TestID: webtest.TestID{"a"}}, {TestID: webtest.TestID{"b"}}},
		Failures: []webtest.TestResult{{TestID: webtest.TestID{"b"}}},
	})
	out := f.output.String()
	assert.Contains(t, out, "Browser: chrome")
	assert.Contains(t, out, "Base URL: "+mockbrowser.DefaultBaseURL)
	assert.Contains(t, out, "Thread count: 2")
	assert.Contains(t, out, "2 tests, 1 failed")
	assert.Contains(t, out, "FAILED: b")
}

func TestNewHostRequiresFactory(t *testing.T) {
	_, err := NewHost(testSettings(), nil)
	assert.Error(t, err)
}

func TestNewAttacher(t *testing.T) {
	settings := testSettings()
	settings.AttachmentsDir = t.TempDir()
	a, err := NewAttacher(settings)
	require.NoError(t, err)
	assert.Len(t, a, 1)

	settings.AttachmentsS3Bucket = "reports"
	settings.AttachmentsS3Region = "eu-west-1"
	a, err = NewAttacher(settings, report.WithS3Credentials("key", "secret"))
	require.NoError(t, err)
	assert.Len(t, a, 2)
}
