package suite

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
	"github.com/pomkit/pom-test-harness/pom"
)

// TestContext is the application context RunSuite puts in the test configuration.
type TestContext struct {
	host *lifecycle.Host
}

func requireContext(t *webtest.T) TestContext {
	if c, ok := t.Context().(TestContext); ok {
		return c
	}
	panic("TestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// browserTest runs body as a subtest with its own browser session. A failed attempt is retried
// as many times as retry.count allows.
func browserTest(t *webtest.T, name string, body func(*webtest.T, *lifecycle.Session)) {
	host := requireContext(t).host
	t.RunWithRetries(name, host.Settings().RetryCount, host.Action(body))
}

type namedTest struct {
	name string
	body func(*webtest.T, *lifecycle.Session)
}

// parallelBrowserTests runs each test in its own browser session, with at most thread.count of
// them in flight at once.
func parallelBrowserTests(t *webtest.T, tests ...namedTest) {
	host := requireContext(t).host
	subtests := make([]webtest.Subtest, 0, len(tests))
	for _, test := range tests {
		subtests = append(subtests, host.Subtest(test.name, test.body))
	}
	t.RunParallel(host.Settings().ThreadCount, subtests...)
}

func wait(s *lifecycle.Session) time.Duration {
	return s.Settings().ExplicitWait
}

func openLoginPage(t *webtest.T, s *lifecycle.Session) *pages.LoginPage {
	t.Helper()
	login, err := pages.NewLoginPage(s.PageConfig())
	require.NoError(t, err)
	require.NoError(t, login.NavigateToLoginPage())
	require.NoError(t, pom.WaitUntilLoaded(login, login.PageName(), wait(s)))
	return login
}

func openEnhancedLoginPage(t *webtest.T, s *lifecycle.Session) *pages.EnhancedLoginPage {
	t.Helper()
	login, err := pages.NewEnhancedLoginPage(s.PageConfig())
	require.NoError(t, err)
	require.NoError(t, login.NavigateToLoginPage())
	require.NoError(t, pom.WaitUntilLoaded(login, login.PageName(), wait(s)))
	return login
}

func requireDashboard(t *webtest.T, s *lifecycle.Session, dashboard *pages.DashboardPage) {
	t.Helper()
	require.NotNil(t, dashboard)
	require.NoError(t, pom.WaitUntilLoaded(dashboard, dashboard.PageName(), wait(s)))
}

func signIn(t *webtest.T, s *lifecycle.Session, username, password string) *pages.DashboardPage {
	t.Helper()
	dashboard, err := openLoginPage(t, s).Login(username, password)
	require.NoError(t, err)
	requireDashboard(t, s, dashboard)
	return dashboard
}
