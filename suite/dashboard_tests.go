package suite

import (
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
)

func doDashboardTests(t *webtest.T) {
	browserTest(t, "dashboard content", func(t *webtest.T, s *lifecycle.Session) {
		dashboard := signIn(t, s, "alice", "pw")

		title, err := dashboard.DashboardTitle()
		require.NoError(t, err)
		m.In(t).Assert(title, m.Equal("Dashboard"))
		assert.Greater(t, dashboard.WidgetCount(), 0)
		assert.GreaterOrEqual(t, dashboard.NotificationCount(), 0)

		links, err := dashboard.NavigationLinks()
		require.NoError(t, err)
		assert.Contains(t, links, "Search")
	})

	browserTest(t, "navigation link", func(t *webtest.T, s *lifecycle.Session) {
		dashboard := signIn(t, s, "alice", "pw")
		require.NoError(t, dashboard.ClickNavigationLink("Reports"))
		assert.True(t, s.VerifyTitleContains("Reports"))
	})

	browserTest(t, "logout", func(t *webtest.T, s *lifecycle.Session) {
		dashboard := signIn(t, s, "alice", "pw")
		login, err := dashboard.Logout()
		require.NoError(t, err)
		assert.True(t, login.IsLoaded())
		assert.False(t, login.IsErrorMessageDisplayed())

		s.LogStep("the dashboard is no longer reachable")
		require.NoError(t, s.NavigateTo(pages.DashboardPath))
		assert.True(t, login.IsLoaded())
	})
}
