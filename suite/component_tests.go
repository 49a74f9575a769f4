package suite

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
	"github.com/pomkit/pom-test-harness/pom"
)

func doComponentTests(t *webtest.T) {
	browserTest(t, "header", func(t *webtest.T, s *lifecycle.Session) {
		signIn(t, s, "bob", "builder")
		header, err := pages.NewHeaderComponent(s.PageConfig())
		require.NoError(t, err)
		require.NoError(t, header.WaitForComponentToLoad(wait(s)))

		assert.True(t, header.IsUserLoggedIn())
		assert.Equal(t, "Bob", header.UserName())
		crumbs, err := header.Breadcrumb()
		require.NoError(t, err)
		assert.Contains(t, crumbs, "Dashboard")

		search, err := header.SearchFromHeader("grid")
		require.NoError(t, err)
		assert.True(t, search.IsLoaded())

		login, err := header.Logout()
		require.NoError(t, err)
		assert.True(t, login.IsLoaded())
	})

	browserTest(t, "footer", func(t *webtest.T, s *lifecycle.Session) {
		openLoginPage(t, s)
		footer, err := pages.NewFooterComponent(s.PageConfig())
		require.NoError(t, err)
		require.True(t, footer.IsComponentLoaded())

		copyright, err := footer.CopyrightText()
		require.NoError(t, err)
		assert.NotEmpty(t, copyright)
		assert.NotEmpty(t, footer.ContactDetails().Email)

		require.True(t, footer.IsNewsletterSignupAvailable())
		require.NoError(t, footer.SubscribeToNewsletter("subscriber@example.com"))
		message, err := footer.NewsletterMessage()
		require.NoError(t, err)
		assert.NotEmpty(t, message)
	})

	browserTest(t, "navigation", func(t *webtest.T, s *lifecycle.Session) {
		signIn(t, s, "alice", "pw")
		nav, err := pages.NewNavigationComponent(s.PageConfig())
		require.NoError(t, err)
		require.True(t, nav.IsComponentLoaded())
		assert.Equal(t, "Dashboard", nav.ActiveItem())

		search, err := nav.SearchFromNavigation("hopper")
		require.NoError(t, err)
		assert.True(t, search.IsLoaded())
		assert.Equal(t, "Search", nav.ActiveItem())
	})

	browserTest(t, "scroll to footer", func(t *webtest.T, s *lifecycle.Session) {
		t.RequireCapability(framework.CapabilityScripting)
		openLoginPage(t, s)
		footer, err := s.Driver().FindElement(driver.ID("footer"))
		require.NoError(t, err)
		assert.NoError(t, pom.ScrollIntoView(s.Driver(), footer))
		assert.NoError(t, pom.HighlightElement(s.Driver(), footer))
	})

	browserTest(t, "page screenshot", func(t *webtest.T, s *lifecycle.Session) {
		t.RequireCapability(framework.CapabilityScreenshots)
		login := openLoginPage(t, s)
		assert.NotEmpty(t, login.TakeScreenshot())
	})
}
