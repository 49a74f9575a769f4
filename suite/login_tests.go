package suite

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
)

func doLoginTests(t *webtest.T) {
	browserTest(t, "valid login", func(t *webtest.T, s *lifecycle.Session) {
		s.LogStep("sign in as alice")
		dashboard := signIn(t, s, "alice", "pw")
		welcome, err := dashboard.WelcomeMessage()
		require.NoError(t, err)
		assert.Equal(t, "Welcome, Alice!", welcome)
		assert.True(t, s.VerifyURLContains(pages.DashboardPath))
	})

	browserTest(t, "invalid login shows an error", func(t *webtest.T, s *lifecycle.Session) {
		login := openLoginPage(t, s)
		s.LogStep("sign in with a wrong password")
		again, err := login.LoginExpectingFailure("alice", "wrong")
		require.NoError(t, err)
		assert.True(t, again.IsLoaded())
		assert.True(t, again.IsErrorMessageDisplayed())
		message, err := again.ErrorMessage()
		require.NoError(t, err)
		assert.NotEmpty(t, message)
		assert.True(t, s.VerifyURLContains(pages.LoginPath))
	})

	browserTest(t, "login page title", func(t *webtest.T, s *lifecycle.Session) {
		login := openLoginPage(t, s)
		title, err := login.LoginTitle()
		require.NoError(t, err)
		assert.NotEmpty(t, title)
		assert.True(t, s.VerifyTitleContains("Login"))
	})

	browserTest(t, "remember me", func(t *webtest.T, s *lifecycle.Session) {
		login := openLoginPage(t, s)
		require.NoError(t, login.ClickRememberMe())
		require.NoError(t, login.EnterUsername("bob"))
		require.NoError(t, login.EnterPassword("builder"))
		dashboard, err := login.ClickLoginButton()
		require.NoError(t, err)
		requireDashboard(t, s, dashboard)
	})

	browserTest(t, "submit with Enter", func(t *webtest.T, s *lifecycle.Session) {
		login := openEnhancedLoginPage(t, s)
		dashboard, err := login.SubmitWithEnter("alice", "pw")
		require.NoError(t, err)
		requireDashboard(t, s, dashboard)
	})

	browserTest(t, "login form", func(t *webtest.T, s *lifecycle.Session) {
		login := openEnhancedLoginPage(t, s)
		assert.NoError(t, login.VerifyLoginFormElements())

		assert.False(t, login.IsPasswordVisible())
		require.NoError(t, login.TogglePasswordVisibility())
		assert.True(t, login.IsPasswordVisible())

		assert.False(t, login.IsRememberMeChecked())
		require.NoError(t, login.ClickRememberMe())
		assert.True(t, login.IsRememberMeChecked())
	})
}
