package suite

import (
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/data"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
)

// doLoginDataTests runs one login per row of the credential tables, in parallel.
func doLoginDataTests(t *webtest.T) {
	credentials, err := data.LoadCredentials()
	require.NoError(t, err)

	tests := make([]namedTest, 0, len(credentials))
	for _, c := range credentials {
		c := c
		tests = append(tests, namedTest{name: c.Name, body: func(t *webtest.T, s *lifecycle.Session) {
			t.Debug("credential row from %s", c.Source)
			loginWithCredential(t, s, c)
		}})
	}
	parallelBrowserTests(t, tests...)
}

func loginWithCredential(t *webtest.T, s *lifecycle.Session, c data.Credential) {
	var dashboard *pages.DashboardPage
	var err error
	if c.Language.IsDefined() {
		s.LogStep("sign in as %q in %s", c.Username, c.Language)
		dashboard, err = openEnhancedLoginPage(t, s).LoginWithLanguage(c.Username, c.Password, c.Language.Value())
	} else {
		s.LogStep("sign in as %q", c.Username)
		dashboard, err = openLoginPage(t, s).Login(c.Username, c.Password)
	}
	require.NoError(t, err)

	switch c.Expect {
	case data.OutcomeSuccess:
		requireDashboard(t, s, dashboard)
		if c.Message != "" {
			welcome, err := dashboard.WelcomeMessage()
			require.NoError(t, err)
			m.In(t).Assert(welcome, m.Equal(c.Message))
		}
	case data.OutcomeFailure:
		login, err := pages.NewLoginPage(s.PageConfig())
		require.NoError(t, err)
		require.True(t, login.IsLoaded(), "expected to stay on the login page")
		assert.True(t, login.IsErrorMessageDisplayed())
		message, err := login.ErrorMessage()
		require.NoError(t, err)
		m.In(t).Assert(message, m.Equal(c.Message))
	}
}
