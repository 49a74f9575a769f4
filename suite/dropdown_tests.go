package suite

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
)

func doDropdownTests(t *webtest.T) {
	browserTest(t, "language selector round trip", func(t *webtest.T, s *lifecycle.Session) {
		login := openEnhancedLoginPage(t, s)

		languages, err := login.AvailableLanguages()
		require.NoError(t, err)
		assert.Subset(t, languages, []string{"English", "Spanish", "French"})

		require.NoError(t, login.SelectLanguage("Spanish"))
		selected, err := login.SelectedLanguage()
		require.NoError(t, err)
		assert.Equal(t, "Spanish", selected)

		s.LogStep("deselect on a single-select leaves the selection alone")
		require.NoError(t, login.DeselectLanguage("Spanish"))
		selected, err = login.SelectedLanguage()
		require.NoError(t, err)
		assert.Equal(t, "Spanish", selected)
	})

	browserTest(t, "unknown language", func(t *webtest.T, s *lifecycle.Session) {
		login := openEnhancedLoginPage(t, s)
		assert.Error(t, login.SelectLanguage("Klingon"))
		selected, err := login.SelectedLanguage()
		require.NoError(t, err)
		assert.Equal(t, "English", selected)
	})
}
