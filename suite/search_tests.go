package suite

import (
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/pages"
)

func openSearch(t *webtest.T, s *lifecycle.Session, term string) *pages.SearchPage {
	t.Helper()
	search, err := signIn(t, s, "alice", "pw").Search(term)
	require.NoError(t, err)
	require.True(t, search.IsLoaded())
	return search
}

func doSearchTests(t *webtest.T) {
	browserTest(t, "search and back", func(t *webtest.T, s *lifecycle.Session) {
		search := openSearch(t, s, "selenium")
		assert.False(t, search.HasNoResults())
		assert.Greater(t, search.TotalResults(), 0)
		assert.LessOrEqual(t, search.ResultCount(), search.TotalResults())

		dashboard, err := search.Back()
		require.NoError(t, err)
		requireDashboard(t, s, dashboard)
	})

	browserTest(t, "pagination", func(t *webtest.T, s *lifecycle.Session) {
		search := openSearch(t, s, "selenium")
		if !search.HasPagination() {
			t.SkipWithReason("results fit on one page")
		}
		first, err := search.Results()
		require.NoError(t, err)
		require.NoError(t, search.GoToPage(2))
		second, err := search.Results()
		require.NoError(t, err)
		assert.NotEmpty(t, second)
		m.In(t).Assert(second, m.Not(m.Equal(first)))
	})

	browserTest(t, "filter and sort", func(t *webtest.T, s *lifecycle.Session) {
		search := openSearch(t, s, "selenium")
		total := search.TotalResults()

		require.NoError(t, search.ApplyFilter("Products"))
		active, err := search.ActiveFilter()
		require.NoError(t, err)
		assert.Equal(t, "Products", active)
		assert.LessOrEqual(t, search.TotalResults(), total)

		require.NoError(t, search.ApplyFilter("All"))
		require.NoError(t, search.SortBy("Title A-Z"))
		order, err := search.SortOrder()
		require.NoError(t, err)
		assert.Equal(t, "Title A-Z", order)
		results, err := search.Results()
		require.NoError(t, err)
		m.In(t).Assert(results, m.Equal(helpers.Sorted(results)))
	})

	browserTest(t, "no results", func(t *webtest.T, s *lifecycle.Session) {
		search := openSearch(t, s, "zzzzzz")
		assert.True(t, search.HasNoResults())
		m.In(t).Assert(search.ResultCount(), m.Equal(0))
	})

	browserTest(t, "open a result", func(t *webtest.T, s *lifecycle.Session) {
		search := openSearch(t, s, "selenium")
		results, err := search.Results()
		require.NoError(t, err)
		require.NotEmpty(t, results)
		require.NoError(t, search.ClickResult(0))
		assert.True(t, s.VerifyTitleContains(results[0]))
	})
}
