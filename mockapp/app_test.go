package mockapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/mockbrowser"
)

func text(t *testing.T, b *mockbrowser.Browser, by driver.By) string {
	el, err := b.FindElement(by)
	require.NoError(t, err, by.String())
	s, err := el.Text()
	require.NoError(t, err)
	return s
}

func login(t *testing.T, b *mockbrowser.Browser, username, password string) {
	require.NoError(t, b.Get("/login"))
	submitLogin(t, b, username, password)
}

func submitLogin(t *testing.T, b *mockbrowser.Browser, username, password string) {
	for id, value := range map[string]string{"username": username, "password": password} {
		el, err := b.FindElement(driver.ID(id))
		require.NoError(t, err)
		require.NoError(t, el.SendKeys(value))
	}
	button, err := b.FindElement(driver.ID("login-button"))
	require.NoError(t, err)
	require.NoError(t, button.Click())
}

func currentPath(t *testing.T, b *mockbrowser.Browser) string {
	u, err := b.CurrentURL()
	require.NoError(t, err)
	return u[len(mockbrowser.DefaultBaseURL):]
}

func TestRootRedirectsToLoginWhenSignedOut(t *testing.T) {
	b := mockbrowser.New(New(nil))
	require.NoError(t, b.Get("/"))
	assert.Equal(t, "/login", currentPath(t, b))

	title, _ := b.Title()
	assert.Equal(t, "Login - PomKit", title)
}

func TestProtectedPagesRedirect(t *testing.T) {
	for _, path := range []string{"/dashboard", "/search?q=x", "/items/1", "/settings"} {
		rec := httptest.NewRecorder()
		New(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestSuccessfulLogin(t *testing.T) {
	b := mockbrowser.New(New(nil))
	login(t, b, "alice", "pw")

	assert.Equal(t, "/dashboard", currentPath(t, b))
	assert.Equal(t, "Welcome, Alice!", text(t, b, driver.ClassName("welcome-message")))
	assert.Equal(t, "Alice", text(t, b, driver.ID("user-name")))

	widgets, err := b.FindElements(driver.ClassName("widget"))
	require.NoError(t, err)
	assert.Len(t, widgets, len(dashboardWidgets))

	require.NoError(t, b.Get("/"))
	assert.Equal(t, "/dashboard", currentPath(t, b))
}

func TestFailedLogin(t *testing.T) {
	cases := []struct {
		username, password, message string
	}{
		{"alice", "wrong", MessageInvalidCredentials},
		{"nobody", "pw", MessageInvalidCredentials},
		{"", "pw", MessageUsernameRequired},
		{"alice", "", MessagePasswordRequired},
		{"locked", "locked", MessageAccountLocked},
	}
	for _, c := range cases {
		b := mockbrowser.New(New(nil))
		login(t, b, c.username, c.password)

		assert.Equal(t, "/login", currentPath(t, b))
		assert.Equal(t, c.message, text(t, b, driver.ClassName("error-message")))
	}
}

func TestLanguageAffectsWelcome(t *testing.T) {
	b := mockbrowser.New(New(nil))
	require.NoError(t, b.Get("/login"))
	option, err := b.FindElement(driver.XPath("//select[@id='language-selector']/option[@value='de']"))
	require.NoError(t, err)
	require.NoError(t, option.Click())
	submitLogin(t, b, "bob", "builder")

	assert.Equal(t, "/dashboard", currentPath(t, b))
	assert.Equal(t, "Willkommen, Bob!", text(t, b, driver.ClassName("welcome-message")))
}

func TestLogout(t *testing.T) {
	b := mockbrowser.New(New(nil))
	login(t, b, "alice", "pw")
	button, err := b.FindElement(driver.ID("logout-button"))
	require.NoError(t, err)
	require.NoError(t, button.Click())

	assert.Equal(t, "/login", currentPath(t, b))
	require.NoError(t, b.Get("/dashboard"))
	assert.Equal(t, "/login", currentPath(t, b))
}

func TestSearch(t *testing.T) {
	b := mockbrowser.New(New(nil))
	login(t, b, "alice", "pw")

	require.NoError(t, b.Get("/search?q=selenium"))
	items, err := b.FindElements(driver.ClassName("result-item"))
	require.NoError(t, err)
	assert.Len(t, items, PageSize)
	assert.Equal(t, `7 results for "selenium"`, text(t, b, driver.ID("results-count")))

	pages, err := b.FindElements(driver.ClassName("page-link"))
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	require.NoError(t, b.Get("/search?q=selenium&page=2"))
	items, _ = b.FindElements(driver.ClassName("result-item"))
	assert.Len(t, items, 2)

	require.NoError(t, b.Get("/search?q=selenium&filter=products"))
	items, _ = b.FindElements(driver.ClassName("result-item"))
	assert.Len(t, items, 2)

	require.NoError(t, b.Get("/search?q=zzzz"))
	assert.Equal(t, `No results found for "zzzz"`, text(t, b, driver.ClassName("no-results-message")))
}

func TestSearchSorting(t *testing.T) {
	res := search(searchQuery{Term: "selenium", Sort: "title"})
	require.NotEmpty(t, res.Items)
	assert.Equal(t, "Flaky Test Triage", res.Items[0].Title)

	res = search(searchQuery{Term: "selenium", Sort: "newest"})
	assert.Equal(t, 2024, res.Items[0].Year)

	res = search(searchQuery{Term: "selenium", Page: "99"})
	assert.Equal(t, 1, res.Page)
}

func TestNewsletter(t *testing.T) {
	b := mockbrowser.New(New(nil))
	require.NoError(t, b.Get("/about"))
	email, err := b.FindElement(driver.ID("newsletter-email"))
	require.NoError(t, err)
	require.NoError(t, email.SendKeys("someone@example.com"))
	subscribe, err := b.FindElement(driver.ID("newsletter-subscribe"))
	require.NoError(t, err)
	require.NoError(t, subscribe.Click())

	assert.Equal(t, "/about?newsletter=subscribed", currentPath(t, b))
	assert.Equal(t, "Thanks for subscribing!", text(t, b, driver.ID("newsletter-message")))
}

func TestUnknownPage(t *testing.T) {
	rec := httptest.NewRecorder()
	New(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
