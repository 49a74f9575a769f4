package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/mockapp"
	"github.com/pomkit/pom-test-harness/mockbrowser"
	"github.com/pomkit/pom-test-harness/pom"
)

const testWait = 300 * time.Millisecond

func newTestConfig(t *testing.T) (pom.Config, *mockbrowser.Browser) {
	b := mockbrowser.New(mockapp.New(nil))
	return pom.Config{Driver: b, BaseURL: mockbrowser.DefaultBaseURL, ExplicitWait: testWait}, b
}

func openLoginPage(t *testing.T) (*LoginPage, *mockbrowser.Browser) {
	cfg, b := newTestConfig(t)
	p, err := NewLoginPage(cfg)
	require.NoError(t, err)
	require.NoError(t, p.NavigateToLoginPage())
	require.True(t, p.IsLoaded())
	return p, b
}

func openDashboard(t *testing.T) (*DashboardPage, *mockbrowser.Browser) {
	login, b := openLoginPage(t)
	dashboard, err := login.Login("alice", "pw")
	require.NoError(t, err)
	require.NoError(t, pom.WaitUntilLoaded(dashboard, dashboard.PageName(), testWait))
	return dashboard, b
}

func TestConstructorsRequireDriver(t *testing.T) {
	_, err := NewLoginPage(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewDashboardPage(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewSearchPage(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewEnhancedLoginPage(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewHeaderComponent(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewFooterComponent(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
	_, err = NewNavigationComponent(pom.Config{})
	assert.ErrorIs(t, err, pom.ErrNilDriver)
}

func TestValidLoginReachesDashboard(t *testing.T) {
	dashboard, _ := openDashboard(t)

	welcome, err := dashboard.WelcomeMessage()
	require.NoError(t, err)
	assert.Equal(t, "Welcome, Alice!", welcome)

	title, err := dashboard.DashboardTitle()
	require.NoError(t, err)
	assert.Equal(t, "Dashboard", title)
	assert.Equal(t, mockapp.NotificationCount, dashboard.NotificationCount())
	assert.Equal(t, 4, dashboard.WidgetCount())

	links, err := dashboard.NavigationLinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"Dashboard", "Search", "Reports", "Settings"}, links)
}

func TestInvalidLoginStaysOnLoginPage(t *testing.T) {
	login, _ := openLoginPage(t)
	assert.False(t, login.IsErrorMessageDisplayed())

	dashboard, err := login.Login("alice", "wrong")
	require.NoError(t, err)
	assert.False(t, dashboard.IsLoaded())

	again, err := NewLoginPage(login.Config())
	require.NoError(t, err)
	assert.True(t, again.IsLoaded())
	assert.True(t, again.IsErrorMessageDisplayed())
	message, err := again.ErrorMessage()
	require.NoError(t, err)
	assert.Equal(t, mockapp.MessageInvalidCredentials, message)
}

func TestLoginExpectingFailure(t *testing.T) {
	cases := []struct {
		name, username, password, message string
	}{
		{"no username", "", "pw", mockapp.MessageUsernameRequired},
		{"no password", "alice", "", mockapp.MessagePasswordRequired},
		{"locked", "locked", "locked", mockapp.MessageAccountLocked},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			login, _ := openLoginPage(t)
			again, err := login.LoginExpectingFailure(c.username, c.password)
			require.NoError(t, err)
			assert.True(t, again.IsLoaded())
			message, err := again.ErrorMessage()
			require.NoError(t, err)
			assert.Equal(t, c.message, message)
		})
	}
}

func TestLoginTitleAndRememberMe(t *testing.T) {
	login, b := openLoginPage(t)
	title, err := login.LoginTitle()
	require.NoError(t, err)
	assert.Equal(t, "Sign in to PomKit", title)

	require.NoError(t, login.ClickRememberMe())
	require.NoError(t, login.EnterUsername("bob"))
	require.NoError(t, login.EnterPassword("builder"))
	dashboard, err := login.ClickLoginButton()
	require.NoError(t, err)
	assert.True(t, dashboard.IsLoaded())

	u, err := b.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, mockbrowser.DefaultBaseURL+DashboardPath, u)
}

func TestNavigationInvalidatesOldPage(t *testing.T) {
	login, _ := openLoginPage(t)
	_, err := login.Login("alice", "pw")
	require.NoError(t, err)

	// The old page's elements resolve against the new document, where they do not exist.
	assert.False(t, login.IsLoaded())
	err = login.EnterUsername("again")
	var actionErr *pom.ActionFailedError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Username Field", actionErr.Element)
}

func TestDashboardSearchAndBack(t *testing.T) {
	dashboard, _ := openDashboard(t)

	search, err := dashboard.Search("selenium")
	require.NoError(t, err)
	require.True(t, search.IsLoaded())
	assert.Equal(t, mockapp.PageSize, search.ResultCount())
	assert.Equal(t, 7, search.TotalResults())

	countText, err := search.ResultsCountText()
	require.NoError(t, err)
	assert.Equal(t, `7 results for "selenium"`, countText)

	back, err := search.Back()
	require.NoError(t, err)
	assert.True(t, back.IsLoaded())
}

func TestDashboardLogout(t *testing.T) {
	dashboard, _ := openDashboard(t)
	login, err := dashboard.Logout()
	require.NoError(t, err)
	assert.True(t, login.IsLoaded())
	assert.False(t, login.IsErrorMessageDisplayed())
}

func TestDashboardLinks(t *testing.T) {
	dashboard, b := openDashboard(t)
	require.NoError(t, dashboard.ClickNavigationLink("reports"))
	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Reports - PomKit", title)

	require.NoError(t, b.Back())
	require.NoError(t, dashboard.ClickSettings())
	title, err = b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Settings - PomKit", title)

	require.NoError(t, b.Back())
	err = dashboard.ClickNavigationLink("Nowhere")
	var actionErr *pom.ActionFailedError
	assert.ErrorAs(t, err, &actionErr)
}

func openSearch(t *testing.T, term string) (*SearchPage, *mockbrowser.Browser) {
	dashboard, b := openDashboard(t)
	search, err := dashboard.Search(term)
	require.NoError(t, err)
	require.True(t, search.IsLoaded())
	return search, b
}

func TestSearchPagination(t *testing.T) {
	search, _ := openSearch(t, "selenium")
	assert.True(t, search.HasPagination())

	require.NoError(t, search.GoToPage(2))
	assert.Equal(t, 2, search.ResultCount())
	assert.Error(t, search.GoToPage(9))
}

func TestSearchFilterAndSort(t *testing.T) {
	search, _ := openSearch(t, "selenium")

	require.NoError(t, search.ApplyFilter("products"))
	assert.Equal(t, 2, search.ResultCount())
	active, err := search.ActiveFilter()
	require.NoError(t, err)
	assert.Equal(t, "Products", active)

	require.NoError(t, search.ApplyFilter("all"))
	require.NoError(t, search.SortBy("Newest"))
	order, err := search.SortOrder()
	require.NoError(t, err)
	assert.Equal(t, "Newest", order)
	results, err := search.Results()
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Flaky Test Triage", results[0])
}

func TestSearchNoResultsAndClear(t *testing.T) {
	search, _ := openSearch(t, "zzz")
	assert.True(t, search.HasNoResults())
	assert.Equal(t, 0, search.ResultCount())
	assert.Equal(t, 0, search.TotalResults())

	require.NoError(t, search.Search("grid"))
	assert.False(t, search.HasNoResults())
	assert.Equal(t, 1, search.ResultCount())

	require.NoError(t, search.ClearSearch())
	assert.True(t, search.IsLoaded())
	assert.True(t, search.HasNoResults())
}

func TestSearchSuggestionsAndResults(t *testing.T) {
	search, b := openSearch(t, "testing")
	suggestions, err := search.Suggestions()
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)

	results, err := search.Results()
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.NoError(t, search.ClickResult(0))
	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, results[0]+" - PomKit", title)
}

func TestEnhancedLoginPage(t *testing.T) {
	cfg, _ := newTestConfig(t)
	p, err := NewEnhancedLoginPage(cfg)
	require.NoError(t, err)
	require.NoError(t, p.NavigateToLoginPage())
	require.True(t, p.IsLoaded())
	require.NoError(t, p.VerifyLoginFormElements())

	languages, err := p.AvailableLanguages()
	require.NoError(t, err)
	assert.Equal(t, []string{"English", "Spanish", "French", "German"}, languages)

	require.NoError(t, p.SelectLanguage("Spanish"))
	selected, err := p.SelectedLanguage()
	require.NoError(t, err)
	assert.Equal(t, "Spanish", selected)

	n, err := p.UsernameMaxLength()
	require.NoError(t, err)
	assert.Equal(t, 64, n)

	assert.False(t, p.IsPasswordVisible())
	require.NoError(t, p.TogglePasswordVisibility())
	assert.True(t, p.IsPasswordVisible())
	require.NoError(t, p.TogglePasswordVisibility())
	assert.False(t, p.IsPasswordVisible())

	assert.False(t, p.IsRememberMeChecked())
	require.NoError(t, p.ClickRememberMe())
	assert.True(t, p.IsRememberMeChecked())

	assert.True(t, p.Header.IsComponentLoaded())
	assert.False(t, p.Header.IsUserLoggedIn())
	assert.True(t, p.Footer.IsNewsletterSignupAvailable())
}

func TestEnhancedLoginWithLanguage(t *testing.T) {
	cfg, _ := newTestConfig(t)
	p, err := NewEnhancedLoginPage(cfg)
	require.NoError(t, err)
	require.NoError(t, p.NavigateToLoginPage())

	dashboard, err := p.LoginWithLanguage("alice", "pw", "German")
	require.NoError(t, err)
	require.True(t, dashboard.IsLoaded())
	welcome, err := dashboard.WelcomeMessage()
	require.NoError(t, err)
	assert.Equal(t, "Willkommen, Alice!", welcome)
}

func TestEnhancedLoginSubmitWithEnter(t *testing.T) {
	cfg, _ := newTestConfig(t)
	p, err := NewEnhancedLoginPage(cfg)
	require.NoError(t, err)
	require.NoError(t, p.NavigateToLoginPage())

	dashboard, err := p.SubmitWithEnter("bob", "builder")
	require.NoError(t, err)
	assert.True(t, dashboard.IsLoaded())

	p2, err := NewEnhancedLoginPage(cfg)
	require.NoError(t, err)
	require.NoError(t, p2.NavigateToLoginPage())
	_, err = p2.SubmitWithEnter("bob", "nope")
	require.NoError(t, err)
	assert.True(t, p2.IsErrorMessageDisplayed())
}

func TestHeaderComponent(t *testing.T) {
	dashboard, b := openDashboard(t)
	header, err := NewHeaderComponent(dashboard.Config())
	require.NoError(t, err)
	require.NoError(t, header.WaitForComponentToLoad(testWait))

	assert.True(t, header.IsUserLoggedIn())
	assert.Equal(t, "Alice", header.UserName())
	assert.Equal(t, mockapp.NotificationCount, header.NotificationCount())

	crumbs, err := header.Breadcrumb()
	require.NoError(t, err)
	assert.Equal(t, "Home > Dashboard", crumbs)

	links, err := header.NavigationLinks()
	require.NoError(t, err)
	assert.Contains(t, links, "PomKit")
	assert.Contains(t, links, "Log out")

	search, err := header.SearchFromHeader("grid")
	require.NoError(t, err)
	assert.True(t, search.IsLoaded())
	assert.Equal(t, 1, search.ResultCount())

	home, err := header.ClickLogo()
	require.NoError(t, err)
	assert.True(t, home.IsLoaded())

	require.NoError(t, header.ClickNotifications())
	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Notifications - PomKit", title)

	require.NoError(t, header.ClickSettings())
	title, err = b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Settings - PomKit", title)

	login, err := header.Logout()
	require.NoError(t, err)
	assert.True(t, login.IsLoaded())
	header.RefreshComponent()
	assert.False(t, header.IsUserLoggedIn())
	assert.Equal(t, "", header.UserName())
}

func TestFooterComponent(t *testing.T) {
	login, b := openLoginPage(t)
	footer, err := NewFooterComponent(login.Config())
	require.NoError(t, err)
	assert.True(t, footer.IsComponentLoaded())

	copyright, err := footer.CopyrightText()
	require.NoError(t, err)
	assert.Contains(t, copyright, "PomKit Inc.")

	links, err := footer.FooterLinks()
	require.NoError(t, err)
	assert.Equal(t, mockapp.FooterLinks, links)

	assert.Equal(t, ContactDetails{
		Name:    "PomKit Inc.",
		Email:   "support@pomkit.test",
		Phone:   "+1 555 0100",
		Address: "1 Test Street, Springfield",
	}, footer.ContactDetails())

	require.NoError(t, footer.SubscribeToNewsletter("not-an-email"))
	message, err := footer.NewsletterMessage()
	require.NoError(t, err)
	assert.Equal(t, "Please enter a valid email address", message)

	require.NoError(t, footer.SubscribeToNewsletter("me@example.com"))
	message, err = footer.NewsletterMessage()
	require.NoError(t, err)
	assert.Equal(t, "Thanks for subscribing!", message)
	assert.True(t, login.IsLoaded())

	require.NoError(t, footer.ClickFooterLink("privacy policy"))
	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Privacy Policy - PomKit", title)
}

func TestNavigationComponent(t *testing.T) {
	dashboard, b := openDashboard(t)
	nav, err := NewNavigationComponent(dashboard.Config())
	require.NoError(t, err)
	require.True(t, nav.IsComponentLoaded())

	items, err := nav.Items()
	require.NoError(t, err)
	assert.Equal(t, []string{"Dashboard", "Search", "Reports", "Settings"}, items)
	assert.Equal(t, "Dashboard", nav.ActiveItem())
	assert.True(t, nav.IsItemVisible("reports"))
	assert.False(t, nav.IsItemVisible("Admin"))

	require.NoError(t, nav.ToggleMobileNavigation())
	assert.False(t, nav.IsMenuExpanded())
	assert.False(t, nav.IsItemVisible("Reports"))
	require.NoError(t, nav.ToggleMobileNavigation())
	assert.True(t, nav.IsMenuExpanded())

	require.NoError(t, nav.NavigateTo("Reports"))
	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Reports - PomKit", title)

	search, err := nav.SearchFromNavigation("hopper")
	require.NoError(t, err)
	assert.True(t, search.IsLoaded())
	assert.Equal(t, "Search", nav.ActiveItem())
	results, err := search.Results()
	require.NoError(t, err)
	assert.Equal(t, []string{"Grace Hopper"}, results)
}
