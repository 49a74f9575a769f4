package pages

import (
	"strconv"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/pom/wrappers"
)

// HeaderComponent is the site header shown on every screen. The user menu is only displayed to
// signed-in users.
type HeaderComponent struct {
	pom.BaseComponent
	logo              *wrappers.Button
	userMenu          *pom.Element
	userName          *pom.Element
	logoutLink        *wrappers.Button
	settingsLink      *wrappers.Button
	searchField       *wrappers.TextBox
	notificationsIcon *wrappers.Button
	notificationBadge *pom.Element
	breadcrumbItems   *pom.Element
	headerLinks       *pom.Element
}

func NewHeaderComponent(cfg pom.Config) (*HeaderComponent, error) {
	c := &HeaderComponent{}
	base, err := pom.NewBaseComponent(cfg, "HeaderComponent", c)
	if err != nil {
		return nil, err
	}
	c.BaseComponent = base
	d, logger, wait := c.Driver(), c.Logger(), c.ExplicitWait()
	c.logo = wrappers.NewButton(c.Find("Logo", driver.ID("logo")), d, "Logo", logger, wait)
	c.userMenu = c.Find("User Menu", driver.ID("user-menu"))
	c.userName = c.Find("User Name", driver.ID("user-name"))
	c.logoutLink = wrappers.NewButton(c.Find("Logout Link", driver.ID("logout-link")), d, "Logout Link", logger, wait)
	c.settingsLink = wrappers.NewButton(c.Find("Settings Link", driver.CSS("#user-menu .settings-link")),
		d, "Settings Link", logger, wait)
	c.searchField = wrappers.NewTextBox(c.Find("Header Search", driver.ID("search-header")), d, "Header Search", logger, wait)
	c.notificationsIcon = wrappers.NewButton(c.Find("Notifications Icon", driver.ID("notifications-icon")),
		d, "Notifications Icon", logger, wait)
	c.notificationBadge = c.Find("Notification Badge", driver.ID("notification-badge"))
	c.breadcrumbItems = c.Find("Breadcrumb", driver.CSS("#breadcrumb .breadcrumb-item"))
	c.headerLinks = c.Find("Header Links", driver.CSS("#site-header a"))
	return c, nil
}

func (c *HeaderComponent) IsComponentLoaded() bool {
	return c.logo.IsDisplayed()
}

func (c *HeaderComponent) ClickLogo() (*DashboardPage, error) {
	if err := c.logo.Click(); err != nil {
		return nil, err
	}
	return NewDashboardPage(c.Config())
}

func (c *HeaderComponent) Logout() (*LoginPage, error) {
	if err := c.logoutLink.Click(); err != nil {
		return nil, err
	}
	return NewLoginPage(c.Config())
}

func (c *HeaderComponent) ClickSettings() error {
	return c.settingsLink.Click()
}

func (c *HeaderComponent) ClickNotifications() error {
	return c.notificationsIcon.Click()
}

func (c *HeaderComponent) SearchFromHeader(term string) (*SearchPage, error) {
	if err := c.searchField.Type(term); err != nil {
		return nil, err
	}
	if err := c.searchField.PressEnter(); err != nil {
		return nil, err
	}
	return NewSearchPage(c.Config())
}

// UserName returns the signed-in user's display name, or "" when nobody is signed in.
func (c *HeaderComponent) UserName() string {
	if !c.IsUserLoggedIn() {
		return ""
	}
	return pom.ElementTextSafely(c.userName)
}

// NotificationCount returns the badge count, or 0 if there is no badge.
func (c *HeaderComponent) NotificationCount() int {
	if !c.IsDisplayed(c.notificationBadge) {
		return 0
	}
	n, err := strconv.Atoi(pom.ElementTextSafely(c.notificationBadge))
	if err != nil {
		return 0
	}
	return n
}

func (c *HeaderComponent) IsUserLoggedIn() bool {
	return c.IsDisplayed(c.userMenu)
}

// NavigationLinks returns the text of every displayed link in the header.
func (c *HeaderComponent) NavigationLinks() ([]string, error) {
	return visibleTexts(c.headerLinks)
}

// Breadcrumb returns the breadcrumb trail joined with " > ".
func (c *HeaderComponent) Breadcrumb() (string, error) {
	items, err := visibleTexts(c.breadcrumbItems)
	if err != nil {
		return "", err
	}
	return strings.Join(items, " > "), nil
}
