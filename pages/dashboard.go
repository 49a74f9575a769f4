package pages

import (
	"strconv"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
)

const DashboardPath = "/dashboard"

type DashboardPage struct {
	pom.BasePage
	welcomeMessage    *pom.Element
	userProfile       *pom.Element
	logoutButton      *pom.Element
	searchBox         *pom.Element
	searchButton      *pom.Element
	dashboardTitle    *pom.Element
	notifications     *pom.Element
	notificationCount *pom.Element
	settingsLink      *pom.Element
	navigationLinks   *pom.Element
	widgets           *pom.Element
}

func NewDashboardPage(cfg pom.Config) (*DashboardPage, error) {
	base, err := pom.NewBasePage(cfg, "DashboardPage")
	if err != nil {
		return nil, err
	}
	p := &DashboardPage{BasePage: base}
	p.welcomeMessage = p.Find("Welcome Message", driver.ClassName("welcome-message"))
	p.userProfile = p.Find("User Profile", driver.ID("user-profile"))
	p.logoutButton = p.Find("Logout Button", driver.ID("logout-button"))
	p.searchBox = p.Find("Search Box", driver.ClassName("search-box"))
	p.searchButton = p.Find("Search Button", driver.ID("search-button"))
	p.dashboardTitle = p.Find("Dashboard Title", driver.ID("dashboard-title"))
	p.notifications = p.Find("Notifications", driver.ID("notifications"))
	p.notificationCount = p.Find("Notification Count", driver.ID("notification-count"))
	p.settingsLink = p.Find("Settings Link", driver.ID("settings-link"))
	p.navigationLinks = p.Find("Navigation Links", driver.ClassName("nav-link"))
	p.widgets = p.Find("Widgets", driver.ClassName("widget"))
	return p, nil
}

func (p *DashboardPage) IsLoaded() bool {
	return p.IsDisplayed(p.welcomeMessage) && p.IsDisplayed(p.userProfile) && p.IsDisplayed(p.logoutButton)
}

func (p *DashboardPage) WelcomeMessage() (string, error) {
	return p.GetText(p.welcomeMessage)
}

func (p *DashboardPage) DashboardTitle() (string, error) {
	return p.GetText(p.dashboardTitle)
}

func (p *DashboardPage) Search(term string) (*SearchPage, error) {
	p.Logger().Infof(p.PageName(), "Searching for %q", term)
	if err := p.Type(p.searchBox, term); err != nil {
		return nil, err
	}
	if err := p.Click(p.searchButton); err != nil {
		return nil, err
	}
	return NewSearchPage(p.Config())
}

func (p *DashboardPage) Logout() (*LoginPage, error) {
	p.Logger().Infof(p.PageName(), "Logging out")
	if err := p.Click(p.logoutButton); err != nil {
		return nil, err
	}
	return NewLoginPage(p.Config())
}

// NavigationLinks returns the text of every displayed navigation link.
func (p *DashboardPage) NavigationLinks() ([]string, error) {
	return visibleTexts(p.navigationLinks)
}

// ClickNavigationLink clicks the navigation link whose text is linkText, ignoring case.
func (p *DashboardPage) ClickNavigationLink(linkText string) error {
	p.Logger().Infof(p.PageName(), "Clicking navigation link %s", linkText)
	return clickLinkByText(p.navigationLinks, linkText)
}

// NotificationCount returns the unread count, or 0 if it is not shown or not a number.
func (p *DashboardPage) NotificationCount() int {
	if !p.IsDisplayed(p.notifications) {
		return 0
	}
	text, err := p.GetText(p.notificationCount)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

func (p *DashboardPage) WidgetCount() int {
	widgets, err := p.widgets.All()
	if err != nil {
		return 0
	}
	return len(widgets)
}

func (p *DashboardPage) ClickSettings() error {
	return p.Click(p.settingsLink)
}

// visibleTexts returns the trimmed text of every displayed element matching el's locator.
func visibleTexts(el *pom.Element) ([]string, error) {
	found, err := el.All()
	if err != nil {
		return nil, err
	}
	var ret []string
	for _, f := range found {
		shown, err := f.IsDisplayed()
		if err != nil {
			return nil, err
		}
		if !shown {
			continue
		}
		text, err := f.Text()
		if err != nil {
			return nil, err
		}
		ret = append(ret, strings.TrimSpace(text))
	}
	return ret, nil
}
