package pages

import (
	"fmt"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/pom"
	"github.com/pomkit/pom-test-harness/pom/wrappers"
)

// NavigationComponent is the main menu shown to signed-in users.
type NavigationComponent struct {
	pom.BaseComponent
	navigation   *pom.Element
	navLinks     *pom.Element
	activeItem   *pom.Element
	searchInput  *wrappers.TextBox
	searchButton *wrappers.Button
	mobileToggle *wrappers.Button
	navItems     *pom.Element
}

func NewNavigationComponent(cfg pom.Config) (*NavigationComponent, error) {
	c := &NavigationComponent{}
	base, err := pom.NewBaseComponent(cfg, "NavigationComponent", c)
	if err != nil {
		return nil, err
	}
	c.BaseComponent = base
	d, logger, wait := c.Driver(), c.Logger(), c.ExplicitWait()
	c.navigation = c.Find("Main Navigation", driver.ID("main-navigation"))
	c.navLinks = c.Find("Navigation Links", driver.CSS("#nav-items .nav-item a.nav-link"))
	c.activeItem = c.Find("Active Navigation Item", driver.CSS("#nav-items .active-nav-item"))
	c.searchInput = wrappers.NewTextBox(c.Find("Navigation Search", driver.ID("nav-search-input")),
		d, "Navigation Search", logger, wait)
	c.searchButton = wrappers.NewButton(c.Find("Navigation Search Button", driver.ID("nav-search-button")),
		d, "Navigation Search Button", logger, wait)
	c.mobileToggle = wrappers.NewButton(c.Find("Mobile Navigation Toggle", driver.ID("mobile-nav-toggle")),
		d, "Mobile Navigation Toggle", logger, wait)
	c.navItems = c.Find("Navigation Items", driver.ID("nav-items"))
	return c, nil
}

func (c *NavigationComponent) IsComponentLoaded() bool {
	return c.IsDisplayed(c.navigation)
}

// NavigateTo follows the menu item whose text is linkText, ignoring case.
func (c *NavigationComponent) NavigateTo(linkText string) error {
	c.Logger().Infof(c.ComponentName(), "Navigating to %s", linkText)
	return clickLinkByText(c.navLinks, linkText)
}

// Items returns the text of every displayed menu item.
func (c *NavigationComponent) Items() ([]string, error) {
	return visibleTexts(c.navLinks)
}

// ActiveItem returns the text of the highlighted menu item, or "" if none is highlighted.
func (c *NavigationComponent) ActiveItem() string {
	return pom.ElementTextSafely(c.activeItem)
}

func (c *NavigationComponent) IsItemVisible(linkText string) bool {
	items, err := c.Items()
	if err != nil {
		return false
	}
	for _, item := range items {
		if strings.EqualFold(item, linkText) {
			return true
		}
	}
	return false
}

func (c *NavigationComponent) SearchFromNavigation(term string) (*SearchPage, error) {
	if err := c.searchInput.Type(term); err != nil {
		return nil, err
	}
	if err := c.searchButton.Click(); err != nil {
		return nil, err
	}
	return NewSearchPage(c.Config())
}

// ToggleMobileNavigation shows or hides the menu items, as the collapsed mobile menu does.
func (c *NavigationComponent) ToggleMobileNavigation() error {
	return c.mobileToggle.Click()
}

func (c *NavigationComponent) IsMenuExpanded() bool {
	return c.IsDisplayed(c.navItems)
}

// clickLinkByText clicks the first displayed element matching el whose text is linkText,
// ignoring case.
func clickLinkByText(el *pom.Element, linkText string) error {
	action := "click link " + linkText + " in"
	found, err := el.All()
	if err != nil {
		return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
	}
	for _, f := range found {
		shown, err := f.IsDisplayed()
		if err != nil || !shown {
			continue
		}
		text, err := f.Text()
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(text), linkText) {
			if err := f.Click(); err != nil {
				return &pom.ActionFailedError{Element: el.Name(), Action: action, Cause: err}
			}
			return nil
		}
	}
	return &pom.ActionFailedError{Element: el.Name(), Action: action,
		Cause: fmt.Errorf("%w: no link with text %q", driver.ErrNoSuchElement, linkText)}
}
