// Package pom is the page-object core: a lazily resolved element type, bounded wait predicates,
// the shared action contract, and the base types that concrete pages and components embed.
package pom

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/log"
)

// ErrNilDriver is returned by page and component constructors given no driver.
var ErrNilDriver = errors.New("page objects require a driver")

// Config is what every page and component is built from.
type Config struct {
	Driver          driver.Driver
	BaseURL         string
	ExplicitWait    time.Duration
	PageLoadTimeout time.Duration
	Logger          *log.Logger
}

// ConfigFromSettings combines resolved settings with a live driver.
func ConfigFromSettings(d driver.Driver, settings config.Settings, logger *log.Logger) Config {
	return Config{
		Driver:          d,
		BaseURL:         settings.BaseURL,
		ExplicitWait:    settings.ExplicitWait,
		PageLoadTimeout: settings.PageLoadTimeout,
		Logger:          logger,
	}
}

// URL joins a path onto the base URL.
func (c Config) URL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Actions is the interaction contract shared by pages and components.
type Actions interface {
	Click(el *Element) error
	Type(el *Element, text string) error
	ClearField(el *Element) error
	GetText(el *Element) (string, error)
	IsDisplayed(el *Element) bool
	WaitClickable(el *Element) (driver.Element, error)
	WaitVisible(el *Element) (driver.Element, error)
	TakeScreenshot() []byte
}

// Page is implemented by concrete pages.
type Page interface {
	Actions
	IsLoaded() bool
}

// Component is implemented by concrete components.
type Component interface {
	Actions
	IsComponentLoaded() bool
}

// base carries the fields and default action implementations shared by BasePage and BaseComponent.
type base struct {
	config   Config
	elements *ElementFactory
	logger   *log.Logger
	category string
}

func newBase(cfg Config, category string) (base, error) {
	if cfg.Driver == nil {
		return base{}, ErrNilDriver
	}
	if cfg.ExplicitWait <= 0 {
		cfg.ExplicitWait = config.DefaultExplicitWait
	}
	if cfg.PageLoadTimeout <= 0 {
		cfg.PageLoadTimeout = config.DefaultPageLoadTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return base{config: cfg, elements: NewElementFactory(cfg.Driver), logger: logger, category: category}, nil
}

func (b *base) Driver() driver.Driver { return b.config.Driver }

func (b *base) Config() Config { return b.config }

func (b *base) Logger() *log.Logger { return b.logger }

func (b *base) ExplicitWait() time.Duration { return b.config.ExplicitWait }

// Find declares an element of this page or component.
func (b *base) Find(name string, by driver.By) *Element {
	return b.elements.Find(name, by)
}

// fail logs a failed action and returns it as an ActionFailedError naming the element.
func (b *base) fail(el *Element, action string, err error) error {
	b.logger.Errorf(b.category, "Failed to %s %s: %s", action, el.Name(), err)
	return actionFailed(el.Name(), action, err)
}

func (b *base) Click(el *Element) error {
	if _, err := b.WaitClickable(el); err != nil {
		return b.fail(el, "click", err)
	}
	if err := el.Do(driver.Element.Click); err != nil {
		return b.fail(el, "click", err)
	}
	b.logger.Infof(b.category, "Clicked %s", el.Name())
	return nil
}

func (b *base) Type(el *Element, text string) error {
	if _, err := b.WaitVisible(el); err != nil {
		return b.fail(el, "type into", err)
	}
	err := el.Do(func(found driver.Element) error {
		if err := found.Clear(); err != nil {
			return err
		}
		return found.SendKeys(text)
	})
	if err != nil {
		return b.fail(el, "type into", err)
	}
	b.logger.Infof(b.category, "Typed into %s", el.Name())
	return nil
}

func (b *base) ClearField(el *Element) error {
	if _, err := b.WaitVisible(el); err != nil {
		return b.fail(el, "clear", err)
	}
	if err := el.Do(driver.Element.Clear); err != nil {
		return b.fail(el, "clear", err)
	}
	b.logger.Infof(b.category, "Cleared %s", el.Name())
	return nil
}

func (b *base) GetText(el *Element) (string, error) {
	if _, err := b.WaitVisible(el); err != nil {
		return "", b.fail(el, "get text of", err)
	}
	var text string
	err := el.Do(func(found driver.Element) error {
		var err error
		text, err = found.Text()
		return err
	})
	if err != nil {
		return "", b.fail(el, "get text of", err)
	}
	text = strings.TrimSpace(text)
	b.logger.Infof(b.category, "Text of %s is %q", el.Name(), text)
	return text, nil
}

// IsDisplayed does not wait; any error counts as not displayed.
func (b *base) IsDisplayed(el *Element) bool {
	if el == nil {
		return false
	}
	shown := false
	err := el.Do(func(found driver.Element) error {
		var err error
		shown, err = found.IsDisplayed()
		return err
	})
	return err == nil && shown
}

func (b *base) WaitClickable(el *Element) (driver.Element, error) {
	return WaitFor(el, Clickable, b.config.ExplicitWait)
}

func (b *base) WaitVisible(el *Element) (driver.Element, error) {
	return WaitFor(el, Visible, b.config.ExplicitWait)
}

// TakeScreenshot returns a PNG of the page, or nil if the driver could not take one.
func (b *base) TakeScreenshot() []byte {
	png, err := b.config.Driver.Screenshot()
	if err != nil {
		b.logger.Errorf(b.category, "Failed to take screenshot: %s", err)
		return nil
	}
	return png
}

// BasePage is embedded by concrete pages.
type BasePage struct {
	base
	name string
}

func NewBasePage(cfg Config, name string) (BasePage, error) {
	b, err := newBase(cfg, name)
	if err != nil {
		return BasePage{}, err
	}
	return BasePage{base: b, name: name}, nil
}

func (p *BasePage) PageName() string { return p.name }

func (p *BasePage) PageTitle() (string, error) {
	return p.config.Driver.Title()
}

func (p *BasePage) CurrentURL() (string, error) {
	return p.config.Driver.CurrentURL()
}

// NavigateTo loads url, resolving it against the base URL if it is a path.
func (p *BasePage) NavigateTo(url string) error {
	if strings.HasPrefix(url, "/") {
		url = p.config.URL(url)
	}
	p.logger.Infof(p.category, "Navigating to %s", url)
	if err := p.config.Driver.Get(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *BasePage) Refresh() error {
	return p.config.Driver.Refresh()
}

// RequireLoaded returns a PageNotLoadedError unless page.IsLoaded().
func RequireLoaded(page Page, name string) error {
	if page.IsLoaded() {
		return nil
	}
	err := &PageNotLoadedError{Page: name}
	if p, ok := page.(interface{ CurrentURL() (string, error) }); ok {
		err.URL, _ = p.CurrentURL()
	}
	return err
}

// WaitUntilLoaded polls page.IsLoaded until it holds or the timeout elapses.
func WaitUntilLoaded(page Page, name string, timeout time.Duration) error {
	if pollUntil(page.IsLoaded, timeout) {
		return nil
	}
	return RequireLoaded(page, name)
}

// BaseComponent is embedded by concrete components.
type BaseComponent struct {
	base
	name string
	self Component
}

// NewBaseComponent creates the base for self, which is the concrete component that embeds it and
// whose IsComponentLoaded is used by WaitForComponentToLoad.
func NewBaseComponent(cfg Config, name string, self Component) (BaseComponent, error) {
	b, err := newBase(cfg, name)
	if err != nil {
		return BaseComponent{}, err
	}
	return BaseComponent{base: b, name: name, self: self}, nil
}

func (c *BaseComponent) ComponentName() string { return c.name }

// IsElementPresent reports whether by matches anything right now.
func (c *BaseComponent) IsElementPresent(by driver.By) bool {
	found, err := c.config.Driver.FindElements(by)
	return err == nil && len(found) > 0
}

// WaitForComponentToLoad polls IsComponentLoaded until it holds or the timeout elapses.
func (c *BaseComponent) WaitForComponentToLoad(timeout time.Duration) error {
	if c.self == nil {
		return fmt.Errorf("component %s has no loaded predicate", c.name)
	}
	if pollUntil(c.self.IsComponentLoaded, timeout) {
		return nil
	}
	return &PageNotLoadedError{Page: c.name}
}

// RefreshComponent forgets every resolved element so that each is looked up again on next use.
func (c *BaseComponent) RefreshComponent() {
	c.elements.Invalidate()
	c.logger.Debugf(c.category, "Refreshed component %s", c.name)
}
