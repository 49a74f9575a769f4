package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/log"
)

// SeleniumLauncher starts real browsers through the WebDriver protocol.
//
// If a BrowserOptions.RemoteURL is given, sessions are opened on that endpoint, which may be a
// Selenium Grid or a standalone driver. Otherwise the launcher looks for the browser's driver
// executable on PATH, starts it on a free local port, and stops it when the session quits.
type SeleniumLauncher struct {
	Logger *log.Logger

	// DriverPaths overrides the executable used for a browser name.
	DriverPaths map[string]string
}

var defaultDriverExecutables = map[string]string{ //nolint:gochecknoglobals
	BrowserChrome:  "chromedriver",
	BrowserEdge:    "msedgedriver",
	BrowserFirefox: "geckodriver",
	BrowserSafari:  "safaridriver",
}

func (l *SeleniumLauncher) Launch(ctx context.Context, opts BrowserOptions) (Driver, error) {
	caps := selenium.Capabilities{"browserName": opts.Browser}
	switch opts.Browser {
	case BrowserChrome:
		caps.AddChrome(chrome.Capabilities{Args: opts.Args})
	case BrowserEdge:
		caps["browserName"] = "MicrosoftEdge"
		caps["ms:edgeOptions"] = map[string]interface{}{"args": opts.Args}
	case BrowserFirefox:
		caps.AddFirefox(firefox.Capabilities{Args: opts.Args})
	}

	if opts.RemoteURL != "" {
		wd, err := selenium.NewRemote(caps, opts.RemoteURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", opts.RemoteURL, err)
		}
		return &seleniumDriver{wd: wd}, nil
	}

	service, url, err := l.startService(opts.Browser)
	if err != nil {
		return nil, err
	}
	wd, err := selenium.NewRemote(caps, url)
	if err != nil {
		_ = service.Stop()
		return nil, fmt.Errorf("starting %s session: %w", opts.Browser, err)
	}
	return &seleniumDriver{wd: wd, service: service}, nil
}

func (l *SeleniumLauncher) startService(browser string) (*selenium.Service, string, error) {
	if browser == BrowserSafari {
		return nil, "", errors.New("safari requires webdriver.url to point at a running safaridriver")
	}
	executable := l.DriverPaths[browser]
	if executable == "" {
		executable = defaultDriverExecutables[browser]
	}
	path, err := exec.LookPath(executable)
	if err != nil {
		return nil, "", fmt.Errorf("driver executable %q not found: %w", executable, err)
	}
	port, err := freePort()
	if err != nil {
		return nil, "", err
	}
	if l.Logger != nil {
		l.Logger.Debugf(logCategory, "Starting %s on port %d", path, port)
	}

	var service *selenium.Service
	if browser == BrowserFirefox {
		service, err = selenium.NewGeckoDriverService(path, port)
	} else {
		service, err = selenium.NewChromeDriverService(path, port)
	}
	if err != nil {
		return nil, "", fmt.Errorf("starting %s: %w", path, err)
	}
	url := fmt.Sprintf("http://localhost:%d", port)
	if browser != BrowserFirefox {
		url += "/wd/hub"
	}
	return service, url, nil
}

func freePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

type seleniumDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
}

func (d *seleniumDriver) Get(url string) error { return mapError(d.wd.Get(url)) }
func (d *seleniumDriver) CurrentURL() (string, error) {
	s, err := d.wd.CurrentURL()
	return s, mapError(err)
}

func (d *seleniumDriver) Title() (string, error) {
	s, err := d.wd.Title()
	return s, mapError(err)
}

func (d *seleniumDriver) Refresh() error { return mapError(d.wd.Refresh()) }
func (d *seleniumDriver) Back() error { return mapError(d.wd.Back()) }
func (d *seleniumDriver) Screenshot() ([]byte, error) {
	b, err := d.wd.Screenshot()
	return b, mapError(err)
}

func (d *seleniumDriver) KeyDown(keys string) error { return mapError(d.wd.KeyDown(keys)) }
func (d *seleniumDriver) KeyUp(keys string) error { return mapError(d.wd.KeyUp(keys)) }
func (d *seleniumDriver) MaximizeWindow() error { return mapError(d.wd.MaximizeWindow("")) }
func (d *seleniumDriver) SessionID() string { return d.wd.SessionID() }
func (d *seleniumDriver) Close() error { return mapError(d.wd.Close()) }

func (d *seleniumDriver) SetImplicitWaitTimeout(timeout time.Duration) error {
	return mapError(d.wd.SetImplicitWaitTimeout(timeout))
}

func (d *seleniumDriver) SetPageLoadTimeout(timeout time.Duration) error {
	return mapError(d.wd.SetPageLoadTimeout(timeout))
}

// SeleniumCapabilities is what every WebDriver session supports.
func SeleniumCapabilities() framework.Capabilities {
	return framework.Capabilities{
		framework.CapabilityScreenshots,
		framework.CapabilityScripting,
		framework.CapabilityKeyboard,
		framework.CapabilityWindowManagement,
	}
}

func (d *seleniumDriver) Capabilities() framework.Capabilities { return SeleniumCapabilities() }

func (d *seleniumDriver) FindElement(by By) (Element, error) {
	we, err := d.wd.FindElement(string(by.Strategy), by.Value)
	if err != nil {
		return nil, mapError(err)
	}
	return &seleniumElement{we: we, wd: d.wd}, nil
}

func (d *seleniumDriver) FindElements(by By) ([]Element, error) {
	wes, err := d.wd.FindElements(string(by.Strategy), by.Value)
	if err != nil {
		return nil, mapError(err)
	}
	return wrapElements(wes, d.wd), nil
}

func (d *seleniumDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	converted := make([]interface{}, len(args))
	for i, a := range args {
		if e, ok := a.(*seleniumElement); ok {
			converted[i] = e.we
		} else {
			converted[i] = a
		}
	}
	result, err := d.wd.ExecuteScript(script, converted)
	return result, mapError(err)
}

func (d *seleniumDriver) Quit() error {
	err := d.wd.Quit()
	if d.service != nil {
		if stopErr := d.service.Stop(); err == nil {
			err = stopErr
		}
	}
	return mapError(err)
}

type seleniumElement struct {
	we selenium.WebElement
	wd selenium.WebDriver
}

func wrapElements(wes []selenium.WebElement, wd selenium.WebDriver) []Element {
	ret := make([]Element, 0, len(wes))
	for _, we := range wes {
		ret = append(ret, &seleniumElement{we: we, wd: wd})
	}
	return ret
}

func (e *seleniumElement) Click() error { return mapError(e.we.Click()) }
func (e *seleniumElement) SendKeys(keys string) error { return mapError(e.we.SendKeys(keys)) }
func (e *seleniumElement) Clear() error { return mapError(e.we.Clear()) }
func (e *seleniumElement) MoveTo() error { return mapError(e.we.MoveTo(0, 0)) }

func (e *seleniumElement) DoubleClick() error {
	if err := e.MoveTo(); err != nil {
		return err
	}
	return mapError(e.wd.DoubleClick())
}

func (e *seleniumElement) RightClick() error {
	if err := e.MoveTo(); err != nil {
		return err
	}
	return mapError(e.wd.Click(selenium.RightButton))
}

func (e *seleniumElement) Text() (string, error) {
	s, err := e.we.Text()
	return s, mapError(err)
}

func (e *seleniumElement) TagName() (string, error) {
	s, err := e.we.TagName()
	return s, mapError(err)
}

func (e *seleniumElement) GetAttribute(name string) (string, error) {
	s, err := e.we.GetAttribute(name)
	return s, mapError(err)
}

func (e *seleniumElement) CSSProperty(name string) (string, error) {
	s, err := e.we.CSSProperty(name)
	return s, mapError(err)
}

func (e *seleniumElement) IsDisplayed() (bool, error) {
	b, err := e.we.IsDisplayed()
	return b, mapError(err)
}

func (e *seleniumElement) IsEnabled() (bool, error) {
	b, err := e.we.IsEnabled()
	return b, mapError(err)
}

func (e *seleniumElement) IsSelected() (bool, error) {
	b, err := e.we.IsSelected()
	return b, mapError(err)
}

func (e *seleniumElement) Location() (Point, error) {
	p, err := e.we.Location()
	if err != nil {
		return Point{}, mapError(err)
	}
	return Point{X: p.X, Y: p.Y}, nil
}

func (e *seleniumElement) Size() (Size, error) {
	s, err := e.we.Size()
	if err != nil {
		return Size{}, mapError(err)
	}
	return Size{Width: s.Width, Height: s.Height}, nil
}

func (e *seleniumElement) FindElement(by By) (Element, error) {
	we, err := e.we.FindElement(string(by.Strategy), by.Value)
	if err != nil {
		return nil, mapError(err)
	}
	return &seleniumElement{we: we, wd: e.wd}, nil
}

func (e *seleniumElement) FindElements(by By) ([]Element, error) {
	wes, err := e.we.FindElements(string(by.Strategy), by.Value)
	if err != nil {
		return nil, mapError(err)
	}
	return wrapElements(wes, e.wd), nil
}

func (e *seleniumElement) Screenshot() ([]byte, error) {
	b, err := e.we.Screenshot(true)
	return b, mapError(err)
}

// mapError translates WebDriver error codes into this package's sentinel errors, keeping the
// original error text.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var wdErr *selenium.Error
	if !errors.As(err, &wdErr) {
		return err
	}
	switch strings.ToLower(wdErr.Err) {
	case "no such element":
		return fmt.Errorf("%w: %s", ErrNoSuchElement, wdErr.Message)
	case "stale element reference":
		return fmt.Errorf("%w: %s", ErrStaleElement, wdErr.Message)
	case "element not interactable", "invalid element state":
		return fmt.Errorf("%w: %s", ErrElementNotInteractable, wdErr.Message)
	}
	return err
}
