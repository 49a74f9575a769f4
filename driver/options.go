package driver

import "strings"

// Browser names recognised by the Factory.
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
	BrowserEdge    = "edge"
	BrowserSafari  = "safari"
)

// SupportedBrowsers lists the names accepted by Factory.Create.
var SupportedBrowsers = []string{BrowserChrome, BrowserFirefox, BrowserEdge, BrowserSafari} //nolint:gochecknoglobals

// chromiumHardeningArgs are passed to every Chromium-family browser.
var chromiumHardeningArgs = []string{ //nolint:gochecknoglobals
	"--disable-web-security",
	"--disable-features=VizDisplayCompositor",
	"--disable-extensions",
	"--disable-plugins",
	"--disable-images",
	"--disable-popup-blocking",
	"--disable-translate",
	"--disable-default-apps",
	"--no-sandbox",
	"--disable-dev-shm-usage",
}

// BrowserOptions is what a Launcher needs to start one browser session.
type BrowserOptions struct {
	// Browser is one of the Browser* constants.
	Browser string

	// Headless is the configured value; Args already reflects it where the browser supports it.
	Headless bool

	// Args are command-line arguments for the browser binary.
	Args []string

	// RemoteURL, if set, is the address of an existing WebDriver endpoint.
	RemoteURL string
}

// NewBrowserOptions builds the launch options for a browser name. The name is matched without
// regard to case or surrounding whitespace; an unknown name returns ErrUnsupportedBrowser.
func NewBrowserOptions(browser string, headless bool, remoteURL string) (BrowserOptions, error) {
	name := strings.ToLower(strings.TrimSpace(browser))
	opts := BrowserOptions{Browser: name, Headless: headless, RemoteURL: remoteURL}
	switch name {
	case BrowserChrome, BrowserEdge:
		opts.Args = append(opts.Args, chromiumHardeningArgs...)
		if headless {
			opts.Args = append(opts.Args, "--headless")
		}
	case BrowserFirefox:
		if headless {
			opts.Args = append(opts.Args, "-headless")
		}
	case BrowserSafari:
	default:
		return BrowserOptions{}, ErrUnsupportedBrowser
	}
	return opts, nil
}
