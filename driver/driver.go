// Package driver defines the browser-automation surface used by page objects, and manages the
// lifecycle of driver sessions: construction per browser, common configuration, and a registry
// that keeps at most one live session per execution context.
package driver

import (
	"fmt"
	"time"

	"github.com/pomkit/pom-test-harness/framework"
)

// Driver is a live browser session. Implementations are not required to be safe for concurrent
// use; a Driver belongs to one execution context.
type Driver interface {
	Get(url string) error
	CurrentURL() (string, error)
	Title() (string, error)
	Refresh() error
	Back() error

	FindElement(by By) (Element, error)
	FindElements(by By) ([]Element, error)

	// ExecuteScript runs JavaScript in the page. Elements may be passed in args.
	ExecuteScript(script string, args []interface{}) (interface{}, error)

	// Screenshot returns a PNG of the current viewport.
	Screenshot() ([]byte, error)

	// KeyDown and KeyUp press and release keys, such as KeyControl, without targeting an element.
	KeyDown(keys string) error
	KeyUp(keys string) error

	SetImplicitWaitTimeout(timeout time.Duration) error
	SetPageLoadTimeout(timeout time.Duration) error
	MaximizeWindow() error

	// Capabilities lists the optional features this session supports.
	Capabilities() framework.Capabilities

	// SessionID identifies the session in logs.
	SessionID() string

	// Close closes the active window but keeps the session.
	Close() error

	// Quit ends the session and releases the browser.
	Quit() error
}

// Element is a handle to a node in the driver's current document. Operations on an element whose
// node has been detached, or whose document has been replaced by navigation, fail with an error
// satisfying errors.Is(err, ErrStaleElement).
type Element interface {
	Click() error
	DoubleClick() error
	RightClick() error
	MoveTo() error
	SendKeys(keys string) error
	Clear() error

	Text() (string, error)
	TagName() (string, error)
	GetAttribute(name string) (string, error)
	CSSProperty(name string) (string, error)

	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)

	Location() (Point, error)
	Size() (Size, error)

	FindElement(by By) (Element, error)
	FindElements(by By) ([]Element, error)

	// Screenshot returns a PNG of just this element.
	Screenshot() ([]byte, error)
}

type Point struct {
	X, Y int
}

type Size struct {
	Width, Height int
}

// Strategy is a WebDriver locator strategy. The values are the ones used on the wire.
type Strategy string

const (
	ByID              Strategy = "id"
	ByXPath           Strategy = "xpath"
	ByCSSSelector     Strategy = "css selector"
	ByClassName       Strategy = "class name"
	ByName            Strategy = "name"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
	ByTagName         Strategy = "tag name"
)

// By locates elements.
type By struct {
	Strategy Strategy
	Value    string
}

func ID(id string) By { return By{ByID, id} }
func XPath(expr string) By { return By{ByXPath, expr} }
func CSS(selector string) By { return By{ByCSSSelector, selector} }
func ClassName(name string) By { return By{ByClassName, name} }
func Name(name string) By { return By{ByName, name} }
func LinkText(text string) By { return By{ByLinkText, text} }
func PartialLinkText(text string) By { return By{ByPartialLinkText, text} }
func TagName(name string) By { return By{ByTagName, name} }

func (b By) String() string {
	return fmt.Sprintf("By.%s: %s", b.Strategy, b.Value)
}

// Special keys for SendKeys, KeyDown and KeyUp, as defined by the WebDriver protocol.
const (
	KeyBackspace = "\ue003"
	KeyTab       = "\ue004"
	KeyEnter     = "\ue007"
	KeyShift     = "\ue008"
	KeyControl   = "\ue009"
	KeyEscape    = "\ue00c"
	KeyDelete    = "\ue017"
)
