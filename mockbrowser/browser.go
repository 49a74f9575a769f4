package mockbrowser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
)

// DefaultBaseURL is the origin used for relative navigation when no base URL is configured.
const DefaultBaseURL = "http://app.test"

const viewportHeight = 800

var (
	// ErrSessionClosed is returned by every operation after Quit.
	ErrSessionClosed = errors.New("invalid session id")

	// ErrNoSuchWindow is returned by page operations after Close.
	ErrNoSuchWindow = errors.New("no such window")

	// ErrUnsupported is returned for operations outside the browser's capabilities, and for
	// scripts it does not recognise.
	ErrUnsupported = errors.New("unsupported operation")
)

// Option configures a Browser.
type Option func(*Browser)

// WithBaseURL sets the origin that relative URLs are resolved against before the first page load.
func WithBaseURL(base string) Option {
	return func(b *Browser) {
		if u, err := url.Parse(base); err == nil {
			b.base = u
		}
	}
}

// WithCapabilities replaces the default capability set. Without CapabilityScreenshots,
// Screenshot fails; without CapabilityScripting, ExecuteScript fails.
func WithCapabilities(caps framework.Capabilities) Option {
	return func(b *Browser) { b.caps = caps }
}

// DefaultCapabilities is what a Browser supports unless WithCapabilities says otherwise.
func DefaultCapabilities() framework.Capabilities {
	return framework.Capabilities{
		framework.CapabilityScreenshots,
		framework.CapabilityScripting,
		framework.CapabilityKeyboard,
		framework.CapabilityHeadless,
		framework.CapabilityWindowManagement,
	}
}

// Browser is a simulated browser session. It is safe for concurrent use, although a session is
// normally owned by a single execution context.
type Browser struct {
	id     string
	client *http.Client
	base   *url.URL
	caps   framework.Capabilities

	lock       sync.Mutex
	current    *url.URL
	doc        *goquery.Document
	generation int
	history    []*url.URL
	focused    *html.Node
	selectAll  *html.Node
	clipboard  string
	heldKeys   map[string]bool
	events     []string
	closed     bool
	quit       bool
	quitCalls  int
	maximized  bool

	implicitWait    time.Duration
	pageLoadTimeout time.Duration
}

// New returns a Browser whose requests are served by handler.
func New(handler http.Handler, options ...Option) *Browser {
	jar, _ := cookiejar.New(nil)
	b := &Browser{
		id: uuid.NewString(),
		client: &http.Client{
			Transport: handlerTransport{handler: handler},
			Jar:       jar,
		},
		caps:     DefaultCapabilities(),
		heldKeys: make(map[string]bool),
	}
	b.base, _ = url.Parse(DefaultBaseURL)
	for _, o := range options {
		o(b)
	}
	b.doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	return b
}

func (b *Browser) SessionID() string { return b.id }

func (b *Browser) Capabilities() framework.Capabilities { return b.caps }

// Events returns a log of interactions that have no effect on the DOM, such as hovering, in the
// form "<event> <element description>".
func (b *Browser) Events() []string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]string(nil), b.events...)
}

// Maximized reports whether MaximizeWindow has been called.
func (b *Browser) Maximized() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.maximized
}

// Timeouts returns the implicit wait and page-load timeout last set on the session.
func (b *Browser) Timeouts() (implicitWait, pageLoad time.Duration) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.implicitWait, b.pageLoadTimeout
}

// Quitted reports whether Quit has been called.
func (b *Browser) Quitted() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.quit
}

// QuitCalls returns how many times Quit has been called, including calls that failed because the
// session was already gone.
func (b *Browser) QuitCalls() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.quitCalls
}

func (b *Browser) check() error {
	switch {
	case b.quit:
		return ErrSessionClosed
	case b.closed:
		return ErrNoSuchWindow
	}
	return nil
}

func (b *Browser) Get(rawURL string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	target, err := b.resolve(rawURL)
	if err != nil {
		return err
	}
	return b.navigate(http.MethodGet, target, nil, true)
}

func (b *Browser) CurrentURL() (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return "", err
	}
	if b.current == nil {
		return "about:blank", nil
	}
	return b.current.String(), nil
}

func (b *Browser) Title() (string, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return "", err
	}
	if n := htmlquery.FindOne(b.root(), "//title"); n != nil {
		return strings.TrimSpace(htmlquery.InnerText(n)), nil
	}
	return "", nil
}

func (b *Browser) Refresh() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	if b.current == nil {
		return nil
	}
	return b.navigate(http.MethodGet, b.current, nil, false)
}

func (b *Browser) Back() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	if len(b.history) < 2 {
		return nil
	}
	b.history = b.history[:len(b.history)-1]
	return b.navigate(http.MethodGet, b.history[len(b.history)-1], nil, false)
}

func (b *Browser) FindElement(by driver.By) (driver.Element, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return nil, err
	}
	nodes, err := find(b.root(), by)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", driver.ErrNoSuchElement, by)
	}
	return b.element(nodes[0]), nil
}

func (b *Browser) FindElements(by driver.By) ([]driver.Element, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return nil, err
	}
	nodes, err := find(b.root(), by)
	if err != nil {
		return nil, err
	}
	return b.elements(nodes), nil
}

func (b *Browser) Screenshot() ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return nil, err
	}
	if err := b.screenshotsAllowed(); err != nil {
		return nil, err
	}
	return renderPNG(320, 240, b.generation)
}

func (b *Browser) screenshotsAllowed() error {
	if !b.caps.Has(framework.CapabilityScreenshots) {
		return fmt.Errorf("%w: screenshots", ErrUnsupported)
	}
	return nil
}

func (b *Browser) KeyDown(keys string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	for _, r := range keys {
		b.heldKeys[string(r)] = true
	}
	return nil
}

func (b *Browser) KeyUp(keys string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	for _, r := range keys {
		delete(b.heldKeys, string(r))
	}
	return nil
}

func (b *Browser) SetImplicitWaitTimeout(timeout time.Duration) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.implicitWait = timeout
	return b.check()
}

func (b *Browser) SetPageLoadTimeout(timeout time.Duration) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pageLoadTimeout = timeout
	return b.check()
}

func (b *Browser) MaximizeWindow() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	if !b.caps.Has(framework.CapabilityWindowManagement) {
		return fmt.Errorf("%w: window management", ErrUnsupported)
	}
	b.maximized = true
	return nil
}

func (b *Browser) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.quit {
		return ErrSessionClosed
	}
	b.closed = true
	return nil
}

func (b *Browser) Quit() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.quitCalls++
	if b.quit {
		return ErrSessionClosed
	}
	b.quit = true
	return nil
}

func (b *Browser) root() *html.Node {
	return b.doc.Nodes[0]
}

func (b *Browser) resolve(rawURL string) (*url.URL, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if b.current != nil {
		return b.current.ResolveReference(ref), nil
	}
	return b.base.ResolveReference(ref), nil
}

// navigate loads a new document. Any element handles from the previous document become stale.
func (b *Browser) navigate(method string, target *url.URL, form url.Values, pushHistory bool) error {
	ctx := context.Background()
	if b.pageLoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.pageLoadTimeout)
		defer cancel()
	}

	var body io.Reader
	if method == http.MethodPost {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return err
	}
	b.doc = doc
	b.current = resp.Request.URL
	b.generation++
	b.focused, b.selectAll = nil, nil
	if pushHistory {
		b.history = append(b.history, b.current)
	} else if len(b.history) > 0 {
		b.history[len(b.history)-1] = b.current
	}
	return nil
}

func (b *Browser) record(event string, n *html.Node) {
	b.events = append(b.events, event+" "+describe(n))
}

func describe(n *html.Node) string {
	if id, ok := attr(n, "id"); ok {
		return "#" + id
	}
	if class, ok := attr(n, "class"); ok && class != "" {
		return n.Data + "." + strings.Join(strings.Fields(class), ".")
	}
	return n.Data
}

func renderPNG(width, height, seed int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: uint8(40 * seed), G: 120, B: 200, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// find evaluates a locator against the subtree under root, excluding root itself.
func find(root *html.Node, by driver.By) ([]*html.Node, error) {
	switch by.Strategy {
	case driver.ByXPath:
		nodes, err := htmlquery.QueryAll(root, by.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid selector: %w", err)
		}
		ret := nodes[:0]
		for _, n := range nodes {
			if n.Type == html.ElementNode && n != root {
				ret = append(ret, n)
			}
		}
		return ret, nil
	case driver.ByLinkText, driver.ByPartialLinkText:
		var ret []*html.Node
		for _, a := range goquery.NewDocumentFromNode(root).Find("a").Nodes {
			text := visibleText(a)
			if text == by.Value || (by.Strategy == driver.ByPartialLinkText && strings.Contains(text, by.Value)) {
				ret = append(ret, a)
			}
		}
		return ret, nil
	}

	var selector string
	switch by.Strategy {
	case driver.ByID:
		selector = fmt.Sprintf("[id=%q]", by.Value)
	case driver.ByName:
		selector = fmt.Sprintf("[name=%q]", by.Value)
	case driver.ByClassName:
		if strings.ContainsAny(strings.TrimSpace(by.Value), " \t") {
			return nil, errors.New("invalid selector: compound class names are not permitted")
		}
		selector = "." + strings.TrimSpace(by.Value)
	case driver.ByTagName:
		selector = by.Value
	case driver.ByCSSSelector:
		selector = by.Value
	default:
		return nil, fmt.Errorf("invalid selector: unknown strategy %q", by.Strategy)
	}
	return goquery.NewDocumentFromNode(root).Find(selector).Nodes, nil
}
