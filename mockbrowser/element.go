package mockbrowser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/pomkit/pom-test-harness/driver"
)

// Element is a handle to a node in one particular document loaded by a Browser.
type Element struct {
	b          *Browser
	node       *html.Node
	generation int
}

func (b *Browser) element(n *html.Node) *Element {
	return &Element{b: b, node: n, generation: b.generation}
}

func (b *Browser) elements(nodes []*html.Node) []driver.Element {
	ret := make([]driver.Element, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, b.element(n))
	}
	return ret
}

// check must be called with the browser lock held.
func (e *Element) check() error {
	if err := e.b.check(); err != nil {
		return err
	}
	if e.generation != e.b.generation || !e.attached() {
		return fmt.Errorf("%w: %s is not attached to the page document", driver.ErrStaleElement, describe(e.node))
	}
	return nil
}

func (e *Element) attached() bool {
	root := e.b.root()
	for p := e.node; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

func (e *Element) interactable() error {
	if err := e.check(); err != nil {
		return err
	}
	if !isDisplayed(e.node) {
		return fmt.Errorf("%w: %s is not displayed", driver.ErrElementNotInteractable, describe(e.node))
	}
	return nil
}

func (e *Element) String() string { return describe(e.node) }

func (e *Element) Click() error {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	return e.b.activate(e.node)
}

func (e *Element) DoubleClick() error {
	return e.pointerEvent("dblclick")
}

func (e *Element) RightClick() error {
	return e.pointerEvent("contextmenu")
}

func (e *Element) MoveTo() error {
	return e.pointerEvent("hover")
}

func (e *Element) pointerEvent(event string) error {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	e.b.record(event, e.node)
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	if !isEnabled(e.node) {
		return fmt.Errorf("%w: %s is disabled", driver.ErrElementNotInteractable, describe(e.node))
	}
	e.b.focused = e.node
	return e.b.typeKeys(e.node, keys)
}

func (e *Element) Clear() error {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	if !isEnabled(e.node) || hasAttr(e.node, "readonly") {
		return fmt.Errorf("%w: invalid element state: %s cannot be cleared", driver.ErrElementNotInteractable, describe(e.node))
	}
	if editable(e.node) {
		setValue(e.node, "")
	}
	return nil
}

func (e *Element) Text() (string, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	return visibleText(e.node), nil
}

func (e *Element) TagName() (string, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	return e.node.Data, nil
}

// GetAttribute follows WebDriver semantics: "value" reports the live value of form controls, and
// boolean attributes report "true" when present.
func (e *Element) GetAttribute(name string) (string, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	switch strings.ToLower(name) {
	case "value":
		return value(e.node), nil
	case "checked", "selected", "disabled", "readonly", "required", "multiple", "hidden":
		if hasAttr(e.node, strings.ToLower(name)) {
			return "true", nil
		}
		return "", nil
	}
	return attrOr(e.node, name, ""), nil
}

func (e *Element) CSSProperty(name string) (string, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return "", err
	}
	if v, ok := styleProperties(e.node)[strings.ToLower(name)]; ok {
		return v, nil
	}
	if strings.EqualFold(name, "display") {
		if blockElements[e.node.Data] {
			return "block", nil
		}
		return "inline", nil
	}
	return "", nil
}

func (e *Element) IsDisplayed() (bool, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	return isDisplayed(e.node), nil
}

func (e *Element) IsEnabled() (bool, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	return isEnabled(e.node), nil
}

func (e *Element) IsSelected() (bool, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return false, err
	}
	return isSelected(e.node), nil
}

// Location is synthetic: visible elements are laid out one per row in document order.
func (e *Element) Location() (driver.Point, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return driver.Point{}, err
	}
	return driver.Point{X: 8, Y: e.b.row(e.node) * rowHeight}, nil
}

func (e *Element) Size() (driver.Size, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return driver.Size{}, err
	}
	if !isDisplayed(e.node) {
		return driver.Size{}, nil
	}
	return driver.Size{Width: 200, Height: rowHeight}, nil
}

const rowHeight = 20

func (b *Browser) row(n *html.Node) int {
	row := 0
	for _, el := range elements(b.root()) {
		if el == n {
			break
		}
		if isDisplayed(el) {
			row++
		}
	}
	return row
}

func (e *Element) FindElement(by driver.By) (driver.Element, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return nil, err
	}
	nodes, err := find(e.node, by)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s within %s", driver.ErrNoSuchElement, by, describe(e.node))
	}
	return e.b.element(nodes[0]), nil
}

func (e *Element) FindElements(by driver.By) ([]driver.Element, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.check(); err != nil {
		return nil, err
	}
	nodes, err := find(e.node, by)
	if err != nil {
		return nil, err
	}
	return e.b.elements(nodes), nil
}

func (e *Element) Screenshot() ([]byte, error) {
	e.b.lock.Lock()
	defer e.b.lock.Unlock()
	if err := e.interactable(); err != nil {
		return nil, err
	}
	if err := e.b.screenshotsAllowed(); err != nil {
		return nil, err
	}
	return renderPNG(200, rowHeight, e.b.generation)
}
