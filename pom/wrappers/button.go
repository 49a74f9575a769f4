package wrappers

import (
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/pom"
)

// Button wraps a clickable element: a button, a link, or anything else the user clicks.
type Button struct {
	control
}

func NewButton(el *pom.Element, d driver.Driver, name string, logger *log.Logger, wait time.Duration) *Button {
	return &Button{control: newControl("Button", el, d, name, logger, wait)}
}

func (b *Button) Click() error {
	if err := b.waitFor("Click", "click", pom.Clickable, driver.Element.Click); err != nil {
		return err
	}
	b.logger.Infof(b.category("Click"), "Clicked %s", b.name)
	return nil
}

// ClickViaScript clicks through the page's scripting host, which works when something overlays
// the element and a native click would miss it.
func (b *Button) ClickViaScript() error {
	if err := b.script("ClickViaScript", "click via script", driver.ScriptClick); err != nil {
		return err
	}
	b.logger.Infof(b.category("ClickViaScript"), "Clicked %s via script", b.name)
	return nil
}

func (b *Button) DoubleClick() error {
	if err := b.waitFor("DoubleClick", "double-click", pom.Clickable, driver.Element.DoubleClick); err != nil {
		return err
	}
	b.logger.Infof(b.category("DoubleClick"), "Double-clicked %s", b.name)
	return nil
}

func (b *Button) RightClick() error {
	if err := b.waitFor("RightClick", "right-click", pom.Visible, driver.Element.RightClick); err != nil {
		return err
	}
	b.logger.Infof(b.category("RightClick"), "Right-clicked %s", b.name)
	return nil
}

func (b *Button) Hover() error {
	if err := b.waitFor("Hover", "hover over", pom.Visible, driver.Element.MoveTo); err != nil {
		return err
	}
	b.logger.Infof(b.category("Hover"), "Hovered over %s", b.name)
	return nil
}

func (b *Button) Text() (string, error) {
	text, err := b.text("Text", pom.Visible)
	if err != nil {
		return "", err
	}
	b.logger.Infof(b.category("Text"), "Text of %s is %q", b.name, text)
	return text, nil
}

func (b *Button) Attribute(name string) (string, error) {
	value, err := b.attribute("Attribute", name)
	if err != nil {
		return "", err
	}
	b.logger.Infof(b.category("Attribute"), "Attribute %s of %s is %q", name, b.name, value)
	return value, nil
}

func (b *Button) CSSValue(property string) (string, error) {
	var value string
	err := b.waitFor("CSSValue", "get CSS "+property+" of", pom.Present, func(found driver.Element) error {
		var err error
		value, err = found.CSSProperty(property)
		return err
	})
	if err != nil {
		return "", err
	}
	b.logger.Infof(b.category("CSSValue"), "CSS %s of %s is %q", property, b.name, value)
	return value, nil
}

func (b *Button) IsSelected() bool {
	return b.predicate(driver.Element.IsSelected)
}

// HasClass reports whether the element's class attribute contains class as a whole word.
func (b *Button) HasClass(class string) bool {
	return b.predicate(func(found driver.Element) (bool, error) {
		classes, err := found.GetAttribute("class")
		if err != nil {
			return false, err
		}
		for _, c := range strings.Fields(classes) {
			if c == class {
				return true, nil
			}
		}
		return false, nil
	})
}

func (b *Button) Location() (driver.Point, error) {
	var p driver.Point
	err := b.waitFor("Location", "get location of", pom.Visible, func(found driver.Element) error {
		var err error
		p, err = found.Location()
		return err
	})
	if err != nil {
		return driver.Point{}, err
	}
	b.logger.Infof(b.category("Location"), "%s is at (%d, %d)", b.name, p.X, p.Y)
	return p, nil
}

func (b *Button) Size() (driver.Size, error) {
	var s driver.Size
	err := b.waitFor("Size", "get size of", pom.Visible, func(found driver.Element) error {
		var err error
		s, err = found.Size()
		return err
	})
	if err != nil {
		return driver.Size{}, err
	}
	b.logger.Infof(b.category("Size"), "%s is %dx%d", b.name, s.Width, s.Height)
	return s, nil
}

func (b *Button) WaitInvisible() error {
	if err := b.bound(); err != nil {
		return b.fail("WaitInvisible", "wait for invisible", err)
	}
	if err := pom.WaitForInvisible(b.el, b.wait); err != nil {
		return b.fail("WaitInvisible", "wait for invisible", err)
	}
	b.logger.Infof(b.category("WaitInvisible"), "%s is invisible", b.name)
	return nil
}
