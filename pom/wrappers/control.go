// Package wrappers provides typed element wrappers for buttons, text inputs and native select
// controls. Each wrapper pairs a lazily resolved element with a human-readable name that appears
// in its log lines and errors.
package wrappers

import (
	"errors"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/pom"
)

// control holds what every wrapper shares. Operations that touch the document wait for their
// predicate first; failures are logged and returned as *pom.ActionFailedError.
type control struct {
	kind   string
	el     *pom.Element
	driver driver.Driver
	name   string
	logger *log.Logger
	wait   time.Duration
}

func newControl(kind string, el *pom.Element, d driver.Driver, name string, logger *log.Logger, wait time.Duration) control {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	if wait <= 0 {
		wait = config.DefaultExplicitWait
	}
	return control{kind: kind, el: el, driver: d, name: name, logger: logger, wait: wait}
}

// Name is the human-readable name of the element.
func (c *control) Name() string { return c.name }

// Element returns the underlying lazily resolved element.
func (c *control) Element() *pom.Element { return c.el }

func (c *control) category(op string) string { return c.kind + ":" + op }

func (c *control) bound() error {
	if c.el == nil || c.driver == nil {
		return pom.ErrUnboundElement
	}
	return nil
}

func (c *control) fail(op, action string, err error) error {
	c.logger.Errorf(c.category(op), "Failed to %s %s: %s", action, c.name, err)
	var actionErr *pom.ActionFailedError
	if errors.As(err, &actionErr) && actionErr.Element == c.name {
		return err
	}
	return &pom.ActionFailedError{Element: c.name, Action: action, Cause: err}
}

// waitFor waits for cond, then runs fn against the element.
func (c *control) waitFor(op, action string, cond pom.Condition, fn func(driver.Element) error) error {
	if err := c.bound(); err != nil {
		return c.fail(op, action, err)
	}
	if _, err := pom.WaitFor(c.el, cond, c.wait); err != nil {
		return c.fail(op, action, err)
	}
	if fn == nil {
		return nil
	}
	if err := c.el.Do(fn); err != nil {
		return c.fail(op, action, err)
	}
	return nil
}

func (c *control) script(op, action, script string) error {
	return c.waitFor(op, action, pom.Present, func(found driver.Element) error {
		_, err := c.driver.ExecuteScript(script, []interface{}{found})
		return err
	})
}

func (c *control) text(op string, cond pom.Condition) (string, error) {
	var text string
	err := c.waitFor(op, "get text of", cond, func(found driver.Element) error {
		var err error
		text, err = found.Text()
		return err
	})
	return strings.TrimSpace(text), err
}

func (c *control) attribute(op, name string) (string, error) {
	var value string
	err := c.waitFor(op, "get attribute "+name+" of", pom.Present, func(found driver.Element) error {
		var err error
		value, err = found.GetAttribute(name)
		return err
	})
	return value, err
}

// predicate evaluates fn without waiting; any error counts as false.
func (c *control) predicate(fn func(driver.Element) (bool, error)) bool {
	if c.bound() != nil {
		return false
	}
	result := false
	err := c.el.Do(func(found driver.Element) error {
		var err error
		result, err = fn(found)
		return err
	})
	return err == nil && result
}

func (c *control) IsDisplayed() bool {
	return c.predicate(driver.Element.IsDisplayed)
}

func (c *control) IsEnabled() bool {
	return c.predicate(driver.Element.IsEnabled)
}

func (c *control) ScrollIntoView() error {
	if err := c.script("ScrollIntoView", "scroll to", driver.ScriptScrollIntoView); err != nil {
		return err
	}
	c.logger.Infof(c.category("ScrollIntoView"), "Scrolled to %s", c.name)
	return nil
}

func (c *control) WaitClickable() error {
	if err := c.waitFor("WaitClickable", "wait for clickable", pom.Clickable, nil); err != nil {
		return err
	}
	c.logger.Infof(c.category("WaitClickable"), "%s is clickable", c.name)
	return nil
}

func (c *control) WaitVisible() error {
	if err := c.waitFor("WaitVisible", "wait for visible", pom.Visible, nil); err != nil {
		return err
	}
	c.logger.Infof(c.category("WaitVisible"), "%s is visible", c.name)
	return nil
}
