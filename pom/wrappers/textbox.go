package wrappers

import (
	"strconv"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/pom"
)

// TextBox wraps a text input or textarea.
type TextBox struct {
	control
}

func NewTextBox(el *pom.Element, d driver.Driver, name string, logger *log.Logger, wait time.Duration) *TextBox {
	return &TextBox{control: newControl("TextBox", el, d, name, logger, wait)}
}

// loggable hides the text typed into password fields.
func (t *TextBox) loggable(found driver.Element, text string) string {
	if typ, err := found.GetAttribute("type"); err == nil && strings.EqualFold(typ, "password") {
		return strings.Repeat("*", len(text))
	}
	return text
}

// Type replaces the field's contents with text.
func (t *TextBox) Type(text string) error {
	shown := text
	err := t.waitFor("Type", "type into", pom.Visible, func(found driver.Element) error {
		if err := found.Clear(); err != nil {
			return err
		}
		shown = t.loggable(found, text)
		return found.SendKeys(text)
	})
	if err != nil {
		return err
	}
	t.logger.Infof(t.category("Type"), "Typed %q into %s", shown, t.name)
	return nil
}

func (t *TextBox) AppendText(text string) error {
	shown := text
	err := t.waitFor("AppendText", "append text to", pom.Visible, func(found driver.Element) error {
		shown = t.loggable(found, text)
		return found.SendKeys(text)
	})
	if err != nil {
		return err
	}
	t.logger.Infof(t.category("AppendText"), "Appended %q to %s", shown, t.name)
	return nil
}

func (t *TextBox) Clear() error {
	if err := t.waitFor("Clear", "clear", pom.Visible, driver.Element.Clear); err != nil {
		return err
	}
	t.logger.Infof(t.category("Clear"), "Cleared %s", t.name)
	return nil
}

// ClearWithKeyboard selects the contents and deletes them, as a user would.
func (t *TextBox) ClearWithKeyboard() error {
	err := t.waitFor("ClearWithKeyboard", "clear with keyboard", pom.Visible, func(found driver.Element) error {
		if err := found.SendKeys(driver.KeyControl + "a"); err != nil {
			return err
		}
		return found.SendKeys(driver.KeyDelete)
	})
	if err != nil {
		return err
	}
	t.logger.Infof(t.category("ClearWithKeyboard"), "Cleared %s with keyboard", t.name)
	return nil
}

// Text returns the field's value, or its visible text if the value is empty.
func (t *TextBox) Text() (string, error) {
	var text string
	err := t.waitFor("Text", "get text of", pom.Visible, func(found driver.Element) error {
		value, err := found.GetAttribute("value")
		if err != nil {
			return err
		}
		if value != "" {
			text = value
			return nil
		}
		text, err = found.Text()
		text = strings.TrimSpace(text)
		return err
	})
	if err != nil {
		return "", err
	}
	t.logger.Infof(t.category("Text"), "Text of %s is %q", t.name, t.loggableText(text))
	return text, nil
}

func (t *TextBox) loggableText(text string) string {
	var shown string
	_ = t.el.Do(func(found driver.Element) error {
		shown = t.loggable(found, text)
		return nil
	})
	return shown
}

func (t *TextBox) Placeholder() (string, error) {
	value, err := t.attribute("Placeholder", "placeholder")
	if err != nil {
		return "", err
	}
	t.logger.Infof(t.category("Placeholder"), "Placeholder of %s is %q", t.name, value)
	return value, nil
}

func (t *TextBox) press(op, keyName, key string) error {
	err := t.waitFor(op, "press "+keyName+" in", pom.Visible, func(found driver.Element) error {
		return found.SendKeys(key)
	})
	if err != nil {
		return err
	}
	t.logger.Infof(t.category(op), "Pressed %s in %s", keyName, t.name)
	return nil
}

func (t *TextBox) PressEnter() error { return t.press("PressEnter", "Enter", driver.KeyEnter) }

func (t *TextBox) PressTab() error { return t.press("PressTab", "Tab", driver.KeyTab) }

func (t *TextBox) PressEscape() error { return t.press("PressEscape", "Escape", driver.KeyEscape) }

func (t *TextBox) SelectAll() error { return t.press("SelectAll", "Ctrl+A", driver.KeyControl+"a") }

func (t *TextBox) Copy() error { return t.press("Copy", "Ctrl+C", driver.KeyControl+"c") }

func (t *TextBox) Paste() error { return t.press("Paste", "Ctrl+V", driver.KeyControl+"v") }

func (t *TextBox) Focus() error {
	if err := t.script("Focus", "focus", driver.ScriptFocus); err != nil {
		return err
	}
	t.logger.Infof(t.category("Focus"), "Focused %s", t.name)
	return nil
}

func (t *TextBox) IsReadOnly() bool {
	return t.hasBooleanAttribute("readonly")
}

func (t *TextBox) IsRequired() bool {
	return t.hasBooleanAttribute("required")
}

func (t *TextBox) hasBooleanAttribute(name string) bool {
	return t.predicate(func(found driver.Element) (bool, error) {
		v, err := found.GetAttribute(name)
		return v != "" && !strings.EqualFold(v, "false"), err
	})
}

// MaxLength returns the maxlength attribute, or -1 if it is absent or not a number.
func (t *TextBox) MaxLength() (int, error) {
	value, err := t.attribute("MaxLength", "maxlength")
	if err != nil {
		return -1, err
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(value))
	if convErr != nil || n < 0 {
		return -1, nil
	}
	return n, nil
}

// InputType returns the type attribute, defaulting to "text".
func (t *TextBox) InputType() (string, error) {
	value, err := t.attribute("InputType", "type")
	if err != nil {
		return "", err
	}
	if value == "" {
		return "text", nil
	}
	return strings.ToLower(value), nil
}

func (t *TextBox) WaitForText(expected string) error {
	if err := t.waitFor("WaitForText", "wait for text "+strconv.Quote(expected)+" in", pom.TextEquals(expected), nil); err != nil {
		return err
	}
	t.logger.Infof(t.category("WaitForText"), "%s has text %q", t.name, expected)
	return nil
}
