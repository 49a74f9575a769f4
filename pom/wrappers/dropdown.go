package wrappers

import (
	"fmt"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/pom"
)

// Dropdown wraps a native <select> element.
type Dropdown struct {
	control
}

func NewDropdown(el *pom.Element, d driver.Driver, name string, logger *log.Logger, wait time.Duration) *Dropdown {
	return &Dropdown{control: newControl("Dropdown", el, d, name, logger, wait)}
}

type option struct {
	el    driver.Element
	text  string
	value string
}

func readOptions(sel driver.Element) ([]option, error) {
	els, err := sel.FindElements(driver.TagName("option"))
	if err != nil {
		return nil, err
	}
	ret := make([]option, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, err
		}
		value, err := el.GetAttribute("value")
		if err != nil {
			return nil, err
		}
		ret = append(ret, option{el: el, text: strings.TrimSpace(text), value: value})
	}
	return ret, nil
}

// withOptions waits for the select to be visible and passes its options to fn.
func (d *Dropdown) withOptions(op, action string, fn func(sel driver.Element, opts []option) error) error {
	return d.waitFor(op, action, pom.Visible, func(sel driver.Element) error {
		opts, err := readOptions(sel)
		if err != nil {
			return err
		}
		return fn(sel, opts)
	})
}

func isMultiple(sel driver.Element) (bool, error) {
	v, err := sel.GetAttribute("multiple")
	return v != "" && !strings.EqualFold(v, "false"), err
}

func (d *Dropdown) selectWhere(op, description string, match func(int, option) bool) error {
	err := d.withOptions(op, "select "+description+" in", func(_ driver.Element, opts []option) error {
		for i, o := range opts {
			if !match(i, o) {
				continue
			}
			selected, err := o.el.IsSelected()
			if err != nil || selected {
				return err
			}
			return o.el.Click()
		}
		return fmt.Errorf("%w: no option with %s", driver.ErrNoSuchElement, description)
	})
	if err != nil {
		return err
	}
	d.logger.Infof(d.category(op), "Selected %s in %s", description, d.name)
	return nil
}

func (d *Dropdown) SelectByText(text string) error {
	return d.selectWhere("SelectByText", fmt.Sprintf("text %q", text), func(_ int, o option) bool { return o.text == text })
}

func (d *Dropdown) SelectByValue(value string) error {
	return d.selectWhere("SelectByValue", fmt.Sprintf("value %q", value), func(_ int, o option) bool { return o.value == value })
}

func (d *Dropdown) SelectByIndex(index int) error {
	return d.selectWhere("SelectByIndex", fmt.Sprintf("index %d", index), func(i int, _ option) bool { return i == index })
}

// deselectWhere is a no-op, logged as a warning, on a single-select.
func (d *Dropdown) deselectWhere(op, description string, match func(int, option) bool) error {
	skipped := false
	err := d.withOptions(op, "deselect "+description+" in", func(sel driver.Element, opts []option) error {
		multiple, err := isMultiple(sel)
		if err != nil {
			return err
		}
		if !multiple {
			skipped = true
			return nil
		}
		for i, o := range opts {
			if !match(i, o) {
				continue
			}
			selected, err := o.el.IsSelected()
			if err != nil {
				return err
			}
			if selected {
				if err := o.el.Click(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if skipped {
		d.logger.Warnf(d.category(op), "Cannot deselect %s in %s: it is not a multi-select", description, d.name)
		return nil
	}
	d.logger.Infof(d.category(op), "Deselected %s in %s", description, d.name)
	return nil
}

func (d *Dropdown) DeselectByText(text string) error {
	return d.deselectWhere("DeselectByText", fmt.Sprintf("text %q", text), func(_ int, o option) bool { return o.text == text })
}

func (d *Dropdown) DeselectByValue(value string) error {
	return d.deselectWhere("DeselectByValue", fmt.Sprintf("value %q", value), func(_ int, o option) bool { return o.value == value })
}

func (d *Dropdown) DeselectByIndex(index int) error {
	return d.deselectWhere("DeselectByIndex", fmt.Sprintf("index %d", index), func(i int, _ option) bool { return i == index })
}

func (d *Dropdown) DeselectAll() error {
	return d.deselectWhere("DeselectAll", "all options", func(int, option) bool { return true })
}

func (d *Dropdown) selected(op string) ([]option, error) {
	var ret []option
	err := d.withOptions(op, "get selected options of", func(_ driver.Element, opts []option) error {
		for _, o := range opts {
			selected, err := o.el.IsSelected()
			if err != nil {
				return err
			}
			if selected {
				ret = append(ret, o)
			}
		}
		return nil
	})
	return ret, err
}

func (d *Dropdown) firstSelected(op string) (option, error) {
	opts, err := d.selected(op)
	if err != nil {
		return option{}, err
	}
	if len(opts) == 0 {
		return option{}, d.fail(op, "get selected option of", fmt.Errorf("%w: no option is selected", driver.ErrNoSuchElement))
	}
	return opts[0], nil
}

func (d *Dropdown) FirstSelectedOption() (driver.Element, error) {
	o, err := d.firstSelected("FirstSelectedOption")
	if err != nil {
		return nil, err
	}
	d.logger.Infof(d.category("FirstSelectedOption"), "First selected option of %s is %q", d.name, o.text)
	return o.el, nil
}

func (d *Dropdown) AllSelectedOptions() ([]driver.Element, error) {
	opts, err := d.selected("AllSelectedOptions")
	if err != nil {
		return nil, err
	}
	d.logger.Infof(d.category("AllSelectedOptions"), "%s has %d selected options", d.name, len(opts))
	return elementsOf(opts), nil
}

func (d *Dropdown) SelectedText() (string, error) {
	o, err := d.firstSelected("SelectedText")
	if err != nil {
		return "", err
	}
	d.logger.Infof(d.category("SelectedText"), "Selected text of %s is %q", d.name, o.text)
	return o.text, nil
}

func (d *Dropdown) SelectedValue() (string, error) {
	o, err := d.firstSelected("SelectedValue")
	if err != nil {
		return "", err
	}
	d.logger.Infof(d.category("SelectedValue"), "Selected value of %s is %q", d.name, o.value)
	return o.value, nil
}

func (d *Dropdown) allOptions(op string) ([]option, error) {
	var ret []option
	err := d.withOptions(op, "get options of", func(_ driver.Element, opts []option) error {
		ret = opts
		return nil
	})
	return ret, err
}

func (d *Dropdown) Options() ([]driver.Element, error) {
	opts, err := d.allOptions("Options")
	if err != nil {
		return nil, err
	}
	d.logger.Infof(d.category("Options"), "%s has %d options", d.name, len(opts))
	return elementsOf(opts), nil
}

func (d *Dropdown) OptionTexts() ([]string, error) {
	opts, err := d.allOptions("OptionTexts")
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(opts))
	for _, o := range opts {
		texts = append(texts, o.text)
	}
	d.logger.Infof(d.category("OptionTexts"), "Options of %s: %v", d.name, texts)
	return texts, nil
}

func (d *Dropdown) OptionValues() ([]string, error) {
	opts, err := d.allOptions("OptionValues")
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(opts))
	for _, o := range opts {
		values = append(values, o.value)
	}
	d.logger.Infof(d.category("OptionValues"), "Option values of %s: %v", d.name, values)
	return values, nil
}

func (d *Dropdown) IsMultiple() bool {
	return d.predicate(isMultiple)
}

func (d *Dropdown) hasOption(match func(option) bool) bool {
	return d.predicate(func(sel driver.Element) (bool, error) {
		opts, err := readOptions(sel)
		if err != nil {
			return false, err
		}
		for _, o := range opts {
			if match(o) {
				return true, nil
			}
		}
		return false, nil
	})
}

func (d *Dropdown) HasOptionWithText(text string) bool {
	return d.hasOption(func(o option) bool { return o.text == text })
}

func (d *Dropdown) HasOptionWithValue(value string) bool {
	return d.hasOption(func(o option) bool { return o.value == value })
}

// OptionsCount returns the number of options, or 0 if they cannot be read.
func (d *Dropdown) OptionsCount() int {
	if d.bound() != nil {
		return 0
	}
	count := 0
	_ = d.el.Do(func(sel driver.Element) error {
		opts, err := sel.FindElements(driver.TagName("option"))
		count = len(opts)
		return err
	})
	return count
}

// WaitForOptionAvailable waits until an option with the given text exists.
func (d *Dropdown) WaitForOptionAvailable(text string) error {
	if err := d.bound(); err != nil {
		return d.fail("WaitForOptionAvailable", "wait for option "+text+" in", err)
	}
	if !helpers.PollUntil(func() bool { return d.HasOptionWithText(text) }, d.wait, pom.PollInterval) {
		return d.fail("WaitForOptionAvailable", fmt.Sprintf("wait for option %q in", text),
			fmt.Errorf("%w after %s", pom.ErrWaitTimeout, d.wait))
	}
	d.logger.Infof(d.category("WaitForOptionAvailable"), "Option %q is available in %s", text, d.name)
	return nil
}

func elementsOf(opts []option) []driver.Element {
	ret := make([]driver.Element, 0, len(opts))
	for _, o := range opts {
		ret = append(ret, o.el)
	}
	return ret
}
