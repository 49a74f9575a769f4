package mockbrowser

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
)

const keyNull = "\ue000"

// Pages can opt into a few client-side behaviours through data attributes, since there is no
// script engine:
//
//	data-toggle-type="<id>"    clicking switches the input with that id between password and text
//	data-toggle-hidden="<id>"  clicking adds or removes the hidden attribute on that element
//	data-autosubmit            on a select, changing the selection submits its form
const (
	attrToggleType   = "data-toggle-type"
	attrToggleHidden = "data-toggle-hidden"
	attrAutosubmit   = "data-autosubmit"
)

func editable(n *html.Node) bool {
	if n.Data == "textarea" {
		return true
	}
	switch inputType(n) {
	case "", "checkbox", "radio", "submit", "button", "reset", "image", "file", "hidden":
		return false
	}
	return true
}

// activate performs the default action for a click on n. Clicks on disabled controls do nothing.
func (b *Browser) activate(n *html.Node) error {
	b.focused = n
	b.selectAll = nil
	if !isEnabled(n) {
		return nil
	}

	if id, ok := attr(n, attrToggleType); ok {
		if target := b.byID(id); target != nil {
			if inputType(target) == "password" {
				setAttr(target, "type", "text")
			} else {
				setAttr(target, "type", "password")
			}
		}
	}
	if id, ok := attr(n, attrToggleHidden); ok {
		if target := b.byID(id); target != nil {
			if hasAttr(target, "hidden") {
				removeAttr(target, "hidden")
			} else {
				setAttr(target, "hidden", "")
			}
		}
	}

	switch n.Data {
	case "a":
		href := strings.TrimSpace(attrOr(n, "href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return nil
		}
		target, err := b.resolve(href)
		if err != nil {
			return err
		}
		return b.navigate(http.MethodGet, target, nil, true)
	case "option":
		return b.chooseOption(n)
	case "button":
		if t := strings.ToLower(attrOr(n, "type", "submit")); t == "submit" {
			if form := b.formOf(n); form != nil {
				return b.submit(form, n)
			}
		}
	case "input":
		switch inputType(n) {
		case "checkbox":
			if hasAttr(n, "checked") {
				removeAttr(n, "checked")
			} else {
				setAttr(n, "checked", "")
			}
		case "radio":
			b.checkRadio(n)
		case "submit", "image":
			if form := b.formOf(n); form != nil {
				return b.submit(form, n)
			}
		}
	}
	return nil
}

func (b *Browser) byID(id string) *html.Node {
	nodes, _ := find(b.root(), driver.ID(id))
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func (b *Browser) chooseOption(o *html.Node) error {
	sel := closest(o, "select")
	if sel == nil {
		return nil
	}
	if hasAttr(sel, "multiple") {
		if hasAttr(o, "selected") {
			removeAttr(o, "selected")
		} else {
			setAttr(o, "selected", "")
		}
	} else {
		if hasAttr(o, "selected") {
			return nil
		}
		for _, other := range options(sel) {
			removeAttr(other, "selected")
		}
		setAttr(o, "selected", "")
	}
	if hasAttr(sel, attrAutosubmit) {
		if form := b.formOf(sel); form != nil {
			return b.submit(form, nil)
		}
	}
	return nil
}

func (b *Browser) checkRadio(n *html.Node) {
	name := attrOr(n, "name", "")
	if form := b.formOf(n); form != nil && name != "" {
		for _, other := range elements(form) {
			if inputType(other) == "radio" && attrOr(other, "name", "") == name {
				removeAttr(other, "checked")
			}
		}
	}
	setAttr(n, "checked", "")
}

func (b *Browser) formOf(n *html.Node) *html.Node {
	if id, ok := attr(n, "form"); ok {
		return b.byID(id)
	}
	return closest(n, "form")
}

func defaultSubmitter(form *html.Node) *html.Node {
	for _, el := range elements(form) {
		switch {
		case el.Data == "button" && strings.ToLower(attrOr(el, "type", "submit")) == "submit":
			return el
		case inputType(el) == "submit" || inputType(el) == "image":
			return el
		}
	}
	return nil
}

// submit serialises the form's successful controls and loads the response.
func (b *Browser) submit(form, submitter *html.Node) error {
	fields := url.Values{}
	for _, el := range elements(form) {
		name, ok := attr(el, "name")
		if !ok || name == "" || !isEnabled(el) {
			continue
		}
		switch el.Data {
		case "input":
			switch inputType(el) {
			case "checkbox", "radio":
				if hasAttr(el, "checked") {
					fields.Add(name, attrOr(el, "value", "on"))
				}
			case "submit", "image", "button", "reset":
				if el == submitter {
					fields.Add(name, attrOr(el, "value", ""))
				}
			case "file":
			default:
				fields.Add(name, value(el))
			}
		case "textarea":
			fields.Add(name, value(el))
		case "select":
			if hasAttr(el, "multiple") {
				for _, o := range options(el) {
					if hasAttr(o, "selected") {
						fields.Add(name, optionValue(o))
					}
				}
			} else {
				fields.Add(name, value(el))
			}
		case "button":
			if el == submitter {
				fields.Add(name, attrOr(el, "value", ""))
			}
		}
	}

	action, err := b.resolve(attrOr(form, "action", ""))
	if err != nil {
		return err
	}
	if strings.EqualFold(attrOr(form, "method", "get"), "post") {
		return b.navigate(http.MethodPost, action, fields, true)
	}
	target := *action
	target.RawQuery = fields.Encode()
	return b.navigate(http.MethodGet, &target, nil, true)
}

// typeKeys applies a WebDriver key sequence to n. Modifier keys in the sequence are sticky until
// the end of the sequence or a NULL key, as in the WebDriver protocol; keys held with KeyDown
// apply throughout.
func (b *Browser) typeKeys(n *html.Node, keys string) error {
	ctrl := b.heldKeys[driver.KeyControl]
	for _, r := range keys {
		key := string(r)
		switch key {
		case driver.KeyControl:
			ctrl = !ctrl
		case keyNull:
			ctrl = false
		case driver.KeyShift:
		case driver.KeyEnter:
			if n.Data == "textarea" {
				b.insertText(n, "\n")
				continue
			}
			if form := b.formOf(n); form != nil && n.Data == "input" {
				return b.submit(form, defaultSubmitter(form))
			}
			if n.Data == "button" || n.Data == "a" {
				return b.activate(n)
			}
		case driver.KeyTab:
			b.selectAll = nil
			b.focusNext(n)
		case driver.KeyEscape:
			b.record("escape", n)
		case driver.KeyBackspace:
			if !editable(n) || hasAttr(n, "readonly") {
				continue
			}
			v := value(n)
			if b.selectAll == n {
				v = ""
			} else if _, size := utf8.DecodeLastRuneInString(v); size > 0 {
				v = v[:len(v)-size]
			}
			b.selectAll = nil
			setValue(n, v)
		case driver.KeyDelete:
			if b.selectAll == n && editable(n) && !hasAttr(n, "readonly") {
				setValue(n, "")
			}
			b.selectAll = nil
		default:
			if ctrl {
				b.shortcut(n, strings.ToLower(key))
				continue
			}
			b.insertText(n, key)
		}
	}
	return nil
}

func (b *Browser) shortcut(n *html.Node, key string) {
	switch key {
	case "a":
		b.selectAll = n
	case "c":
		if b.selectAll == n {
			b.clipboard = value(n)
		}
	case "x":
		if b.selectAll == n {
			b.clipboard = value(n)
			if editable(n) && !hasAttr(n, "readonly") {
				setValue(n, "")
			}
			b.selectAll = nil
		}
	case "v":
		b.insertText(n, b.clipboard)
	}
}

func (b *Browser) insertText(n *html.Node, text string) {
	if !editable(n) || hasAttr(n, "readonly") {
		return
	}
	v := value(n)
	if b.selectAll == n {
		v = ""
		b.selectAll = nil
	}
	limit := maxLength(n)
	for _, r := range text {
		if limit >= 0 && utf8.RuneCountInString(v) >= limit {
			break
		}
		v += string(r)
	}
	setValue(n, v)
}

func (b *Browser) focusNext(from *html.Node) {
	passed := false
	for _, el := range elements(b.root()) {
		if el == from {
			passed = true
			continue
		}
		if passed && isFocusable(el) && isDisplayed(el) && isEnabled(el) {
			b.focused = el
			return
		}
	}
	b.focused = nil
}

// Focused returns the element that currently has keyboard focus, or nil.
func (b *Browser) Focused() driver.Element {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.focused == nil {
		return nil
	}
	return b.element(b.focused)
}

// ExecuteScript recognises the scripts defined in the driver package. Element arguments must be
// elements of this browser's current document.
func (b *Browser) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if err := b.check(); err != nil {
		return nil, err
	}
	if !b.caps.Has(framework.CapabilityScripting) {
		return nil, fmt.Errorf("%w: scripting", ErrUnsupported)
	}
	if script == driver.ScriptReadyState {
		return "complete", nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: script %q", ErrUnsupported, script)
	}
	el, ok := args[0].(*Element)
	if !ok || el.b != b {
		return nil, fmt.Errorf("javascript error: arguments[0] is not an element of this page")
	}
	if err := el.check(); err != nil {
		return nil, err
	}

	switch script {
	case driver.ScriptClick:
		return nil, b.activate(el.node)
	case driver.ScriptScrollIntoView:
		b.record("scroll", el.node)
		return nil, nil
	case driver.ScriptHighlight:
		setStyleProperty(el.node, "outline", "3px solid red")
		return nil, nil
	case driver.ScriptFocus:
		b.focused = el.node
		return nil, nil
	case driver.ScriptInViewport:
		return isDisplayed(el.node) && (b.row(el.node)+1)*rowHeight <= viewportHeight, nil
	}
	return nil, fmt.Errorf("%w: script %q", ErrUnsupported, script)
}
