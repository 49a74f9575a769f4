package mockbrowser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
)

var neverRendered = map[string]bool{ //nolint:gochecknoglobals
	"head": true, "script": true, "style": true, "title": true, "meta": true,
	"link": true, "template": true, "noscript": true,
}

var blockElements = map[string]bool{ //nolint:gochecknoglobals
	"div": true, "p": true, "li": true, "ul": true, "ol": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "header": true, "footer": true, "nav": true, "form": true,
	"article": true, "aside": true, "main": true, "option": true, "label": true,
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func attrOr(n *html.Node, name, def string) string {
	if v, ok := attr(n, name); ok {
		return v
	}
	return def
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != name {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func inputType(n *html.Node) string {
	if n.Data != "input" {
		return ""
	}
	return strings.ToLower(attrOr(n, "type", "text"))
}

// styleProperties parses an inline style attribute.
func styleProperties(n *html.Node) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(attrOr(n, "style", ""), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		props[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return props
}

func setStyleProperty(n *html.Node, name, value string) {
	props := styleProperties(n)
	props[name] = value
	keys := maps.Keys(props)
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+props[k])
	}
	setAttr(n, "style", strings.Join(parts, "; "))
}

func selfVisible(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return true
	}
	if neverRendered[n.Data] || hasAttr(n, "hidden") || inputType(n) == "hidden" {
		return false
	}
	style := styleProperties(n)
	return style["display"] != "none" && style["visibility"] != "hidden"
}

func isDisplayed(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if !selfVisible(p) {
			return false
		}
	}
	return true
}

func isEnabled(n *html.Node) bool {
	if hasAttr(n, "disabled") {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && (p.Data == "fieldset" || p.Data == "select") && hasAttr(p, "disabled") {
			return false
		}
	}
	return true
}

func isSelected(n *html.Node) bool {
	switch n.Data {
	case "option":
		if hasAttr(n, "selected") {
			return true
		}
		// A single-select with nothing marked selected shows its first option.
		sel := closest(n, "select")
		if sel == nil || hasAttr(sel, "multiple") {
			return false
		}
		opts := options(sel)
		for _, o := range opts {
			if hasAttr(o, "selected") {
				return false
			}
		}
		return len(opts) > 0 && opts[0] == n
	case "input":
		return hasAttr(n, "checked")
	}
	return false
}

// visibleText approximates the rendered text of n: hidden subtrees are skipped, whitespace is
// collapsed within each line, and block elements start new lines.
func visibleText(n *html.Node) string {
	if !isDisplayed(n) {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
			return
		case html.ElementNode:
			if !selfVisible(c) {
				return
			}
			if c.Data == "br" {
				sb.WriteString("\n")
				return
			}
		}
		block := c.Type == html.ElementNode && blockElements[c.Data]
		if block {
			sb.WriteString("\n")
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if block {
			sb.WriteString("\n")
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func textContent(n *html.Node) string {
	return goquery.NewDocumentFromNode(n).Text()
}

// value is the current value of a form control.
func value(n *html.Node) string {
	switch n.Data {
	case "textarea":
		return textContent(n)
	case "select":
		for _, o := range options(n) {
			if hasAttr(o, "selected") {
				return optionValue(o)
			}
		}
		if opts := options(n); len(opts) > 0 && !hasAttr(n, "multiple") {
			return optionValue(opts[0])
		}
		return ""
	case "option":
		return optionValue(n)
	}
	return attrOr(n, "value", "")
}

func setValue(n *html.Node, v string) {
	if n.Data == "textarea" {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		return
	}
	setAttr(n, "value", v)
}

func options(selectNode *html.Node) []*html.Node {
	return goquery.NewDocumentFromNode(selectNode).Find("option").Nodes
}

func optionValue(o *html.Node) string {
	if v, ok := attr(o, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(o))
}

func closest(n *html.Node, tag string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

func maxLength(n *html.Node) int {
	v, ok := attr(n, "maxlength")
	if !ok {
		return -1
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 0 {
		return -1
	}
	return i
}

func isFocusable(n *html.Node) bool {
	switch n.Data {
	case "input", "select", "textarea", "button":
		return inputType(n) != "hidden"
	case "a":
		return hasAttr(n, "href")
	}
	return hasAttr(n, "tabindex")
}

func elements(root *html.Node) []*html.Node {
	var ret []*html.Node
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			ret = append(ret, c)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return ret
}
