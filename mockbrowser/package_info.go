// Package mockbrowser is an in-process stand-in for a WebDriver browser session.
//
// A Browser fetches pages from an http.Handler without opening a socket, parses them into a DOM,
// and implements driver.Driver on top of that DOM: locating elements by every WebDriver strategy
// (XPath included), following links, submitting forms, typing with modifier keys, and reporting
// stale element references after navigation. There is no JavaScript engine and no layout; the
// handful of scripts the page-object helpers run are recognised by their exact text, and
// element geometry is synthetic.
//
// It exists so that page objects, wrappers and the test lifecycle can be exercised end to end
// against the mockapp package in ordinary Go tests.
package mockbrowser
