// Package internal contains test helpers for webtest.
package internal

// RunAction is used only in unit tests. It lives in a separate package so that stacktrace
// filtering can be tested against a frame outside of webtest.
func RunAction(action func()) {
	action()
}
