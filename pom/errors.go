package pom

import (
	"errors"
	"fmt"
)

// ErrWaitTimeout is the cause of an ActionFailedError when a wait predicate did not become true
// within the explicit wait.
var ErrWaitTimeout = errors.New("timed out")

// ErrUnboundElement is the cause of an ActionFailedError for a wrapper or action given a nil element.
var ErrUnboundElement = errors.New("element is not bound to a driver")

// ActionFailedError reports an element interaction that could not be completed. Element is the
// human-readable name of the element.
type ActionFailedError struct {
	Element string
	Action  string
	Cause   error
}

func (e *ActionFailedError) Error() string {
	return fmt.Sprintf("failed to %s %q: %v", e.Action, e.Element, e.Cause)
}

func (e *ActionFailedError) Unwrap() error { return e.Cause }

func actionFailed(element, action string, cause error) error {
	var existing *ActionFailedError
	if errors.As(cause, &existing) && existing.Element == element {
		return cause
	}
	return &ActionFailedError{Element: element, Action: action, Cause: cause}
}

// PageNotLoadedError is returned by RequireLoaded when a page's loaded predicate is false.
type PageNotLoadedError struct {
	Page string
	URL  string
}

func (e *PageNotLoadedError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s is not loaded", e.Page)
	}
	return fmt.Sprintf("%s is not loaded (current URL: %s)", e.Page, e.URL)
}
