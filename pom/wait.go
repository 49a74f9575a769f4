package pom

import (
	"errors"
	"fmt"
	"time"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/helpers"
)

// PollInterval is how often wait predicates are re-evaluated.
const PollInterval = 50 * time.Millisecond

// Condition is a wait predicate over a resolved element.
type Condition struct {
	Name string
	Test func(driver.Element) (bool, error)
}

var ( //nolint:gochecknoglobals
	// Visible holds when the element is displayed.
	Visible = Condition{"visible", func(el driver.Element) (bool, error) {
		return el.IsDisplayed()
	}}

	// Clickable holds when the element is displayed and enabled.
	Clickable = Condition{"clickable", func(el driver.Element) (bool, error) {
		if shown, err := el.IsDisplayed(); err != nil || !shown {
			return false, err
		}
		return el.IsEnabled()
	}}

	// Present holds as soon as the element can be found.
	Present = Condition{"present", func(driver.Element) (bool, error) {
		return true, nil
	}}
)

// TextEquals holds when the element's value, or its visible text if it has no value, equals text.
func TextEquals(text string) Condition {
	return Condition{fmt.Sprintf("text %q", text), func(el driver.Element) (bool, error) {
		v, err := el.GetAttribute("value")
		if err != nil {
			return false, err
		}
		if v == "" {
			if v, err = el.Text(); err != nil {
				return false, err
			}
		}
		return v == text, nil
	}}
}

// WaitFor polls until cond holds for e or the timeout elapses. Lookup failures and stale handles
// during polling are retried. On timeout it returns an ActionFailedError whose cause wraps
// ErrWaitTimeout and names the condition.
func WaitFor(e *Element, cond Condition, timeout time.Duration) (driver.Element, error) {
	if e == nil {
		return nil, actionFailed("<unbound>", "wait for "+cond.Name, ErrUnboundElement)
	}
	if e.driver == nil {
		return nil, actionFailed(e.name, "wait for "+cond.Name, ErrUnboundElement)
	}
	var lastErr error
	found, ok := helpers.PollForValue(func() (driver.Element, bool) {
		el, err := e.Resolve()
		if err != nil {
			lastErr = err
			return nil, false
		}
		holds, err := cond.Test(el)
		if err != nil {
			lastErr = err
			if errors.Is(err, driver.ErrStaleElement) {
				e.Invalidate()
			}
			return nil, false
		}
		return el, holds
	}, timeout, PollInterval)
	if ok {
		return found, nil
	}
	cause := fmt.Errorf("%w after %s waiting for %s to be %s", ErrWaitTimeout, timeout, e.by, cond.Name)
	if lastErr != nil {
		cause = fmt.Errorf("%w (last error: %s)", cause, lastErr)
	}
	return nil, actionFailed(e.name, "wait for "+cond.Name, cause)
}

// WaitForInvisible polls until e is absent or not displayed.
func WaitForInvisible(e *Element, timeout time.Duration) error {
	if e == nil || e.driver == nil {
		return actionFailed(nameOf(e), "wait for invisible", ErrUnboundElement)
	}
	gone := helpers.PollUntil(func() bool {
		e.Invalidate()
		el, err := e.Resolve()
		if err != nil {
			return errors.Is(err, driver.ErrNoSuchElement)
		}
		shown, err := el.IsDisplayed()
		return (err == nil && !shown) || errors.Is(err, driver.ErrStaleElement)
	}, timeout, PollInterval)
	if !gone {
		return actionFailed(e.name, "wait for invisible",
			fmt.Errorf("%w after %s waiting for %s to be invisible", ErrWaitTimeout, timeout, e.by))
	}
	return nil
}

func nameOf(e *Element) string {
	if e == nil {
		return "<unbound>"
	}
	return e.name
}
