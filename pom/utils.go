package pom

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/log"
)

const utilsCategory = "PageObjectUtils"

func pollUntil(fn func() bool, timeout time.Duration) bool {
	return helpers.PollUntil(fn, timeout, PollInterval)
}

// WaitForPageLoad waits until the document's readyState is "complete".
func WaitForPageLoad(d driver.Driver, timeout time.Duration) error {
	var lastErr error
	ok := pollUntil(func() bool {
		state, err := d.ExecuteScript(driver.ScriptReadyState, nil)
		if err != nil {
			lastErr = err
			return false
		}
		return state == "complete"
	}, timeout)
	if ok {
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w after %s waiting for page load: %s", ErrWaitTimeout, timeout, lastErr)
	}
	return fmt.Errorf("%w after %s waiting for page load", ErrWaitTimeout, timeout)
}

func ScrollIntoView(d driver.Driver, el driver.Element) error {
	_, err := d.ExecuteScript(driver.ScriptScrollIntoView, []interface{}{el})
	return err
}

// HighlightElement outlines the element, which makes it easy to spot in screenshots.
func HighlightElement(d driver.Driver, el driver.Element) error {
	_, err := d.ExecuteScript(driver.ScriptHighlight, []interface{}{el})
	return err
}

// ElementScreenshot returns a PNG of one element, or nil if it could not be taken.
func ElementScreenshot(el *Element, logger *log.Logger) []byte {
	var png []byte
	err := el.Do(func(found driver.Element) error {
		var err error
		png, err = found.Screenshot()
		return err
	})
	if err != nil {
		if logger != nil {
			logger.Errorf(utilsCategory, "Failed to take screenshot of %s: %s", nameOf(el), err)
		}
		return nil
	}
	return png
}

// IsElementInViewport reports whether the element is fully inside the visible viewport. Errors
// count as false.
func IsElementInViewport(d driver.Driver, el driver.Element) bool {
	result, err := d.ExecuteScript(driver.ScriptInViewport, []interface{}{el})
	if err != nil {
		return false
	}
	inView, _ := result.(bool)
	return inView
}

// FindElementWithRetry looks up by up to attempts times, pausing interval between tries.
func FindElementWithRetry(d driver.Driver, by driver.By, attempts int, interval time.Duration) (driver.Element, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(interval)
		}
		el, err := d.FindElement(by)
		if err == nil {
			return el, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%s not found after %d attempts: %w", by, attempts, lastErr)
}

// ElementTextSafely returns the trimmed visible text, or "" on any error.
func ElementTextSafely(el *Element) string {
	var text string
	_ = el.Do(func(found driver.Element) error {
		var err error
		text, err = found.Text()
		return err
	})
	return strings.TrimSpace(text)
}

// ElementAttributeSafely returns an attribute value, or "" on any error.
func ElementAttributeSafely(el *Element, name string) string {
	var value string
	_ = el.Do(func(found driver.Element) error {
		var err error
		value, err = found.GetAttribute(name)
		return err
	})
	return value
}

// VerifyPageObjectInitialization checks that every exported or unexported field of the page
// object holding an *Element, or a pointer to a struct such as a wrapper or component, is set.
// It returns an error naming the first nil field.
func VerifyPageObjectInitialization(pageObject interface{}) error {
	v := reflect.ValueOf(pageObject)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.New("page object must be a non-nil pointer to a struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return errors.New("page object must be a non-nil pointer to a struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Ptr && fv.Type().Elem().Kind() == reflect.Struct && fv.IsNil() {
			return fmt.Errorf("%s.%s is not initialised", t.Name(), field.Name)
		}
	}
	return nil
}

// WaitForElementToBeStable waits until the element reports the same location on two consecutive
// polls.
func WaitForElementToBeStable(el *Element, timeout time.Duration) error {
	var last *driver.Point
	ok := pollUntil(func() bool {
		var loc driver.Point
		err := el.Do(func(found driver.Element) error {
			var err error
			loc, err = found.Location()
			return err
		})
		if err != nil {
			last = nil
			return false
		}
		stable := last != nil && *last == loc
		last = &loc
		return stable
	}, timeout)
	if !ok {
		return actionFailed(nameOf(el), "wait for stable position of",
			fmt.Errorf("%w after %s", ErrWaitTimeout, timeout))
	}
	return nil
}
