package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedBrowser is the cause of a DriverConstructionError for an unknown browser name.
	ErrUnsupportedBrowser = errors.New("unsupported browser")

	// ErrNoExecutionContext means a context.Context without an execution ID was passed to the
	// Factory; see NewExecutionContext.
	ErrNoExecutionContext = errors.New("no execution context")

	// ErrNoSuchElement is returned when a locator matches nothing.
	ErrNoSuchElement = errors.New("no such element")

	// ErrStaleElement is returned when an element's node is no longer in the current document.
	ErrStaleElement = errors.New("stale element reference")

	// ErrElementNotInteractable is returned when an element cannot receive the requested input,
	// for instance typing into a disabled field.
	ErrElementNotInteractable = errors.New("element not interactable")
)

// DriverConstructionError is returned by Factory.Create when the browser name is not recognised
// or the underlying driver binding fails to start a session.
type DriverConstructionError struct {
	Browser string
	Err     error
}

func (e *DriverConstructionError) Error() string {
	return fmt.Sprintf("failed to create %q driver: %v", e.Browser, e.Err)
}

func (e *DriverConstructionError) Unwrap() error { return e.Err }

// DriverMissingError is returned when a driver is requested for an execution context that has none.
type DriverMissingError struct {
	ExecutionID ExecutionID
}

func (e *DriverMissingError) Error() string {
	if e.ExecutionID == "" {
		return "driver is not initialised: no execution context"
	}
	return fmt.Sprintf("driver is not initialised for execution context %s", e.ExecutionID)
}
