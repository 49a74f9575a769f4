package pom

import (
	"errors"
	"fmt"

	"github.com/pomkit/pom-test-harness/driver"
)

// Element is a lazily resolved reference to a page element. The underlying driver.Element is
// looked up on first use and cached; if the driver later reports it stale, for instance after
// navigation, the next use looks it up again in the current document.
//
// Elements are created by an ElementFactory and belong to a single execution context.
type Element struct {
	name   string
	by     driver.By
	driver driver.Driver
	cached driver.Element
}

func (e *Element) Name() string {
	if e == nil {
		return "unbound element"
	}
	return e.name
}

func (e *Element) By() driver.By { return e.by }

func (e *Element) String() string {
	return fmt.Sprintf("%s (%s)", e.name, e.by)
}

// Resolve returns the driver element, looking it up if there is no cached handle.
func (e *Element) Resolve() (driver.Element, error) {
	if e == nil || e.driver == nil {
		return nil, ErrUnboundElement
	}
	if e.cached != nil {
		return e.cached, nil
	}
	found, err := e.driver.FindElement(e.by)
	if err != nil {
		return nil, err
	}
	e.cached = found
	return found, nil
}

// Invalidate drops the cached handle.
func (e *Element) Invalidate() {
	if e != nil {
		e.cached = nil
	}
}

// Do runs fn against the resolved element. If fn reports a stale element, the element is resolved
// again and fn is run once more.
func (e *Element) Do(fn func(driver.Element) error) error {
	found, err := e.Resolve()
	if err != nil {
		return err
	}
	err = fn(found)
	if errors.Is(err, driver.ErrStaleElement) {
		e.Invalidate()
		if found, err = e.Resolve(); err != nil {
			return err
		}
		err = fn(found)
	}
	return err
}

// All returns every element currently matching the locator. The result is not cached.
func (e *Element) All() ([]driver.Element, error) {
	if e == nil || e.driver == nil {
		return nil, ErrUnboundElement
	}
	return e.driver.FindElements(e.by)
}

// ElementFactory binds locators to a driver. It keeps track of the elements it has created so
// that they can all be invalidated together.
type ElementFactory struct {
	driver   driver.Driver
	elements []*Element
}

func NewElementFactory(d driver.Driver) *ElementFactory {
	return &ElementFactory{driver: d}
}

// Find declares an element. Nothing is looked up until the element is used.
func (f *ElementFactory) Find(name string, by driver.By) *Element {
	e := &Element{name: name, by: by, driver: f.driver}
	f.elements = append(f.elements, e)
	return e
}

// Invalidate drops the cached handles of every element created by this factory.
func (f *ElementFactory) Invalidate() {
	for _, e := range f.elements {
		e.Invalidate()
	}
}
