package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tebeka/selenium"
)

func TestMapError(t *testing.T) {
	assert.Nil(t, mapError(nil))

	err := mapError(&selenium.Error{Err: "no such element", Message: "Unable to locate element: #missing"})
	assert.ErrorIs(t, err, ErrNoSuchElement)
	assert.Contains(t, err.Error(), "#missing")

	err = mapError(&selenium.Error{Err: "stale element reference", Message: "element is not attached"})
	assert.ErrorIs(t, err, ErrStaleElement)

	err = mapError(&selenium.Error{Err: "element not interactable"})
	assert.ErrorIs(t, err, ErrElementNotInteractable)

	other := errors.New("connection refused")
	assert.Same(t, other, mapError(other))
}

func TestSafariRequiresRemoteURL(t *testing.T) {
	l := &SeleniumLauncher{}
	_, _, err := l.startService(BrowserSafari)
	assert.Error(t, err)
}

func TestMissingDriverExecutable(t *testing.T) {
	l := &SeleniumLauncher{DriverPaths: map[string]string{BrowserChrome: "no-such-chromedriver-binary"}}
	_, _, err := l.startService(BrowserChrome)
	assert.ErrorContains(t, err, "no-such-chromedriver-binary")
}
