package mockbrowser

import (
	"context"
	"net/http"
	"sync"

	"github.com/pomkit/pom-test-harness/driver"
)

// Launcher is a driver.Launcher that starts simulated browsers against Handler.
type Launcher struct {
	Handler http.Handler
	Options []Option

	// Err, if set, makes every launch fail with this error.
	Err error

	lock     sync.Mutex
	launched []driver.BrowserOptions
	browsers []*Browser
}

func (l *Launcher) Launch(_ context.Context, opts driver.BrowserOptions) (driver.Driver, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.launched = append(l.launched, opts)
	if l.Err != nil {
		return nil, l.Err
	}
	b := New(l.Handler, l.Options...)
	l.browsers = append(l.browsers, b)
	return b, nil
}

// Launched returns the options of every launch attempt, in order.
func (l *Launcher) Launched() []driver.BrowserOptions {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]driver.BrowserOptions(nil), l.launched...)
}

// Browsers returns every browser started so far, in order.
func (l *Launcher) Browsers() []*Browser {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]*Browser(nil), l.browsers...)
}
