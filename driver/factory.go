package driver

import (
	"context"
	"errors"
	"time"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/log"
)

const logCategory = "driver"

// Launcher starts a browser session. The Factory applies timeouts and window configuration
// afterward, so a Launcher only has to produce a connected Driver.
type Launcher interface {
	Launch(ctx context.Context, opts BrowserOptions) (Driver, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, opts BrowserOptions) (Driver, error)

func (f LauncherFunc) Launch(ctx context.Context, opts BrowserOptions) (Driver, error) {
	return f(ctx, opts)
}

// Factory creates drivers and tracks them per execution context.
type Factory struct {
	launcher        Launcher
	registry        *Registry
	logger          *log.Logger
	implicitWait    time.Duration
	pageLoadTimeout time.Duration
	headless        bool
	maximize        bool
	remoteURL       string
}

// FactoryOption is a functional option for NewFactory.
type FactoryOption helpers.ConfigOption[Factory]

type factoryOptionFunc func(*Factory) error

func (f factoryOptionFunc) Configure(target *Factory) error { return f(target) }

// WithLauncher sets how browsers are started. The default is a SeleniumLauncher.
func WithLauncher(launcher Launcher) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		if launcher == nil {
			return errors.New("launcher must not be nil")
		}
		f.launcher = launcher
		return nil
	})
}

func WithLogger(logger *log.Logger) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		f.logger = logger
		return nil
	})
}

// WithTimeouts sets the implicit wait and page-load timeout applied to every new driver.
func WithTimeouts(implicitWait, pageLoadTimeout time.Duration) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		if implicitWait < 0 || pageLoadTimeout < 0 {
			return errors.New("timeouts must not be negative")
		}
		f.implicitWait, f.pageLoadTimeout = implicitWait, pageLoadTimeout
		return nil
	})
}

// WithRegistry shares a Registry between factories.
func WithRegistry(registry *Registry) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		f.registry = registry
		return nil
	})
}

// WithHeadless and WithMaximize control the browser window.
func WithHeadless(headless bool) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		f.headless = headless
		return nil
	})
}

func WithMaximize(maximize bool) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		f.maximize = maximize
		return nil
	})
}

// WithRemoteURL makes the default launcher connect to an existing WebDriver endpoint.
func WithRemoteURL(url string) FactoryOption {
	return factoryOptionFunc(func(f *Factory) error {
		f.remoteURL = url
		return nil
	})
}

func NewFactory(options ...FactoryOption) (*Factory, error) {
	f := &Factory{
		implicitWait:    config.DefaultImplicitWait,
		pageLoadTimeout: config.DefaultPageLoadTimeout,
		maximize:        config.DefaultMaximizeWindow,
	}
	if err := helpers.ApplyOptions[Factory, FactoryOption](f, options...); err != nil {
		return nil, err
	}
	if f.registry == nil {
		f.registry = NewRegistry()
	}
	if f.logger == nil {
		f.logger = log.NewNullLogger()
	}
	if f.launcher == nil {
		f.launcher = &SeleniumLauncher{Logger: f.logger}
	}
	return f, nil
}

// NewFactoryFromSettings configures a Factory from resolved settings. Options given here are
// applied after the settings, so they take precedence.
func NewFactoryFromSettings(settings config.Settings, options ...FactoryOption) (*Factory, error) {
	all := []FactoryOption{
		WithTimeouts(settings.ImplicitWait, settings.PageLoadTimeout),
		WithHeadless(settings.Headless),
		WithMaximize(settings.MaximizeWindow),
		WithRemoteURL(settings.WebDriverURL),
	}
	return NewFactory(append(all, options...)...)
}

// Registry returns the registry this factory stores drivers in.
func (f *Factory) Registry() *Registry { return f.registry }

// Create starts a browser and stores it as the driver for the execution context in ctx,
// replacing any driver that was already stored there. If construction fails, the stored
// driver is left as it was.
func (f *Factory) Create(ctx context.Context, browser string) (Driver, error) {
	id, ok := ExecutionIDFrom(ctx)
	if !ok {
		return nil, &DriverConstructionError{Browser: browser, Err: ErrNoExecutionContext}
	}
	opts, err := NewBrowserOptions(browser, f.headless, f.remoteURL)
	if err != nil {
		f.logger.Errorf(logCategory, "Unsupported browser %q; expected one of %v", browser, SupportedBrowsers)
		return nil, &DriverConstructionError{Browser: browser, Err: err}
	}
	if opts.Browser == BrowserSafari && f.headless {
		f.logger.Warnf(logCategory, "Safari does not support headless mode; running with a visible window")
	}

	f.logger.Infof(logCategory, "Creating %s driver for execution context %s", opts.Browser, id)
	d, err := f.launcher.Launch(ctx, opts)
	if err != nil {
		return nil, &DriverConstructionError{Browser: opts.Browser, Err: err}
	}
	if err := f.configure(d); err != nil {
		_ = d.Quit()
		return nil, &DriverConstructionError{Browser: opts.Browser, Err: err}
	}

	if previous := f.registry.Put(id, d); previous != nil && previous != d {
		f.logger.Warnf(logCategory, "Replacing existing driver %s for execution context %s", previous.SessionID(), id)
	}
	f.logger.Infof(logCategory, "Driver %s ready", d.SessionID())
	return d, nil
}

func (f *Factory) configure(d Driver) error {
	if err := d.SetImplicitWaitTimeout(f.implicitWait); err != nil {
		return err
	}
	if err := d.SetPageLoadTimeout(f.pageLoadTimeout); err != nil {
		return err
	}
	if f.maximize {
		return d.MaximizeWindow()
	}
	return nil
}

// Get returns the driver for the execution context in ctx.
func (f *Factory) Get(ctx context.Context) (Driver, error) {
	id, ok := ExecutionIDFrom(ctx)
	if !ok {
		return nil, &DriverMissingError{}
	}
	d, ok := f.registry.Get(id)
	if !ok || d == nil {
		return nil, &DriverMissingError{ExecutionID: id}
	}
	return d, nil
}

// Close closes the driver's active window. The driver stays registered.
func (f *Factory) Close(ctx context.Context) error {
	d, err := f.Get(ctx)
	if err != nil {
		return nil
	}
	if err := d.Close(); err != nil {
		f.logger.Errorf(logCategory, "Error closing driver %s: %s", d.SessionID(), err)
		return err
	}
	return nil
}

// Quit ends the session for the execution context in ctx. The driver is unregistered whether or
// not the session ends cleanly; quitting when there is no driver does nothing.
func (f *Factory) Quit(ctx context.Context) error {
	id, ok := ExecutionIDFrom(ctx)
	if !ok {
		return nil
	}
	d := f.registry.Remove(id)
	if d == nil {
		return nil
	}
	f.logger.Infof(logCategory, "Quitting driver %s", d.SessionID())
	if err := d.Quit(); err != nil {
		f.logger.Errorf(logCategory, "Error quitting driver %s: %s", d.SessionID(), err)
		return err
	}
	return nil
}
