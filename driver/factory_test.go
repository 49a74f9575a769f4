package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/pomkit/pom-test-harness/framework"
)

type stubDriver struct {
	id           string
	implicitWait time.Duration
	pageLoad     time.Duration
	maximized    bool
	maximizeErr  error
	quitErr      error
	quit         bool
	closed       bool
}

func (d *stubDriver) Get(string) error { return nil }
func (d *stubDriver) CurrentURL() (string, error) { return "", nil }
func (d *stubDriver) Title() (string, error) { return "", nil }
func (d *stubDriver) Refresh() error { return nil }
func (d *stubDriver) Back() error { return nil }
func (d *stubDriver) FindElement(By) (Element, error) { return nil, ErrNoSuchElement }
func (d *stubDriver) FindElements(By) ([]Element, error) { return nil, nil }
func (d *stubDriver) Screenshot() ([]byte, error) { return nil, nil }
func (d *stubDriver) KeyDown(string) error { return nil }
func (d *stubDriver) KeyUp(string) error { return nil }
func (d *stubDriver) Capabilities() framework.Capabilities { return nil }
func (d *stubDriver) SessionID() string { return d.id }
func (d *stubDriver) Close() error {
	d.closed = true
	return nil
}

func (d *stubDriver) Quit() error {
	d.quit = true
	return d.quitErr
}

func (d *stubDriver) SetImplicitWaitTimeout(t time.Duration) error {
	d.implicitWait = t
	return nil
}

func (d *stubDriver) SetPageLoadTimeout(t time.Duration) error {
	d.pageLoad = t
	return nil
}

func (d *stubDriver) ExecuteScript(string, []interface{}) (interface{}, error) {
	return nil, nil
}

func (d *stubDriver) MaximizeWindow() error {
	if d.maximizeErr != nil {
		return d.maximizeErr
	}
	d.maximized = true
	return nil
}

type stubLauncher struct {
	lock     sync.Mutex
	launched []BrowserOptions
	drivers  []*stubDriver
	err      error
	prepare  func(*stubDriver)
}

func (l *stubLauncher) Launch(_ context.Context, opts BrowserOptions) (Driver, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.launched = append(l.launched, opts)
	d := &stubDriver{id: fmt.Sprintf("session-%d", len(l.drivers)+1)}
	if l.prepare != nil {
		l.prepare(d)
	}
	l.drivers = append(l.drivers, d)
	return d, nil
}

func newTestFactory(t *testing.T, launcher Launcher, options ...FactoryOption) *Factory {
	f, err := NewFactory(append([]FactoryOption{WithLauncher(launcher)}, options...)...)
	require.NoError(t, err)
	return f
}

func TestCreateStoresDriverForExecutionContext(t *testing.T) {
	launcher := &stubLauncher{}
	f := newTestFactory(t, launcher, WithTimeouts(3*time.Second, 7*time.Second))
	ctx, _ := NewExecutionContext(context.Background())

	d, err := f.Create(ctx, "Chrome")
	require.NoError(t, err)

	got, err := f.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, d, got)

	stub := d.(*stubDriver)
	assert.Equal(t, 3*time.Second, stub.implicitWait)
	assert.Equal(t, 7*time.Second, stub.pageLoad)
	assert.True(t, stub.maximized)
	require.Len(t, launcher.launched, 1)
	assert.Equal(t, BrowserChrome, launcher.launched[0].Browser)
}

func TestCreateUnknownBrowserLeavesSlotEmpty(t *testing.T) {
	launcher := &stubLauncher{}
	f := newTestFactory(t, launcher)
	ctx, id := NewExecutionContext(context.Background())

	d, err := f.Create(ctx, "netscape")
	assert.Nil(t, d)
	var constructionErr *DriverConstructionError
	require.ErrorAs(t, err, &constructionErr)
	assert.Equal(t, "netscape", constructionErr.Browser)
	assert.ErrorIs(t, err, ErrUnsupportedBrowser)
	assert.Empty(t, launcher.launched)

	_, err = f.Get(ctx)
	var missingErr *DriverMissingError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, id, missingErr.ExecutionID)
}

func TestCreateUnknownBrowserKeepsPreviousDriver(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})
	ctx, _ := NewExecutionContext(context.Background())

	first, err := f.Create(ctx, "firefox")
	require.NoError(t, err)
	_, err = f.Create(ctx, "netscape")
	require.Error(t, err)

	got, err := f.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestCreateReplacesExistingDriver(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})
	ctx, _ := NewExecutionContext(context.Background())

	_, err := f.Create(ctx, "chrome")
	require.NoError(t, err)
	second, err := f.Create(ctx, "edge")
	require.NoError(t, err)

	got, err := f.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 1, f.Registry().Len())
}

func TestCreateLaunchFailure(t *testing.T) {
	cause := errors.New("session not created")
	f := newTestFactory(t, &stubLauncher{err: cause})
	ctx, _ := NewExecutionContext(context.Background())

	_, err := f.Create(ctx, "chrome")
	assert.ErrorIs(t, err, cause)
	var constructionErr *DriverConstructionError
	assert.ErrorAs(t, err, &constructionErr)
	assert.Equal(t, 0, f.Registry().Len())
}

func TestCreateMaximizeFailureQuitsDriver(t *testing.T) {
	launcher := &stubLauncher{prepare: func(d *stubDriver) { d.maximizeErr = errors.New("no window manager") }}
	f := newTestFactory(t, launcher)
	ctx, _ := NewExecutionContext(context.Background())

	_, err := f.Create(ctx, "chrome")
	require.Error(t, err)
	require.Len(t, launcher.drivers, 1)
	assert.True(t, launcher.drivers[0].quit)
	assert.Equal(t, 0, f.Registry().Len())
}

func TestCreateWithoutMaximize(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{}, WithMaximize(false))
	ctx, _ := NewExecutionContext(context.Background())

	d, err := f.Create(ctx, "chrome")
	require.NoError(t, err)
	assert.False(t, d.(*stubDriver).maximized)
}

func TestCreateRequiresExecutionContext(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})

	_, err := f.Create(context.Background(), "chrome")
	assert.ErrorIs(t, err, ErrNoExecutionContext)
}

func TestGetWithoutDriver(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})

	_, err := f.Get(context.Background())
	var missingErr *DriverMissingError
	require.ErrorAs(t, err, &missingErr)
	assert.Contains(t, err.Error(), "not initialised")
}

func TestQuitAlwaysClearsSlot(t *testing.T) {
	launcher := &stubLauncher{prepare: func(d *stubDriver) { d.quitErr = errors.New("connection reset") }}
	f := newTestFactory(t, launcher)
	ctx, _ := NewExecutionContext(context.Background())

	d, err := f.Create(ctx, "chrome")
	require.NoError(t, err)

	assert.Error(t, f.Quit(ctx))
	assert.True(t, d.(*stubDriver).quit)
	_, err = f.Get(ctx)
	assert.Error(t, err)

	assert.NoError(t, f.Quit(ctx))
}

func TestCloseKeepsSlot(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})
	ctx, _ := NewExecutionContext(context.Background())

	d, err := f.Create(ctx, "chrome")
	require.NoError(t, err)
	require.NoError(t, f.Close(ctx))
	assert.True(t, d.(*stubDriver).closed)

	got, err := f.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, d, got)
}

func TestParallelExecutionContextsGetDistinctDrivers(t *testing.T) {
	f := newTestFactory(t, &stubLauncher{})
	const contexts = 8

	sessions := make([]string, contexts)
	var g errgroup.Group
	for i := 0; i < contexts; i++ {
		i := i
		g.Go(func() error {
			ctx, _ := NewExecutionContext(context.Background())
			d, err := f.Create(ctx, "chrome")
			if err != nil {
				return err
			}
			got, err := f.Get(ctx)
			if err != nil {
				return err
			}
			if got != d {
				return errors.New("driver from Get does not match driver from Create")
			}
			sessions[i] = d.SessionID()
			return f.Quit(ctx)
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool)
	for _, s := range sessions {
		assert.False(t, seen[s], "session %s was shared", s)
		seen[s] = true
	}
	assert.Equal(t, 0, f.Registry().Len())
}

func TestNewFactoryRejectsNegativeTimeouts(t *testing.T) {
	_, err := NewFactory(WithTimeouts(-time.Second, 0))
	assert.Error(t, err)
}

func TestNewBrowserOptions(t *testing.T) {
	t.Run("chrome gets hardening args", func(t *testing.T) {
		opts, err := NewBrowserOptions(" CHROME ", false, "")
		require.NoError(t, err)
		assert.Equal(t, BrowserChrome, opts.Browser)
		assert.Equal(t, chromiumHardeningArgs, opts.Args)
	})

	t.Run("headless edge", func(t *testing.T) {
		opts, err := NewBrowserOptions("edge", true, "")
		require.NoError(t, err)
		assert.Contains(t, opts.Args, "--no-sandbox")
		assert.Equal(t, "--headless", opts.Args[len(opts.Args)-1])
	})

	t.Run("headless firefox", func(t *testing.T) {
		opts, err := NewBrowserOptions("firefox", true, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"-headless"}, opts.Args)
	})

	t.Run("safari ignores headless", func(t *testing.T) {
		opts, err := NewBrowserOptions("safari", true, "http://localhost:4444")
		require.NoError(t, err)
		assert.Empty(t, opts.Args)
		assert.Equal(t, "http://localhost:4444", opts.RemoteURL)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewBrowserOptions("netscape", false, "")
		assert.ErrorIs(t, err, ErrUnsupportedBrowser)
	})
}

func TestExecutionContext(t *testing.T) {
	_, ok := ExecutionIDFrom(context.Background())
	assert.False(t, ok)

	ctx1, id1 := NewExecutionContext(context.Background())
	ctx2, id2 := NewExecutionContext(context.Background())
	assert.NotEqual(t, id1, id2)

	got, ok := ExecutionIDFrom(ctx1)
	assert.True(t, ok)
	assert.Equal(t, id1, got)
	got, _ = ExecutionIDFrom(ctx2)
	assert.Equal(t, id2, got)
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "By.id: username", ID("username").String())
	assert.Equal(t, "By.css selector: .nav-link", CSS(".nav-link").String())
}
