// Package lifecycle runs browser tests: each test gets its own execution context and driver, and
// when the test ends the driver is always quit, with a screenshot attached first if the test
// failed.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/report"
)

const (
	logCategory = "lifecycle"

	ScreenshotName     = "Screenshot"
	ScreenshotMimeType = "image/png"
)

// Host binds the settings, the driver factory and the attachment backend that every test uses.
type Host struct {
	settings config.Settings
	factory  *driver.Factory
	attacher report.Attacher
	logger   *log.Logger
}

type HostOption helpers.ConfigOption[Host]

type hostOptionFunc func(*Host) error

func (f hostOptionFunc) Configure(h *Host) error { return f(h) }

// WithAttacher sets where failure screenshots go. Without one, screenshots are not taken.
func WithAttacher(attacher report.Attacher) HostOption {
	return hostOptionFunc(func(h *Host) error {
		h.attacher = attacher
		return nil
	})
}

func WithLogger(logger *log.Logger) HostOption {
	return hostOptionFunc(func(h *Host) error {
		if logger != nil {
			h.logger = logger
		}
		return nil
	})
}

func NewHost(settings config.Settings, factory *driver.Factory, options ...HostOption) (*Host, error) {
	if factory == nil {
		return nil, errors.New("a driver factory is required")
	}
	h := &Host{settings: settings, factory: factory, logger: log.NewNullLogger()}
	if err := helpers.ApplyOptions[Host, HostOption](h, options...); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) Settings() config.Settings { return h.settings }

func (h *Host) Factory() *driver.Factory { return h.factory }

// SuiteStarted logs the settings the suite runs with.
func (h *Host) SuiteStarted() {
	h.logger.Infof(logCategory, "=== Starting test suite ===")
	h.logger.Infof(logCategory, "Environment: %s", h.settings.Environment)
	h.logger.Infof(logCategory, "Base URL: %s", h.settings.BaseURL)
	h.logger.Infof(logCategory, "Browser: %s", h.settings.Browser)
	h.logger.Infof(logCategory, "Headless: %t", h.settings.Headless)
	h.logger.Infof(logCategory, "Thread count: %d", h.settings.ThreadCount)
}

// SuiteFinished logs a summary of the results.
func (h *Host) SuiteFinished(results webtest.Results) {
	h.logger.Infof(logCategory, "=== Test suite completed: %d tests, %d failed ===",
		len(results.Tests), len(results.Failures))
	for _, f := range results.Failures {
		h.logger.Errorf(logCategory, "FAILED: %s", f.TestID)
	}
}

// Test runs body as a subtest of t named name.
func (h *Host) Test(t *webtest.T, name string, body func(*webtest.T, *Session)) {
	t.Run(name, h.Action(body))
}

// Subtest wraps body for use with webtest.T.RunParallel.
func (h *Host) Subtest(name string, body func(*webtest.T, *Session)) webtest.Subtest {
	return webtest.Subtest{Name: name, Action: h.Action(body)}
}

// Action wraps body into a test action that sets up and tears down a browser session around it.
func (h *Host) Action(body func(*webtest.T, *Session)) func(*webtest.T) {
	return func(t *webtest.T) {
		ctx, id := driver.NewExecutionContext(context.Background())
		h.logger.Infof(logCategory, "Setting up test %s (execution context %s)", t.ID(), id)
		t.Defer(func() { h.testFinished(t, ctx) })

		d, err := h.factory.Create(ctx, h.settings.Browser)
		if err != nil {
			h.logger.Errorf(logCategory, "Failed to set up test %s: %s", t.ID(), err)
			t.Errorf("test setup failed: %s", err)
			t.FailNow()
		}
		if err := d.Get(h.settings.BaseURL); err != nil {
			h.logger.Errorf(logCategory, "Failed to open %s for test %s: %s", h.settings.BaseURL, t.ID(), err)
			t.Errorf("test setup failed: navigating to base URL: %s", err)
			t.FailNow()
		}
		h.logger.Infof(logCategory, "Navigated to base URL: %s", h.settings.BaseURL)

		body(t, &Session{
			ctx:      ctx,
			id:       id,
			driver:   d,
			settings: h.settings,
			logger:   h.logger,
			debug:    t.DebugLogger(),
		})
	}
}

// testFinished runs on every exit path of a test.
func (h *Host) testFinished(t *webtest.T, ctx context.Context) {
	switch {
	case t.Skipped():
		h.logger.Warnf(logCategory, "Test skipped: %s (%s)", t.ID(), t.SkipReason())
	case t.Failed():
		h.logger.Errorf(logCategory, "Test failed: %s", t.ID())
		for _, err := range t.Errors() {
			h.logger.Errorf(logCategory, "  %s", err)
		}
		switch {
		case !h.settings.ScreenshotOnFailure:
		case t.IsTrialAttempt():
			h.logger.Infof(logCategory, "No screenshot for %s: attempt %d will be retried", t.ID(), t.Attempt())
		default:
			h.attachScreenshot(t, ctx)
		}
	default:
		h.logger.Infof(logCategory, "Test passed: %s", t.ID())
	}

	h.logger.Infof(logCategory, "Tearing down test %s", t.ID())
	if err := h.factory.Quit(ctx); err != nil {
		h.logger.Errorf(logCategory, "Error during teardown of %s: %s", t.ID(), err)
	}
}

// attachScreenshot is best-effort: nothing it does changes the test's outcome.
func (h *Host) attachScreenshot(t *webtest.T, ctx context.Context) {
	if h.attacher == nil {
		return
	}
	d, err := h.factory.Get(ctx)
	if err != nil {
		h.logger.Warnf(logCategory, "No screenshot for %s: %s", t.ID(), err)
		return
	}
	if !d.Capabilities().Has(framework.CapabilityScreenshots) {
		h.logger.Warnf(logCategory, "No screenshot for %s: the browser cannot take screenshots", t.ID())
		return
	}
	png, err := d.Screenshot()
	if err != nil {
		h.logger.Errorf(logCategory, "Failed to capture screenshot for %s: %s", t.ID(), err)
		return
	}
	attachment, err := h.attacher.Attach(t.ID(), ScreenshotName, ScreenshotMimeType, png)
	if attachment.Location != "" {
		t.RecordAttachment(attachment)
		h.logger.Infof(logCategory, "Screenshot for %s saved to %s", t.ID(), attachment.Location)
	}
	if err != nil {
		h.logger.Errorf(logCategory, "Failed to attach screenshot for %s: %s", t.ID(), err)
	}
}

// NewAttacher builds the attachment backend the settings describe: a directory, plus an S3
// bucket when one is configured.
func NewAttacher(settings config.Settings, options ...report.S3Option) (report.Attacher, error) {
	attachers := report.MultiAttacher{report.NewDirAttacher(settings.AttachmentsDir)}
	if settings.AttachmentsS3Bucket != "" {
		s3, err := report.NewS3Attacher(settings.AttachmentsS3Bucket, settings.AttachmentsS3Region, options...)
		if err != nil {
			return nil, fmt.Errorf("configuring S3 attachments: %w", err)
		}
		attachers = append(attachers, s3)
	}
	return attachers, nil
}
