package config

import (
	"strconv"
	"time"
)

// Settings is a fully parsed snapshot of a Config. Resolve builds it once at process start, so
// that a missing or malformed value stops the run before any browser is launched.
type Settings struct {
	Browser             string
	BaseURL             string
	ImplicitWait        time.Duration
	ExplicitWait        time.Duration
	PageLoadTimeout     time.Duration
	Headless            bool
	MaximizeWindow      bool
	ScreenshotOnFailure bool
	Environment         string
	RetryCount          int
	ThreadCount         int
	WebDriverURL        string
	AttachmentsDir      string
	AttachmentsS3Bucket string
	AttachmentsS3Region string
}

// Resolve evaluates every typed accessor and returns the first error encountered.
func (c *Config) Resolve() (Settings, error) {
	var s Settings
	var err error
	steps := []func() error{
		func() error { s.BaseURL, err = c.BaseURL(); return err },
		func() error { s.Browser, err = c.Browser(); return err },
		func() error { s.ImplicitWait, err = c.ImplicitWait(); return err },
		func() error { s.ExplicitWait, err = c.ExplicitWait(); return err },
		func() error { s.PageLoadTimeout, err = c.PageLoadTimeout(); return err },
		func() error { s.Headless, err = c.Headless(); return err },
		func() error { s.MaximizeWindow, err = c.MaximizeWindow(); return err },
		func() error { s.ScreenshotOnFailure, err = c.ScreenshotOnFailure(); return err },
		func() error { s.Environment, err = c.Environment(); return err },
		func() error { s.RetryCount, err = c.RetryCount(); return err },
		func() error { s.ThreadCount, err = c.ThreadCount(); return err },
		func() error { s.WebDriverURL, err = c.WebDriverURL(); return err },
		func() error { s.AttachmentsDir, err = c.AttachmentsDir(); return err },
		func() error { s.AttachmentsS3Bucket, s.AttachmentsS3Region, err = c.AttachmentsS3(); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// Summary returns the values that are logged at the start of a suite and recorded as report
// properties.
func (s Settings) Summary() map[string]string {
	return map[string]string{
		KeyEnvironment: s.Environment,
		KeyBaseURL:     s.BaseURL,
		KeyBrowser:     s.Browser,
		KeyHeadless:    strconv.FormatBool(s.Headless),
		KeyThreadCount: strconv.Itoa(s.ThreadCount),
	}
}
