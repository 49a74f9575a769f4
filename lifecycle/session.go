package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/pom"
)

// Session is what a test body works with: its driver, the settings, and its execution context.
type Session struct {
	ctx      context.Context
	id       driver.ExecutionID
	driver   driver.Driver
	settings config.Settings
	logger   *log.Logger
	debug    framework.Logger
}

func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) ExecutionID() driver.ExecutionID { return s.id }

func (s *Session) Driver() driver.Driver { return s.driver }

func (s *Session) Settings() config.Settings { return s.settings }

func (s *Session) Logger() *log.Logger { return s.logger }

// PageConfig is the configuration to build page objects with.
func (s *Session) PageConfig() pom.Config {
	return pom.ConfigFromSettings(s.driver, s.settings, s.logger)
}

// NavigateTo loads url, resolving it against the base URL if it is a path.
func (s *Session) NavigateTo(url string) error {
	if strings.HasPrefix(url, "/") {
		url = s.PageConfig().URL(url)
	}
	s.logger.Infof(logCategory, "Navigating to %s", url)
	if err := s.driver.Get(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// LogStep records a test step in the suite log and the test's debug output.
func (s *Session) LogStep(format string, args ...interface{}) {
	step := fmt.Sprintf(format, args...)
	s.logger.Infof(logCategory, "Test step: %s", step)
	if s.debug != nil {
		s.debug.Printf("step: %s", step)
	}
}

func (s *Session) VerifyURLContains(part string) bool {
	current, err := s.driver.CurrentURL()
	if err != nil {
		s.logger.Errorf(logCategory, "URL verification failed: %s", err)
		return false
	}
	contains := strings.Contains(current, part)
	s.logger.Infof(logCategory, "URL verification - current URL: %s, expected part: %s, contains: %t",
		current, part, contains)
	return contains
}

func (s *Session) VerifyTitleContains(part string) bool {
	title, err := s.driver.Title()
	if err != nil {
		s.logger.Errorf(logCategory, "Title verification failed: %s", err)
		return false
	}
	contains := strings.Contains(title, part)
	s.logger.Infof(logCategory, "Title verification - current title: %s, expected part: %s, contains: %t",
		title, part, contains)
	return contains
}
