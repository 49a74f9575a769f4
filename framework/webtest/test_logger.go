package webtest

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pomkit/pom-test-harness/framework"

	"github.com/fatih/color"
)

var consoleTestErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleTestFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleTestSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)               //nolint:gochecknoglobals
var consoleAttachmentColor = color.New(color.FgCyan)               //nolint:gochecknoglobals
var allTestsPassedColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals

// TestLogger receives status information about each test as the run progresses. Implementations
// must be safe for concurrent use, since subtests may run in parallel.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput)
	TestSkipped(id TestID, reason string)
	EndLog(results Results) error
}

// AttachmentLogger is implemented by TestLoggers that want to hear about attachments as soon as
// they are recorded.
type AttachmentLogger interface {
	TestAttachment(id TestID, attachment Attachment)
}

type nullTestLogger struct{}

func (nullTestLogger) TestStarted(TestID)                                        {}
func (nullTestLogger) TestError(TestID, error)                                   {}
func (nullTestLogger) TestFinished(TestID, TestResult, framework.CapturedOutput) {}
func (nullTestLogger) TestSkipped(TestID, string)                                {}
func (nullTestLogger) EndLog(Results) error                                      { return nil }

// ConsoleTestLogger prints test progress to standard output.
type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	lock                 sync.Mutex
}

func (c *ConsoleTestLogger) TestStarted(id TestID) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id TestID, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = consoleTestErrorColor.Printf("  %s\n", line)
	}
	var es ErrorWithStacktrace
	if errors.As(err, &es) {
		for _, s := range es.Stacktrace {
			_, _ = consoleTestErrorColor.Printf("    at %s\n", s)
		}
	}
}

func (c *ConsoleTestLogger) TestAttachment(id TestID, a Attachment) {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, _ = consoleAttachmentColor.Printf("  ATTACHED %s (%s, %d bytes): %s\n", a.Name, a.MimeType, a.Size, a.Location)
}

func (c *ConsoleTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()
	failed := len(result.Errors) != 0
	if failed {
		_, _ = consoleTestFailedColor.Printf("  FAILED: %s\n", id)
	} else if result.Attempts > 1 {
		_, _ = allTestsPassedColor.Printf("  passed on attempt %d: %s\n", result.Attempts, id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Println(debugOutput.ToString("    DEBUG "))
	}
}

func (c *ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		_, _ = consoleTestSkippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleTestSkippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c *ConsoleTestLogger) EndLog(results Results) error {
	PrintResults(results)
	return nil
}

// MultiTestLogger sends every event to each of its loggers in order.
type MultiTestLogger struct {
	Loggers []TestLogger
}

func (m *MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m.Loggers {
		l.TestStarted(id)
	}
}

func (m *MultiTestLogger) TestError(id TestID, err error) {
	for _, l := range m.Loggers {
		l.TestError(id, err)
	}
}

func (m *MultiTestLogger) TestAttachment(id TestID, a Attachment) {
	for _, l := range m.Loggers {
		if al, ok := l.(AttachmentLogger); ok {
			al.TestAttachment(id, a)
		}
	}
}

func (m *MultiTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	for _, l := range m.Loggers {
		l.TestFinished(id, result, debugOutput)
	}
}

func (m *MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m.Loggers {
		l.TestSkipped(id, reason)
	}
}

// EndLog calls EndLog on every logger and returns the first error, if any.
func (m *MultiTestLogger) EndLog(results Results) error {
	var firstErr error
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func PrintResults(results Results) {
	if results.OK() {
		_, _ = allTestsPassedColor.Printf("All tests passed (%d)\n", len(results.Tests))
		return
	}
	_, _ = consoleTestFailedColor.Fprintf(os.Stderr, "FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		_, _ = consoleTestFailedColor.Fprintf(os.Stderr, "  * %s\n", f.TestID)
	}
}
