package webtest

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/pomkit/pom-test-harness/framework"

	"golang.org/x/sync/errgroup"
)

type environment struct {
	config  TestConfiguration
	results Results
	lock    sync.Mutex

	// trial is set for a retried test's earlier attempts, whose failures are never reported.
	trial bool
}

func (e *environment) record(result TestResult, failed bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if failed {
		e.results.Failures = append(e.results.Failures, result)
	}
	e.results.Tests = append(e.results.Tests, result)
}

func (e *environment) snapshot() Results {
	e.lock.Lock()
	defer e.lock.Unlock()
	return Results{
		Tests:    append([]TestResult(nil), e.results.Tests...),
		Failures: append([]TestResult(nil), e.results.Failures...),
	}
}

// T represents a test scope. It is very similar to Go's testing.T type.
//
// A T must only be used from the goroutine that is running its test function. Subtests started
// with RunParallel each get their own T on their own goroutine.
type T struct {
	env         *environment
	id          TestID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	cleanups    []func()
	errors      []error
	attachments []Attachment
	helperFns   []string
	attempt     int
}

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter is an optional rule for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is an optional value of any type defined by the application which can be accessed from tests.
	Context interface{}

	// Capabilities lists the features of the browser under test; see T.RequireCapability.
	Capabilities framework.Capabilities
}

// Subtest is one entry for RunParallel.
type Subtest struct {
	Name   string
	Action func(*T)
}

// Run starts a top-level test scope and returns the results of everything that ran in it.
func Run(
	config TestConfiguration,
	action func(*T),
) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env, attempt: 1}
	t.run(action)
	return env.snapshot()
}

func (t *T) run(action func(*T)) {
	defer t.finish()
	defer func() {
		if r := recover(); r != nil {
			t.recovered(r)
		}
	}()
	action(t)
}

func (t *T) recovered(r interface{}) {
	if t.skipped {
		return
	}
	t.failed = true
	var addError error
	if _, ok := r.(*T); ok {
		if len(t.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		t.errors = append(t.errors, addError)
		t.env.config.TestLogger.TestError(t.id, addError)
	}
}

// finish runs deferred functions in reverse order and then records the result. A cleanup may still
// fail the test, for instance by calling Errorf, and may add attachments; both are reflected in
// the recorded result.
func (t *T) finish() {
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.recovered(r)
				}
			}()
			t.cleanups[i]()
		}()
	}
	t.cleanups = nil
	if !t.skipped {
		t.env.record(t.result(), t.failed)
	}
}

func (t *T) result() TestResult {
	return TestResult{
		TestID:      t.id,
		Errors:      t.errors,
		Attachments: t.attachments,
		Attempts:    t.attempt,
	}
}

// ID returns the full name of the current test.
func (t *T) ID() TestID {
	return t.id
}

// Run runs a subtest in its own scope.
//
// This is equivalent to Go's testing.T.Run.
func (t *T) Run(name string, action func(*T)) {
	t.runChild(name, action, 1)
}

func (t *T) runChild(name string, action func(*T), attempt int) {
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	if !t.included(id) {
		logger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	child := &T{id: id, env: t.env, attempt: attempt}
	t.debugLogger.AddChildLogger(&child.debugLogger) // see comments on DebugLogger()
	child.run(action)
	t.debugLogger.RemoveChildLogger(&child.debugLogger)
	if child.skipped {
		logger.TestSkipped(id, child.skipReason)
	} else {
		logger.TestFinished(id, child.result(), child.debugLogger.Output())
	}
}

func (t *T) included(id TestID) bool {
	return t.env.config.Filter == nil || t.env.config.Filter.Match(id)
}

// RunParallel runs subtests concurrently, with at most limit of them in flight at once. A limit
// of zero or less means no limit. It returns when all of them have finished.
func (t *T) RunParallel(limit int, subtests ...Subtest) {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, s := range subtests {
		s := s
		g.Go(func() error {
			t.Run(s.Name, s.Action)
			return nil
		})
	}
	_ = g.Wait()
}

// RunWithRetries runs a subtest up to attempts times, stopping at the first attempt that passes.
// Only the final attempt is reported: if an earlier attempt passes it is recorded as the result,
// and otherwise the last attempt runs as a normal subtest with its failures reported as usual.
//
// Attempts other than the last run silently, so output from any subtests they start is not sent
// to the TestLogger.
func (t *T) RunWithRetries(name string, attempts int, action func(*T)) {
	id := t.id.Plus(name)
	if attempts <= 1 || !t.included(id) {
		t.Run(name, action)
		return
	}
	for attempt := 1; attempt < attempts; attempt++ {
		trialConfig := t.env.config
		trialConfig.TestLogger = nullTestLogger{}
		trialEnv := &environment{config: trialConfig, trial: true}
		trial := &T{id: id, env: trialEnv, attempt: attempt}
		trial.run(action)
		if trial.skipped {
			break
		}
		trialResults := trialEnv.snapshot()
		if trialResults.OK() {
			logger := t.env.config.TestLogger
			logger.TestStarted(id)
			for _, r := range trialResults.Tests {
				t.env.record(r, false)
			}
			logger.TestFinished(id, trial.result(), trial.debugLogger.Output())
			return
		}
		t.debugLogger.Printf("attempt %d of %d for %q failed, retrying", attempt, attempts, id)
	}
	t.runChild(name, action, attempts)
}

// Errorf reports a test failure. It is equivalent to Go's testing.T.Errorf. It does not cause the test
// to terminate, but adds the failure message to the output and marks the test as failed.
//
// You will rarely use this method directly; it is part of this type's implementation of the base
// interfaces testing.T and assert.TestingT, allowing it to be called from assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := fmt.Errorf(format, args...)

	stacktrace := getStacktrace(false, t.helperFns)
	err = transformError(err, stacktrace)

	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

// FailNow causes the test to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	panic(t)
}

// Skip causes the test to immediately terminate and be marked as skipped.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

// SkipWithReason is equivalent to Skip but provides a message.
func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// Failed reports whether the test has failed so far. Inside a function registered with Defer, it
// also reflects a failure that terminated the test.
func (t *T) Failed() bool { return t.failed }

// Skipped reports whether the test was skipped. Like Failed, it is meaningful inside Defer.
func (t *T) Skipped() bool { return t.skipped }

// SkipReason returns the message given to SkipWithReason, if any.
func (t *T) SkipReason() string { return t.skipReason }

// Errors returns the failures reported so far.
func (t *T) Errors() []error { return append([]error(nil), t.errors...) }

// Attempt returns 1 for the first run of a test, 2 for its first retry, and so on.
func (t *T) Attempt() int { return t.attempt }

// IsTrialAttempt reports whether this scope belongs to an attempt of RunWithRetries whose
// failure will not be reported, because another attempt follows it. Per-failure side effects such
// as screenshots belong only to attempts for which this returns false.
func (t *T) IsTrialAttempt() bool { return t.env.trial }

// RecordAttachment adds an attachment to this test's result and tells the TestLogger about it.
func (t *T) RecordAttachment(a Attachment) {
	t.attachments = append(t.attachments, a)
	if al, ok := t.env.config.TestLogger.(AttachmentLogger); ok {
		al.TestAttachment(t.id, a)
	}
}

// Attachments returns the attachments recorded so far.
func (t *T) Attachments() []Attachment { return append([]Attachment(nil), t.attachments...) }

// Debug writes a message to the output for this test scope.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger instance for writing output for this test scope.
//
// The output that is captured for a test will be passed to TestLogger.TestFinished at the end of
// the test. The runner can choose whether to display this or not based on command-line options.
//
// When a test has subtests, the logger for a subtest starts out with a copy of any output that
// was already logged for the parent test, and while the subtest runs, further output sent to the
// parent's logger goes to the subtest's logger instead.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Defer schedules a cleanup function which is guaranteed to be called when this test scope
// exits for any reason, including failure and skip. Unlike a Go defer statement, Defer can be
// used from within helper functions.
func (t *T) Defer(cleanupFn func()) {
	t.cleanups = append(t.cleanups, cleanupFn)
}

// Context returns the application-defined context value, if any, that was specified in the
// TestConfiguration.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Capabilities returns the capabilities of the browser under test.
func (t *T) Capabilities() framework.Capabilities {
	return append(framework.Capabilities(nil), t.env.config.Capabilities...)
}

// RequireCapability causes the test to be skipped if the browser under test lacks the capability.
func (t *T) RequireCapability(name string) {
	if !t.Capabilities().Has(name) {
		t.SkipWithReason(fmt.Sprintf("browser does not have capability %q", name))
	}
}

// Helper marks the function that calls it as a test helper that shouldn't appear in stacktraces.
// Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return
	}
	t.helperFns = append(t.helperFns, f.Name())
}
