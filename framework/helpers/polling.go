package helpers

import (
	"time"
)

// PollUntil calls testFn immediately and then at each interval until it returns true or the
// timeout elapses. It returns true if the condition was met. It runs on the calling goroutine.
func PollUntil(testFn func() bool, timeout time.Duration, interval time.Duration) bool {
	_, ok := PollForValue(func() (struct{}, bool) { return struct{}{}, testFn() }, timeout, interval)
	return ok
}

// PollForValue is like PollUntil, but the condition function also produces a value, which is
// returned from the last successful call.
func PollForValue[V any](testFn func() (V, bool), timeout time.Duration, interval time.Duration) (V, bool) {
	if value, ok := testFn(); ok {
		return value, true
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case <-deadline.C:
			// one last look, so that a condition that became true exactly at the deadline counts
			return testFn()
		case <-ticker.C:
			if value, ok := testFn(); ok {
				return value, true
			}
		}
	}
}

// AssertEventually is like assert.Eventually from testify, but does not start a separate
// goroutine, so it is safe to use from a webtest.T scope.
func AssertEventually(
	t TestContext,
	testFn func() bool,
	timeout time.Duration,
	interval time.Duration,
	failureMsgFormat string,
	failureMsgArgs ...interface{},
) bool {
	if PollUntil(testFn, timeout, interval) {
		return true
	}
	t.Errorf(failureMsgFormat, failureMsgArgs...)
	return false
}

// RequireEventually is AssertEventually followed by FailNow on failure.
func RequireEventually(
	t TestContext,
	testFn func() bool,
	timeout time.Duration,
	interval time.Duration,
	failureMsgFormat string,
	failureMsgArgs ...interface{},
) {
	if !AssertEventually(t, testFn, timeout, interval, failureMsgFormat, failureMsgArgs...) {
		t.FailNow()
	}
}
