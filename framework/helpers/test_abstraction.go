package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// TestContext is the minimal interface shared by *testing.T and *webtest.T for a test that can
// fail. Functions can use this to avoid depending on either package.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
}

// TestRecorder is a TestContext that only records what happened, for testing helpers that take a
// TestContext.
type TestRecorder struct {
	Errors           []string
	Terminated       bool
	PanicOnTerminate bool
}

func (r *TestRecorder) Errorf(msgFormat string, msgArgs ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(msgFormat, msgArgs...))
}

func (r *TestRecorder) FailNow() {
	r.Terminated = true
	if r.PanicOnTerminate {
		panic(r)
	}
}

// Err returns all recorded errors joined into one, or nil if there were none.
func (r *TestRecorder) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, ", "))
}
