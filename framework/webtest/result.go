package webtest

import (
	"fmt"
	"strings"
)

// Results is the outcome of a whole run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of one test scope. Skipped tests do not produce a TestResult.
type TestResult struct {
	TestID      TestID
	Errors      []error
	Attachments []Attachment
	Attempts    int
}

// Attachment describes a file that was stored for a test, such as a failure screenshot. The
// content itself lives wherever the reporting backend put it; Location says where.
type Attachment struct {
	Name     string
	MimeType string
	Location string
	Size     int
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// TestID is the path of names from the root scope to a test.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

// Plus returns a new TestID for a subtest; the receiver is not modified.
func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
