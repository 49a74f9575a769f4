package webtest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pomkit/pom-test-harness/framework"
	o "github.com/pomkit/pom-test-harness/framework/opt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// JUnitTestLogger accumulates results and writes them as JUnit XML in EndLog. Each top-level
// test becomes a test suite. Attachments are listed in each test case's system-out using the
// "[[ATTACHMENT|path]]" convention understood by Jenkins and similar CI tools.
type JUnitTestLogger struct {
	filePath   string
	suiteName  string
	properties map[string]string
	filters    RegexFilters
	testIDs    []TestID // preserves the order that the tests were started in
	tests      map[string]jUnitTestStatus
	lock       sync.Mutex
}

type jUnitTestStatus struct {
	failures    []error
	skipped     o.Maybe[string]
	attachments []Attachment
	attempts    int
	output      string
	startTime   time.Time
	duration    time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
	SystemOut   string               `xml:"system-out,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

// NewJUnitTestLogger creates a logger that will write to filePath. The properties, such as the
// browser and base URL of the run, are copied into every suite.
func NewJUnitTestLogger(
	filePath string,
	suiteName string,
	properties map[string]string,
	filters RegexFilters,
) *JUnitTestLogger {
	return &JUnitTestLogger{
		filePath:   filePath,
		suiteName:  suiteName,
		properties: properties,
		filters:    filters,
		tests:      make(map[string]jUnitTestStatus),
	}
}

func (j *JUnitTestLogger) TestStarted(id TestID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	if _, ok := j.tests[id.String()]; !ok {
		j.testIDs = append(j.testIDs, id)
	}
	j.tests[id.String()] = jUnitTestStatus{
		startTime: time.Now(),
	}
}

func (j *JUnitTestLogger) TestError(id TestID, err error) {
	j.update(id, func(s *jUnitTestStatus) { s.failures = append(s.failures, err) })
}

func (j *JUnitTestLogger) TestAttachment(id TestID, a Attachment) {
	j.update(id, func(s *jUnitTestStatus) { s.attachments = append(s.attachments, a) })
}

func (j *JUnitTestLogger) TestFinished(id TestID, result TestResult, debugOutput framework.CapturedOutput) {
	j.update(id, func(s *jUnitTestStatus) {
		s.output = debugOutput.ToString("")
		s.duration = time.Since(s.startTime)
		s.attempts = result.Attempts
		if len(s.failures) == 0 && len(result.Errors) != 0 {
			// errors from a silent retry attempt are not reported through TestError
			s.failures = append(s.failures, result.Errors...)
		}
	})
}

func (j *JUnitTestLogger) TestSkipped(id TestID, reason string) {
	j.update(id, func(s *jUnitTestStatus) { s.skipped = o.Some(reason) })
}

func (j *JUnitTestLogger) update(id TestID, fn func(*jUnitTestStatus)) {
	j.lock.Lock()
	defer j.lock.Unlock()
	status := j.tests[id.String()]
	fn(&status)
	j.tests[id.String()] = status
}

func (j *JUnitTestLogger) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)

	bytes, err := j.render()
	if err != nil {
		return err
	}
	return os.WriteFile(j.filePath, bytes, 0644) //nolint:gosec
}

func (j *JUnitTestLogger) render() ([]byte, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	properties := []jUnitXMLProperty{
		{Name: "tests.filter.mustMatch", Value: j.filters.MustMatch.String()},
		{Name: "tests.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
	}
	keys := maps.Keys(j.properties)
	slices.Sort(keys)
	for _, k := range keys {
		properties = append(properties, jUnitXMLProperty{Name: k, Value: j.properties[k]})
	}

	var doc jUnitXMLDocument
	for _, topLevelID := range getTopLevelIDs(j.testIDs) {
		suite := jUnitXMLTestSuite{
			Name:       fmt.Sprintf("%s: %s", j.suiteName, topLevelID),
			Properties: properties,
		}
		suiteTotalDuration := time.Duration(0)
		for _, testID := range j.testIDs {
			if len(testID) == 0 || testID[0] != topLevelID {
				continue
			}
			status := j.tests[testID.String()]
			suite.Tests++
			suiteTotalDuration += status.duration
			suite.TestCases = append(suite.TestCases, makeJUnitTestCase(testID, status))
			if status.skipped.IsDefined() {
				suite.Skipped++
			} else if len(status.failures) != 0 {
				suite.Failures++
			}
		}
		suite.Time = jUnitDurationString(suiteTotalDuration)
		doc.Suites = append(doc.Suites, suite)
	}

	bytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bytes, '\n'), nil
}

func makeJUnitTestCase(testID TestID, status jUnitTestStatus) jUnitXMLTestCase {
	testCase := jUnitXMLTestCase{
		Classname: testID[0],
		Name:      testID.String(),
		Time:      jUnitDurationString(status.duration),
	}
	if status.attempts > 1 {
		testCase.Name += fmt.Sprintf(" (attempt %d)", status.attempts)
	}
	if status.skipped.IsDefined() {
		testCase.SkipMessage = &jUnitXMLSkipMessage{Message: status.skipped.Value()}
		return testCase
	}
	if len(status.failures) != 0 {
		var messages []string
		for _, e := range status.failures {
			message := e.Error()
			var es ErrorWithStacktrace
			if errors.As(e, &es) {
				message += "\n  Stacktrace:"
				for _, s := range es.Stacktrace {
					message += "\n    " + s.String()
				}
			}
			messages = append(messages, message)
		}
		testCase.Failure = &jUnitXMLFailure{
			Message:  strings.Join(messages, "\n"),
			Contents: status.output,
		}
	}
	var out []string
	for _, a := range status.attachments {
		out = append(out, fmt.Sprintf("[[ATTACHMENT|%s]]", a.Location))
	}
	testCase.SystemOut = strings.Join(out, "\n")
	return testCase
}

func getTopLevelIDs(allIDs []TestID) []string {
	var ret []string
	seen := make(map[string]bool)
	for _, testID := range allIDs {
		if len(testID) != 0 && !seen[testID[0]] {
			ret = append(ret, testID[0])
			seen[testID[0]] = true
		}
	}
	return ret
}

func jUnitDurationString(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
