package framework

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal output interface used for per-test debug output. The standard library's
// *log.Logger satisfies it.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Println(...interface{})        {}
func (nullLogger) Printf(string, ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// CapturedMessage is one line of output recorded by a CapturingLogger.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger records all output from a test scope so that it can be shown only when the
// test fails (or always, if the runner asks for it).
//
// A logger can have child loggers attached while a subtest is running. While any children are
// attached, new output goes to the children instead of to the parent, so that output produced by
// a long-lived fixture owned by the parent scope shows up under whichever subtest was active.
type CapturingLogger struct {
	output   CapturedOutput
	children []*CapturingLogger
	lock     sync.Mutex
}

func (l *CapturingLogger) Println(args ...interface{}) {
	l.record(strings.TrimRight(fmt.Sprintln(args...), "\r\n"))
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	l.record(fmt.Sprintf(message, args...))
}

func (l *CapturingLogger) record(message string) {
	l.deliver(CapturedMessage{Time: time.Now(), Message: message})
}

func (l *CapturingLogger) deliver(m CapturedMessage) {
	l.lock.Lock()
	if len(l.children) == 0 {
		l.output = append(l.output, m)
		l.lock.Unlock()
		return
	}
	children := append([]*CapturingLogger(nil), l.children...)
	l.lock.Unlock()
	for _, c := range children {
		c.deliver(m)
	}
}

// Output returns a copy of everything captured so far.
func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append(CapturedOutput(nil), l.output...)
}

// AddChildLogger attaches a child. The child starts out with a copy of the parent's output.
func (l *CapturingLogger) AddChildLogger(child *CapturingLogger) {
	l.lock.Lock()
	l.children = append(l.children, child)
	inherited := append(CapturedOutput(nil), l.output...)
	l.lock.Unlock()

	child.lock.Lock()
	child.output = append(inherited, child.output...)
	child.lock.Unlock()
}

func (l *CapturingLogger) RemoveChildLogger(child *CapturingLogger) {
	l.lock.Lock()
	defer l.lock.Unlock()
	for i, c := range l.children {
		if c == child {
			l.children = append(l.children[:i], l.children[i+1:]...)
			return
		}
	}
}

// ToString renders the output one message per line, each line starting with prefix and a timestamp.
func (output CapturedOutput) ToString(prefix string) string {
	lines := make([]string, 0, len(output))
	for _, m := range output {
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, m.Time.Format(timestampFormat), m.Message))
	}
	return strings.Join(lines, "\n")
}

type prefixedLogger struct {
	base   Logger
	prefix string
}

// LoggerWithPrefix returns a Logger that prepends prefix to every message sent to baseLogger.
func LoggerWithPrefix(baseLogger Logger, prefix string) Logger {
	return prefixedLogger{base: baseLogger, prefix: prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}
