// Package log provides the category-tagged structured logger used by the framework's own
// components (configuration, driver factory, page objects, wrappers and the lifecycle host).
package log

import (
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"
)

const categoryField = "category"

// Logger writes log lines tagged with a category such as "Button:Click" or "DriverFactory:Create".
// A nil *Logger is valid and logs nothing.
//
// Loggers derived with WithField share the level and the category filter of the logger they came
// from, so changing either affects all of them.
type Logger struct {
	entry  *logrus.Entry
	filter *categoryFilter
}

type categoryFilter struct {
	lock sync.RWMutex
	rx   *regexp.Regexp
}

func (f *categoryFilter) allows(category string) bool {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.rx == nil || f.rx.MatchString(category)
}

func (f *categoryFilter) set(rx *regexp.Regexp) {
	f.lock.Lock()
	f.rx = rx
	f.lock.Unlock()
}

// NewNullLogger returns a logger whose output is discarded.
func NewNullLogger() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return New(l, nil)
}

// New wraps an existing logrus logger. If filter is non-nil, only categories matching it are
// logged.
func New(logger *logrus.Logger, filter *regexp.Regexp) *Logger {
	return &Logger{entry: logrus.NewEntry(logger), filter: &categoryFilter{rx: filter}}
}

// NewWithOutput creates a logger writing console lines to w at the given level.
func NewWithOutput(w io.Writer, level string) (*Logger, error) {
	pl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(consoleFormatter{})
	l.SetLevel(pl)
	return New(l, nil), nil
}

// WithField returns a logger that adds a fixed field to every line, for instance the execution
// context a line belongs to.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{entry: l.entry.WithField(key, value), filter: l.filter}
}

func (l *Logger) Debugf(category string, msg string, args ...interface{}) {
	l.Logf(logrus.DebugLevel, category, msg, args...)
}

func (l *Logger) Infof(category string, msg string, args ...interface{}) {
	l.Logf(logrus.InfoLevel, category, msg, args...)
}

func (l *Logger) Warnf(category string, msg string, args ...interface{}) {
	l.Logf(logrus.WarnLevel, category, msg, args...)
}

func (l *Logger) Errorf(category string, msg string, args ...interface{}) {
	l.Logf(logrus.ErrorLevel, category, msg, args...)
}

func (l *Logger) Logf(level logrus.Level, category string, msg string, args ...interface{}) {
	if l == nil || !l.entry.Logger.IsLevelEnabled(level) || !l.filter.allows(category) {
		return
	}
	l.entry.WithField(categoryField, category).Logf(level, msg, args...)
}

// SetLevel sets the level from a name such as "info" or "debug".
func (l *Logger) SetLevel(level string) error {
	pl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.entry.Logger.SetLevel(pl)
	return nil
}

// SetCategoryFilter restricts output to categories matching the expression.
func (l *Logger) SetCategoryFilter(expr string) error {
	rx, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("invalid category filter %q: %w", expr, err)
	}
	l.filter.set(rx)
	return nil
}

// DebugMode returns true if debug lines would be written.
func (l *Logger) DebugMode() bool {
	return l != nil && l.entry.Logger.IsLevelEnabled(logrus.DebugLevel)
}
