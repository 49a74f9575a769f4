package webtest

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

// ErrorWithStacktrace is a test failure annotated with the call stack of the test code that
// reported it. Frames belonging to this package and to functions marked with T.Helper are omitted.
type ErrorWithStacktrace struct {
	Message    string
	Stacktrace []StacktraceInfo
}

type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (e ErrorWithStacktrace) Error() string { return e.Message }

func (s StacktraceInfo) String() string {
	packageName := strings.TrimPrefix(s.Package, rootPackageName()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", packageName, s.Function, s.FileName, s.Line)
}

var testifyTraceRegex = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// transformError replaces any stacktrace that testify put into the message with our own.
func transformError(err error, stacktrace []StacktraceInfo) error {
	message := err.Error()
	if strings.Contains(message, "Error Trace:") {
		message = strings.TrimSpace(testifyTraceRegex.ReplaceAllLiteralString(message, ""))
	}
	if len(stacktrace) == 0 {
		return errors.New(message)
	}
	return ErrorWithStacktrace{Message: message, Stacktrace: stacktrace}
}

func currentPackageName() string {
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		return "?"
	}
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "?"
	}
	packageName, _ := parsePackageAndFunctionName(f.Name())
	return packageName
}

// rootPackageName is the module path, used to shorten package names in printed stacktraces.
func rootPackageName() string {
	parts := strings.Split(currentPackageName(), "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "/")
}

func getStacktrace(includeOwnFrames bool, helperFns []string) []StacktraceInfo {
	ownPackage := currentPackageName()
	isHelper := make(map[string]bool, len(helperFns))
	for _, h := range helperFns {
		isHelper[h] = true
	}

	var callers []StacktraceInfo
	for i := 1; ; i++ { // 1 skips getStacktrace itself
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		f := runtime.FuncForPC(pc)
		if f == nil {
			break
		}
		packageName, functionName := parsePackageAndFunctionName(f.Name())
		if packageName == ownPackage && functionName == "Run" {
			break // webtest.Run is the root of every test run
		}
		if (!includeOwnFrames && packageName == ownPackage) || isHelper[f.Name()] {
			continue
		}
		callers = append(callers, StacktraceInfo{
			FileName: file[strings.LastIndex(file, "/")+1:],
			Package:  packageName,
			Function: functionName,
			Line:     line,
		})
	}
	return callers
}

func parsePackageAndFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	firstDotAfterSlash := strings.Index(fullName[lastSlash+1:], ".")
	packageName := fullName[0 : lastSlash+firstDotAfterSlash+1]
	functionName := fullName[len(packageName)+1:]
	return packageName, functionName
}
