package webtest

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// Filter decides whether a test is run.
type Filter interface {
	Match(TestID) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(TestID) bool

func (f FilterFunc) Match(id TestID) bool { return f(id) }

// RegexFilters is the Filter built from --run, --skip and --skip-file.
//
// A pattern is a slash-separated list of regular expressions, one per TestID component. Every
// expression must match the whole component: "login" selects the "login" group but not
// "login data", and "login data/.*alice" selects every row of that group ending in "alice".
// A --run pattern also selects the parents of the tests it names, since a child can only run
// inside its parent. A --skip pattern never skips a parent of the tests it names.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

func (r RegexFilters) Match(id TestID) bool {
	if r.MustNotMatch.AnyMatch(id, false) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)
}

// TestIDPattern is one parsed --run or --skip value.
type TestIDPattern struct {
	source     string
	components []*regexp.Regexp
}

// ParseTestIDPattern compiles each slash-separated part of s as an expression anchored at both
// ends of its TestID component.
func ParseTestIDPattern(s string) (TestIDPattern, error) {
	p := TestIDPattern{source: s}
	for i, part := range strings.Split(s, "/") {
		rx, err := regexp.Compile(`^(?:` + part + `)$`)
		if err != nil {
			return TestIDPattern{}, fmt.Errorf("invalid regex in part %d of %q: %w", i+1, s, err)
		}
		p.components = append(p.components, rx)
	}
	return p, nil
}

// QuoteTestID turns a test ID as written by --record-failures into a pattern that matches that
// test and nothing else.
func QuoteTestID(id string) string {
	parts := strings.Split(strings.TrimSpace(id), "/")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	return strings.Join(parts, "/")
}

// Match reports whether every component of id is matched by the expression at the same depth.
// A pattern deeper than id matches it only when parents are included.
func (p TestIDPattern) Match(id TestID, includeParents bool) bool {
	if len(p.components) > len(id) && !includeParents {
		return false
	}
	for i, rx := range p.components {
		if i == len(id) {
			break
		}
		if !rx.MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string { return p.source }

// TestIDPatternList collects repeated --run or --skip flags. Any one pattern matching is enough.
type TestIDPatternList []TestIDPattern

// Set implements pflag.Value.
func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

// Type implements pflag.Value; it names the argument in usage text.
func (l *TestIDPatternList) Type() string { return "pattern" }

func (l TestIDPatternList) String() string {
	quoted := make([]string, len(l))
	for i, p := range l {
		quoted[i] = fmt.Sprintf("%q", p.source)
	}
	return strings.Join(quoted, " or ")
}

func (l TestIDPatternList) IsDefined() bool { return len(l) > 0 }

func (l TestIDPatternList) AnyMatch(id TestID, includeParents bool) bool {
	return slices.ContainsFunc(l, func(p TestIDPattern) bool { return p.Match(id, includeParents) })
}

// PrintFilterDescription tells the user which tests will be left out of this run, either by
// the filters or because the browser under test lacks a capability that some tests need.
func PrintFilterDescription(filters RegexFilters, allCapabilities []string, supportedCapabilities []string) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Println("Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Println()
	}

	missing := slices.DeleteFunc(slices.Clone(allCapabilities), func(c string) bool {
		return slices.Contains(supportedCapabilities, c)
	})
	if len(missing) > 0 {
		fmt.Println("Some tests may be skipped because the browser does not support the following capabilities:")
		fmt.Printf("  %s\n", strings.Join(missing, ", "))
		fmt.Println()
	}
}
