package pom

import (
	"fmt"
	"strings"

	"github.com/pomkit/pom-test-harness/driver"
)

// Locator builds a locator from a format string, choosing the strategy from its prefix: "//" or
// "(" for XPath, "#" for id, "." for class name, and a CSS selector otherwise.
func Locator(format string, args ...interface{}) driver.By {
	expr := fmt.Sprintf(format, args...)
	switch {
	case strings.HasPrefix(expr, "//"), strings.HasPrefix(expr, "("):
		return driver.XPath(expr)
	case strings.HasPrefix(expr, "#"):
		return driver.ID(expr[1:])
	case strings.HasPrefix(expr, "."):
		return driver.ClassName(expr[1:])
	}
	return driver.CSS(expr)
}
