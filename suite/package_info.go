// Package suite contains the browser tests that exercise the page objects against the application
// under test, and RunSuite, which runs them through a lifecycle.Host.
//
// Each top-level test gets its own browser session from the host, so a failure in one cannot
// leave state behind for the next.
package suite
