// Package webtest contains the test runner used for browser suites. It works like Go's testing
// package but runs as regular application code, so that a suite can be shipped as a binary and
// pointed at any deployment. It adds test filtering, per-test captured debug output, attachments
// such as failure screenshots, parallel subtests, retries, and console or JUnit reporting.
package webtest
