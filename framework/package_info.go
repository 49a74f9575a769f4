// Package framework contains the low-level test infrastructure that is not specific to any one
// web application. The base package holds shared types such as Logger and Capabilities; the test
// runner scope is in the webtest subpackage and structured logging is in the log subpackage.
//
// The general model is:
//
// 1. A test run is a tree of named test scopes, similar to Go's testing.T, each accumulating its
// own success or failure result and its own debug output.
//
// 2. Each test that needs a browser owns an execution context, and the driver factory keeps at
// most one live browser session per execution context.
//
// 3. Page objects, components and element wrappers sit on top of the driver and expose
// user-intent operations to the test code.
package framework
