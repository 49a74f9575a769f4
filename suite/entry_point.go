package suite

import (
	"fmt"

	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
)

// RunSuite runs every browser test through host and returns the results. capabilities describes
// the browser under test; tests that need a capability it lacks are skipped.
func RunSuite(
	host *lifecycle.Host,
	filter webtest.Filter,
	testLogger webtest.TestLogger,
	capabilities framework.Capabilities,
) webtest.Results {
	settings := host.Settings()
	fmt.Printf("Running browser test suite against %s with %s\n", settings.BaseURL, settings.Browser)
	fmt.Println()

	host.SuiteStarted()
	config := webtest.TestConfiguration{
		Filter:       filter,
		Capabilities: capabilities,
		TestLogger:   testLogger,
		Context:      TestContext{host: host},
	}
	results := webtest.Run(config, doAllTests)
	host.SuiteFinished(results)
	return results
}

func doAllTests(t *webtest.T) {
	t.Run("login", doLoginTests)
	t.Run("login data", doLoginDataTests)
	t.Run("dropdown", doDropdownTests)
	t.Run("dashboard", doDashboardTests)
	t.Run("search", doSearchTests)
	t.Run("components", doComponentTests)
}

// ImportantCapabilities are the capabilities some tests are skipped without.
func ImportantCapabilities() framework.Capabilities {
	return framework.Capabilities{
		framework.CapabilityScreenshots,
		framework.CapabilityScripting,
	}
}
