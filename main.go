package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/driver"
	"github.com/pomkit/pom-test-harness/framework"
	"github.com/pomkit/pom-test-harness/framework/harness"
	"github.com/pomkit/pom-test-harness/framework/helpers"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/framework/webtest"
	"github.com/pomkit/pom-test-harness/lifecycle"
	"github.com/pomkit/pom-test-harness/mockapp"
	"github.com/pomkit/pom-test-harness/mockbrowser"
	"github.com/pomkit/pom-test-harness/suite"
)

const suiteName = "pom-test-harness"

var errTestsFailed = errors.New("some tests failed")

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   suiteName,
		Short: "Run the page-object browser test suite",
		Long: `Run the page-object browser test suite.

  Settings come from a name=value properties file (--config) and POM_* environment variables.
  base.url is required unless --dry-run or --demo-app is given.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.configChanged = cmd.Flags().Changed("config")
			results, err := run(params, fs)
			if err != nil {
				return err
			}
			if !results.OK() {
				return errTestsFailed
			}
			return nil
		},
	}
	cmd.Flags().AddFlagSet(params.flagSet())
	return cmd
}

func run(params commandParams, fs afero.Fs) (*webtest.Results, error) {
	if params.skipFile != "" {
		if err := loadSuppressions(&params, fs); err != nil {
			return nil, err
		}
	}

	logger, err := log.NewWithOutput(os.Stdout, params.logLevel)
	if err != nil {
		return nil, err
	}
	if params.logCategories != "" {
		if err := logger.SetCategoryFilter(params.logCategories); err != nil {
			return nil, err
		}
	}

	mainDebugLogger := helpers.IfElse[framework.Logger](params.debugAll,
		stdlog.New(os.Stdout, "", stdlog.LstdFlags), framework.NullLogger())

	var appURL string
	switch {
	case params.dryRun && params.demoApp:
		return nil, errors.New("--dry-run and --demo-app cannot be used together")
	case params.dryRun:
		appURL = mockbrowser.DefaultBaseURL
	case params.demoApp:
		server, err := harness.StartAppServer(params.host, params.port, mockapp.New(mainDebugLogger), mainDebugLogger)
		if err != nil {
			return nil, err
		}
		defer func() { _ = server.Close() }()
		appURL = server.BaseURL()
	}

	settings, err := loadSettings(params, fs, logger, appURL)
	if err != nil {
		return nil, err
	}

	factoryOptions := []driver.FactoryOption{driver.WithLogger(logger)}
	capabilities := driver.SeleniumCapabilities()
	if params.dryRun {
		launcher := &mockbrowser.Launcher{Handler: mockapp.New(mainDebugLogger)}
		factoryOptions = append(factoryOptions, driver.WithLauncher(launcher))
		capabilities = mockbrowser.DefaultCapabilities()
	}
	factory, err := driver.NewFactoryFromSettings(settings, factoryOptions...)
	if err != nil {
		return nil, err
	}
	attacher, err := lifecycle.NewAttacher(settings)
	if err != nil {
		return nil, err
	}
	host, err := lifecycle.NewHost(settings, factory, lifecycle.WithAttacher(attacher), lifecycle.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var testLogger webtest.TestLogger
	consoleLogger := &webtest.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		testLogger = consoleLogger
	} else {
		testLogger = &webtest.MultiTestLogger{Loggers: []webtest.TestLogger{
			consoleLogger,
			webtest.NewJUnitTestLogger(params.jUnitFile, suiteName, settings.Summary(), params.filters),
		}}
	}

	webtest.PrintFilterDescription(params.filters, suite.ImportantCapabilities(), capabilities)
	results := suite.RunSuite(host, params.filters, testLogger, capabilities)

	fmt.Println()
	if err := testLogger.EndLog(results); err != nil {
		return nil, fmt.Errorf("error writing log: %w", err)
	}

	if params.recordFailures != "" {
		var buf bytes.Buffer
		for _, test := range results.Failures {
			fmt.Fprintln(&buf, test.TestID)
		}
		if err := afero.WriteFile(fs, params.recordFailures, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("cannot create suppression file: %w", err)
		}
	}

	return &results, nil
}

// loadSettings reads and validates the configuration. When appURL is set, the base URL always
// points there and the configuration file is optional unless named explicitly.
func loadSettings(params commandParams, fs afero.Fs, logger *log.Logger, appURL string) (config.Settings, error) {
	var cfg *config.Config
	if appURL != "" && !params.configChanged {
		if exists, _ := afero.Exists(fs, params.configPath); !exists {
			cfg = config.FromMap(map[string]string{}, logger)
		}
	}
	if cfg == nil {
		var err error
		if cfg, err = config.Load(fs, params.configPath, logger); err != nil {
			return config.Settings{}, err
		}
	}
	if appURL != "" {
		cfg = cfg.With(config.KeyBaseURL, appURL)
	}
	if params.browser != "" {
		cfg = cfg.With(config.KeyBrowser, params.browser)
	}
	return cfg.Resolve()
}

func loadSuppressions(params *commandParams, fs afero.Fs) error {
	file, err := fs.Open(params.skipFile)
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := params.filters.MustNotMatch.Set(webtest.QuoteTestID(line)); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}
