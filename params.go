package main

import (
	"github.com/spf13/pflag"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/framework/webtest"
)

const defaultPort = 8111

type commandParams struct {
	configPath     string
	filters        webtest.RegexFilters
	debug          bool
	debugAll       bool
	jUnitFile      string
	browser        string
	logLevel       string
	logCategories  string
	recordFailures string
	skipFile       string
	dryRun         bool
	demoApp        bool
	host           string
	port           int

	// configChanged is set when --config was given explicitly.
	configChanged bool
}

func (c *commandParams) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVar(&c.configPath, "config", config.DefaultPath, "path of the properties file")
	flags.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	flags.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	flags.StringVar(&c.skipFile, "skip-file", "", "file listing test IDs to skip, one per line")
	flags.StringVar(&c.browser, "browser", "", "browser to test with, overriding the configuration")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	flags.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	flags.StringVar(&c.logLevel, "log-level", "info", "framework log level (debug, info, warning, error)")
	flags.StringVar(&c.logCategories, "log-categories", "", "regex of log categories to show, e.g. \"^(lifecycle|Button:.*)$\"")
	flags.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")
	flags.StringVar(&c.recordFailures, "record-failures", "",
		"write the IDs of failed tests to the specified path, in the format --skip-file reads")
	flags.BoolVar(&c.dryRun, "dry-run", false,
		"run against the built-in simulated browser and demo application instead of a real browser")
	flags.BoolVar(&c.demoApp, "demo-app", false,
		"serve the built-in demo application over HTTP and test it with the configured browser")
	flags.StringVar(&c.host, "host", "localhost", "hostname the browser uses to reach the demo application")
	flags.IntVar(&c.port, "port", defaultPort, "port to serve the demo application on")
	return flags
}
