// Package config loads the name=value properties file that controls a test run and exposes
// typed, defaulted views of its values.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pomkit/pom-test-harness/framework/log"

	"github.com/spf13/afero"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/ini.v1"
)

const logCategory = "Config"

// Config is an immutable set of configuration values. All accessors are safe for concurrent use.
//
// Typed accessors parse the raw value on every call, so a malformed value is reported by the
// accessor that needs it; use Resolve to validate everything up front.
type Config struct {
	values map[string]string
	source string
	logger *log.Logger
}

// Load reads a properties file from fs and then applies any POM_* environment overrides.
func Load(fs afero.Fs, path string, logger *log.Logger) (*Config, error) {
	return LoadWithEnv(fs, path, logger, nil)
}

// LoadWithEnv is Load with a custom environment lookup function; nil means the process
// environment.
func LoadWithEnv(fs afero.Fs, path string, logger *log.Logger, lookupEnv func(string) (string, bool)) (*Config, error) {
	values, err := readProperties(fs, path)
	if err != nil {
		logger.Errorf(logCategory+":Load", "failed to load configuration: %v", err)
		return nil, err
	}
	overridden, err := applyEnvOverrides(values, lookupEnv)
	if err != nil {
		logger.Errorf(logCategory+":Load", "failed to apply environment overrides: %v", err)
		return nil, err
	}
	for _, key := range overridden {
		logger.Infof(logCategory+":Load", "%s overridden from environment", key)
	}
	logger.Infof(logCategory+":Load", "configuration loaded from %s (%d keys)", path, len(values))
	return &Config{values: values, source: path, logger: logger}, nil
}

// FromMap builds a Config directly from values, without a file. Values are trimmed.
func FromMap(values map[string]string, logger *log.Logger) *Config {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return &Config{values: copied, source: "(in memory)", logger: logger}
}

func readProperties(fs afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: "cannot read file", Err: err}
	}
	file, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, &ConfigError{Path: path, Msg: "malformed properties", Err: err}
	}
	if len(file.Sections()) > 1 {
		return nil, &ConfigError{Path: path, Msg: "sections are not allowed in a properties file"}
	}
	values := make(map[string]string)
	for _, key := range file.Section(ini.DefaultSection).Keys() {
		values[strings.TrimSpace(key.Name())] = strings.TrimSpace(key.Value())
	}
	return values, nil
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string { return c.source }

// With returns a copy of c in which key is set to value. c itself is not changed.
func (c *Config) With(key, value string) *Config {
	copied := maps.Clone(c.values)
	if copied == nil {
		copied = make(map[string]string)
	}
	copied[key] = strings.TrimSpace(value)
	c.logger.Infof(logCategory+":With", "%s overridden to %q", key, value)
	return &Config{values: copied, source: c.source, logger: c.logger}
}

// Keys returns all configured keys in sorted order.
func (c *Config) Keys() []string {
	keys := maps.Keys(c.values)
	slices.Sort(keys)
	return keys
}

// Get returns the trimmed value for key. A key that is absent or blank is an error.
func (c *Config) Get(key string) (string, error) {
	if v := c.values[key]; v != "" {
		return v, nil
	}
	return "", &ConfigError{Key: key, Msg: "required value is missing"}
}

// GetOrDefault returns the value for key, or def if it is absent or blank. Using the default is
// logged as a warning.
func (c *Config) GetOrDefault(key, def string) string {
	if v := c.values[key]; v != "" {
		return v
	}
	c.logger.Warnf(logCategory+":Get", "%s not set, using default %q", key, def)
	return def
}

func (c *Config) lookup(key string) (string, bool) {
	v := c.values[key]
	return v, v != ""
}

// Browser returns the lowercased browser name.
func (c *Config) Browser() (string, error) {
	return strings.ToLower(c.GetOrDefault(KeyBrowser, DefaultBrowser)), nil
}

// BaseURL returns the URL loaded at the start of every test. It is required.
func (c *Config) BaseURL() (string, error) {
	return c.Get(KeyBaseURL)
}

func (c *Config) ImplicitWait() (time.Duration, error) {
	return c.seconds(KeyImplicitWait, DefaultImplicitWait)
}

func (c *Config) ExplicitWait() (time.Duration, error) {
	return c.seconds(KeyExplicitWait, DefaultExplicitWait)
}

func (c *Config) PageLoadTimeout() (time.Duration, error) {
	return c.seconds(KeyPageLoadTimeout, DefaultPageLoadTimeout)
}

func (c *Config) Headless() (bool, error) {
	return c.boolean(KeyHeadless, DefaultHeadless)
}

func (c *Config) MaximizeWindow() (bool, error) {
	return c.boolean(KeyMaximizeWindow, DefaultMaximizeWindow)
}

func (c *Config) ScreenshotOnFailure() (bool, error) {
	return c.boolean(KeyScreenshotOnFailure, DefaultScreenshotOnFailure)
}

// Environment returns the lowercased environment name. It is informational only.
func (c *Config) Environment() (string, error) {
	return strings.ToLower(c.GetOrDefault(KeyEnvironment, DefaultEnvironment)), nil
}

// RetryCount is the number of attempts for each test; 1 means no retries.
func (c *Config) RetryCount() (int, error) {
	return c.positiveInt(KeyRetryCount, DefaultRetryCount)
}

// ThreadCount is the number of tests that may run in parallel.
func (c *Config) ThreadCount() (int, error) {
	return c.positiveInt(KeyThreadCount, DefaultThreadCount)
}

// WebDriverURL returns the remote WebDriver endpoint, or "" to start a local driver service.
func (c *Config) WebDriverURL() (string, error) {
	v, _ := c.lookup(KeyWebDriverURL)
	return v, nil
}

func (c *Config) AttachmentsDir() (string, error) {
	if v, ok := c.lookup(KeyAttachmentsDir); ok {
		return v, nil
	}
	return DefaultAttachmentsDir, nil
}

// AttachmentsS3 returns the bucket and region for uploading attachments, or empty strings if
// attachments are kept on disk.
func (c *Config) AttachmentsS3() (bucket string, region string, err error) {
	bucket, _ = c.lookup(KeyAttachmentsS3Bucket)
	region, _ = c.lookup(KeyAttachmentsS3Region)
	if bucket != "" && region == "" {
		return "", "", &ConfigError{Key: KeyAttachmentsS3Region, Msg: "required when " + KeyAttachmentsS3Bucket + " is set"}
	}
	return bucket, region, nil
}

func (c *Config) seconds(key string, def time.Duration) (time.Duration, error) {
	raw, ok := c.lookup(key)
	if !ok {
		c.logger.Warnf(logCategory+":Get", "%s not set, using default %s", key, def)
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Key: key, Msg: fmt.Sprintf("%q is not a whole number of seconds", raw), Err: err}
	}
	if n < 0 {
		return 0, &ConfigError{Key: key, Msg: fmt.Sprintf("%d must not be negative", n)}
	}
	return time.Duration(n) * time.Second, nil
}

func (c *Config) boolean(key string, def bool) (bool, error) {
	raw, ok := c.lookup(key)
	if !ok {
		c.logger.Warnf(logCategory+":Get", "%s not set, using default %t", key, def)
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ConfigError{Key: key, Msg: fmt.Sprintf("%q is not true or false", raw)}
}

func (c *Config) positiveInt(key string, def int) (int, error) {
	raw, ok := c.lookup(key)
	if !ok {
		c.logger.Warnf(logCategory+":Get", "%s not set, using default %d", key, def)
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigError{Key: key, Msg: fmt.Sprintf("%q is not a number", raw), Err: err}
	}
	if n < 1 {
		return 0, &ConfigError{Key: key, Msg: fmt.Sprintf("%d must be at least 1", n)}
	}
	return n, nil
}
