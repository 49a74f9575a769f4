package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pom-test-harness/config"
	"github.com/pomkit/pom-test-harness/framework/log"
	"github.com/pomkit/pom-test-harness/framework/webtest"
)

func paramsFor(t *testing.T, args ...string) commandParams {
	t.Helper()
	var params commandParams
	flags := params.flagSet()
	require.NoError(t, flags.Parse(args))
	params.configChanged = flags.Changed("config")
	return params
}

func memFsWithConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, config.DefaultPath, []byte(content), 0o644))
	return fs
}

func TestRunRequiresBaseURL(t *testing.T) {
	fs := memFsWithConfig(t, "browser=chrome\nheadless=true\n")
	_, err := run(paramsFor(t), fs)

	var configErr *config.ConfigError
	require.True(t, errors.As(err, &configErr), "error was %v", err)
	assert.Equal(t, config.KeyBaseURL, configErr.Key)
	assert.Contains(t, err.Error(), "base.url")
}

func TestRunRequiresConfigFile(t *testing.T) {
	_, err := run(paramsFor(t, "--config", "missing.properties"), afero.NewMemMapFs())

	var configErr *config.ConfigError
	require.True(t, errors.As(err, &configErr), "error was %v", err)
	assert.Equal(t, "missing.properties", configErr.Path)
}

func TestRunRejectsBadLogLevel(t *testing.T) {
	fs := memFsWithConfig(t, "base.url=http://app.test\n")
	_, err := run(paramsFor(t, "--log-level", "chatty"), fs)
	assert.Error(t, err)
}

func TestDryRunWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewMemMapFs()
	params := paramsFor(t,
		"--dry-run",
		"--run", "^login$",
		"--log-level", "error",
		"--junit", filepath.Join(dir, "junit.xml"),
		"--record-failures", "failures.txt",
	)

	results, err := run(params, fs)
	require.NoError(t, err)
	assert.True(t, results.OK())
	assert.NotEmpty(t, results.Tests)

	recorded, err := afero.ReadFile(fs, "failures.txt")
	require.NoError(t, err)
	assert.Empty(t, recorded)
	assert.FileExists(t, filepath.Join(dir, "junit.xml"))
}

func TestDryRunStillRequiresAnExplicitConfigFile(t *testing.T) {
	_, err := run(paramsFor(t, "--dry-run", "--config", "missing.properties"), afero.NewMemMapFs())
	var configErr *config.ConfigError
	assert.True(t, errors.As(err, &configErr))
}

func TestLoadSettingsOverrides(t *testing.T) {
	fs := memFsWithConfig(t, "base.url=https://example.test\nbrowser=chrome\nthread.count=3\n")

	settings, err := loadSettings(paramsFor(t, "--browser", "Firefox"), fs, log.NewNullLogger(), "")
	require.NoError(t, err)
	assert.Equal(t, "firefox", settings.Browser)
	assert.Equal(t, "https://example.test", settings.BaseURL)
	assert.Equal(t, 3, settings.ThreadCount)

	settings, err = loadSettings(paramsFor(t), fs, log.NewNullLogger(), "http://app.test")
	require.NoError(t, err)
	assert.Equal(t, "http://app.test", settings.BaseURL)
	assert.Equal(t, 3, settings.ThreadCount)
}

func TestLoadSettingsWithAppURLDoesNotNeedConfigFile(t *testing.T) {
	settings, err := loadSettings(paramsFor(t), afero.NewMemMapFs(), log.NewNullLogger(), "http://localhost:8111")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8111", settings.BaseURL)
}

func TestDryRunAndDemoAppAreExclusive(t *testing.T) {
	_, err := run(paramsFor(t, "--dry-run", "--demo-app"), afero.NewMemMapFs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be used together")
}

func TestDemoAppPortFlagDefaults(t *testing.T) {
	params := paramsFor(t, "--demo-app")
	assert.True(t, params.demoApp)
	assert.Equal(t, "localhost", params.host)
	assert.Equal(t, defaultPort, params.port)
}

func TestLoadSuppressions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "skip.txt", []byte("login/valid login\n\n  \nsearch/no results\n"), 0o644))

	params := paramsFor(t, "--skip-file", "skip.txt")
	require.NoError(t, loadSuppressions(&params, fs))
	require.Len(t, params.filters.MustNotMatch, 2)

	assert.False(t, params.filters.Match(webtest.TestID{"login", "valid login"}))
	assert.False(t, params.filters.Match(webtest.TestID{"search", "no results"}))
	assert.True(t, params.filters.Match(webtest.TestID{"login data", "valid alice"}))
	assert.True(t, params.filters.Match(webtest.TestID{"login", "valid login again"}))
	assert.True(t, params.filters.Match(webtest.TestID{"login"}))
}

func TestLoadSuppressionsMissingFile(t *testing.T) {
	params := paramsFor(t, "--skip-file", "nowhere.txt")
	assert.Error(t, loadSuppressions(&params, afero.NewMemMapFs()))
}

func TestRootCommand(t *testing.T) {
	t.Run("dry run passes", func(t *testing.T) {
		cmd := newRootCommand(afero.NewMemMapFs())
		cmd.SetArgs([]string{"--dry-run", "--run", "login/valid login", "--log-level", "error"})
		assert.NoError(t, cmd.Execute())
	})

	t.Run("configuration error", func(t *testing.T) {
		cmd := newRootCommand(memFsWithConfig(t, "browser=chrome\n"))
		cmd.SetArgs([]string{"--log-level", "error"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.NotErrorIs(t, err, errTestsFailed)
		assert.Contains(t, err.Error(), "base.url")
	})

	t.Run("unexpected argument", func(t *testing.T) {
		cmd := newRootCommand(afero.NewMemMapFs())
		cmd.SetArgs([]string{"extra"})
		assert.Error(t, cmd.Execute())
	})
}
