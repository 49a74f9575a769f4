package config

import (
	"github.com/mstoykov/envconfig"
	"gopkg.in/guregu/null.v3"
)

// envOverrides lists the keys that can be overridden from the environment, typically by a CI job
// that runs the same checked-in properties file against several deployments or browsers.
type envOverrides struct {
	Browser      null.String `envconfig:"POM_BROWSER"`
	BaseURL      null.String `envconfig:"POM_BASE_URL"`
	Headless     null.String `envconfig:"POM_HEADLESS"`
	Environment  null.String `envconfig:"POM_ENVIRONMENT"`
	ThreadCount  null.String `envconfig:"POM_THREAD_COUNT"`
	RetryCount   null.String `envconfig:"POM_RETRY_COUNT"`
	WebDriverURL null.String `envconfig:"POM_WEBDRIVER_URL"`
}

func (o envOverrides) byKey() map[string]null.String {
	return map[string]null.String{
		KeyBrowser:      o.Browser,
		KeyBaseURL:      o.BaseURL,
		KeyHeadless:     o.Headless,
		KeyEnvironment:  o.Environment,
		KeyThreadCount:  o.ThreadCount,
		KeyRetryCount:   o.RetryCount,
		KeyWebDriverURL: o.WebDriverURL,
	}
}

// applyEnvOverrides replaces values with any overrides that are set, and returns the keys that
// were overridden.
func applyEnvOverrides(values map[string]string, lookupEnv func(string) (string, bool)) ([]string, error) {
	var overrides envOverrides
	var err error
	if lookupEnv == nil {
		err = envconfig.Process("", &overrides)
	} else {
		err = envconfig.Process("", &overrides, lookupEnv)
	}
	if err != nil {
		return nil, &ConfigError{Msg: "invalid environment override", Err: err}
	}
	var overridden []string
	for key, v := range overrides.byKey() {
		if v.Valid {
			values[key] = v.String
			overridden = append(overridden, key)
		}
	}
	return overridden, nil
}
