package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	o "github.com/pomkit/pom-test-harness/framework/opt"
)

// LoginDataPath is the directory, relative to data/data-files, holding the login credential tables.
const LoginDataPath = "login"

// Outcome is what a login attempt is expected to produce.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Credential is one row of a login data table. For a successful login, Message is the welcome text
// on the dashboard; for a failed one, it is the error shown on the login page. Language, if defined, is
// the visible label of the interface language to pick before signing in.
type Credential struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Language o.Maybe[string] `json:"language"`
	Expect   Outcome `json:"expect"`
	Message  string  `json:"message"`

	// Source names the file, and parameters if any, the row came from.
	Source string `json:"-"`
}

type credentialTable struct {
	Credentials []Credential `json:"credentials"`

	// Consumed by the loader before the table is parsed.
	Constants  json.RawMessage `json:"constants"`
	Parameters json.RawMessage `json:"parameters"`
}

func (c Credential) validate() error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	switch c.Expect {
	case OutcomeSuccess:
	case OutcomeFailure:
		if c.Message == "" {
			problems = append(problems, "a failure row needs a message")
		}
	default:
		problems = append(problems, fmt.Sprintf("expect must be %q or %q, not %q", OutcomeSuccess, OutcomeFailure, c.Expect))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// LoadCredentials reads every credential table under the login data directory.
func LoadCredentials() ([]Credential, error) {
	sources, err := LoadAllDataFiles(LoginDataPath)
	if err != nil {
		return nil, err
	}
	return credentialsFromSources(sources)
}

func credentialsFromSources(sources []SourceInfo) ([]Credential, error) {
	var ret []Credential
	seen := make(map[string]string)
	for _, source := range sources {
		var table credentialTable
		if err := source.ParseStrictInto(&table); err != nil {
			return nil, err
		}
		origin := source.BaseName + source.ParamsString()
		for i, c := range table.Credentials {
			if err := c.validate(); err != nil {
				return nil, fmt.Errorf("invalid credential row %d in %s: %w", i, origin, err)
			}
			if previous, ok := seen[c.Name]; ok {
				return nil, fmt.Errorf("duplicate credential row name %q in %s and %s", c.Name, previous, origin)
			}
			seen[c.Name] = origin
			c.Source = origin
			ret = append(ret, c)
		}
	}
	return ret, nil
}
