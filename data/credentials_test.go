package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/pomkit/pom-test-harness/framework/opt"
)

func credentialsByName(t *testing.T) map[string]Credential {
	t.Helper()
	creds, err := LoadCredentials()
	require.NoError(t, err)
	ret := make(map[string]Credential)
	for _, c := range creds {
		ret[c.Name] = c
	}
	return ret
}

func TestLoadCredentials(t *testing.T) {
	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Len(t, creds, 15)

	var successes, failures int
	for _, c := range creds {
		assert.NotEmpty(t, c.Source)
		switch c.Expect {
		case OutcomeSuccess:
			successes++
		case OutcomeFailure:
			failures++
		}
	}
	assert.Equal(t, 10, successes)
	assert.Equal(t, 5, failures)
}

func TestLoadCredentialsValidRows(t *testing.T) {
	byName := credentialsByName(t)

	bob := byName["valid bob"]
	assert.Equal(t, "bob", bob.Username)
	assert.Equal(t, "builder", bob.Password)
	assert.Equal(t, "Welcome, Bob!", bob.Message)
	assert.Equal(t, "valid.yaml(DISPLAY_NAME=Bob,PASSWORD=builder,USERNAME=bob)", bob.Source)
	assert.False(t, bob.Language.IsDefined())
}

func TestLoadCredentialsFailureRows(t *testing.T) {
	byName := credentialsByName(t)

	assert.Equal(t, "Invalid username or password", byName["wrong password"].Message)
	assert.Equal(t, "Invalid username or password", byName["unknown user"].Message)

	missing := byName["missing username"]
	assert.Equal(t, "", missing.Username)
	assert.Equal(t, "Username is required", missing.Message)
	assert.Equal(t, OutcomeFailure, missing.Expect)
	assert.Equal(t, "invalid.yaml", missing.Source)
}

func TestLoadCredentialsLanguageRows(t *testing.T) {
	byName := credentialsByName(t)

	type languageRow struct {
		Language, Username, Message string
	}
	for name, expected := range map[string]languageRow{
		"English alice": {Language: "English", Username: "alice", Message: "Welcome, Alice!"},
		"Spanish bob":   {Language: "Spanish", Username: "bob", Message: "¡Bienvenido, Bob!"},
		"French alice":  {Language: "French", Username: "alice", Message: "Bienvenue, Alice !"},
		"German bob":    {Language: "German", Username: "bob", Message: "Willkommen, Bob!"},
	} {
		t.Run(name, func(t *testing.T) {
			c, ok := byName[name]
			require.True(t, ok)
			assert.Equal(t, o.Some(expected.Language), c.Language)
			assert.Equal(t, expected.Username, c.Username)
			assert.Equal(t, expected.Message, c.Message)
		})
	}
}

func TestCredentialsFromSourcesRejectsBadRows(t *testing.T) {
	for _, params := range []struct {
		desc, input, errorPart string
	}{
		{"missing name", `credentials: [{expect: success}]`, "name is required"},
		{"unknown outcome", `credentials: [{name: x, expect: maybe}]`, `not "maybe"`},
		{"failure without message", `credentials: [{name: x, expect: failure}]`, "needs a message"},
		{"misspelled column", `credentials: [{name: x, expect: success, pasword: y}]`, "pasword"},
		{"duplicate names", `credentials: [{name: x, expect: success}, {name: x, expect: success}]`, "duplicate"},
	} {
		t.Run(params.desc, func(t *testing.T) {
			_, err := credentialsFromSources([]SourceInfo{{BaseName: "bad.yaml", Data: []byte(params.input)}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), params.errorPart)
		})
	}
}
