package webtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	login := TestID{"login"}
	loginValid := TestID{"login", "valid credentials"}
	loginInvalid := TestID{"login", "invalid credentials"}
	search := TestID{"search"}
	loginData := TestID{"login data"}

	cases := []struct {
		run, skip   []string
		id          TestID
		shouldMatch bool
	}{
		{nil, nil, nil, true},
		{nil, nil, loginValid, true},

		{[]string{"login"}, nil, nil, true},
		{[]string{"login"}, nil, login, true},
		{[]string{"login"}, nil, loginInvalid, true},
		{[]string{"login"}, nil, search, false},
		// each expression must match the whole component
		{[]string{"log"}, nil, login, false},
		{[]string{"log.*"}, nil, login, true},
		{[]string{"login"}, nil, loginData, false},
		{[]string{"^login$"}, nil, login, true},

		// parents of a selected test must run so that the test itself can run
		{[]string{"login/valid credentials"}, nil, login, true},
		{[]string{"login/valid credentials"}, nil, loginValid, true},
		{[]string{"login/valid credentials"}, nil, loginInvalid, false},
		{[]string{"login/.*valid.*"}, nil, loginInvalid, true},
		{[]string{"login/valid"}, nil, loginValid, false},
		{[]string{"login/valid|invalid credentials"}, nil, loginValid, false},
		{[]string{"login/(valid|invalid) credentials"}, nil, loginInvalid, true},
		{[]string{"login/valid credentials"}, nil, search, false},

		{[]string{"login", "search"}, nil, search, true},
		{[]string{"login", "search"}, nil, TestID{"dashboard"}, false},

		{nil, []string{"login"}, login, false},
		{nil, []string{"login"}, loginValid, false},
		{nil, []string{"login"}, search, true},

		// skipping a child does not skip its parent
		{nil, []string{"login/invalid credentials"}, login, true},
		{nil, []string{"login/invalid credentials"}, loginInvalid, false},
		{nil, []string{"login/invalid credentials"}, loginValid, true},
		{nil, []string{"login/invalid"}, loginInvalid, true},

		// --skip wins over --run
		{[]string{"login"}, []string{"invalid credentials"}, TestID{"login"}, true},
		{[]string{"login"}, []string{"login/invalid credentials"}, loginInvalid, false},
	}
	for _, c := range cases {
		var r RegexFilters
		for _, s := range c.run {
			require.NoError(t, r.MustMatch.Set(s))
		}
		for _, s := range c.skip {
			require.NoError(t, r.MustNotMatch.Set(s))
		}
		t.Run(fmt.Sprintf("run=%s, skip=%s, id=%s", r.MustMatch, r.MustNotMatch, c.id), func(t *testing.T) {
			assert.Equal(t, c.shouldMatch, r.Match(c.id))
		})
	}
}

func TestFilterFunc(t *testing.T) {
	f := FilterFunc(func(id TestID) bool { return len(id) < 2 })
	assert.True(t, f.Match(TestID{"login"}))
	assert.False(t, f.Match(TestID{"login", "invalid"}))
}

func TestPatternListSetRejectsBadRegex(t *testing.T) {
	var l TestIDPatternList
	assert.Error(t, l.Set("login/(unclosed"))
	assert.False(t, l.IsDefined())
	assert.NoError(t, l.Set("login/valid"))
	assert.Equal(t, `"login/valid"`, l.String())
	assert.Equal(t, "pattern", l.Type())
}

func TestQuotedTestIDMatchesOnlyThatTest(t *testing.T) {
	var skip TestIDPatternList
	require.NoError(t, skip.Set(QuoteTestID(" login data/valid alice (admin+2fa)? \n")))
	filters := RegexFilters{MustNotMatch: skip}

	assert.False(t, filters.Match(TestID{"login data", "valid alice (admin+2fa)?"}))
	assert.True(t, filters.Match(TestID{"login data", "valid alice admin2fa"}))
	assert.True(t, filters.Match(TestID{"login data", "valid alice (admin+2fa)? again"}))
	assert.True(t, filters.Match(TestID{"login data"}))
}

func TestRunAndSkipPatternsAgreeOnWhatTheyName(t *testing.T) {
	// a test ID written literally selects the same single test whether it is run or skipped
	ids := []TestID{
		{"login"},
		{"login", "valid login"},
		{"login", "valid login again"},
		{"login data", "valid login"},
	}
	for _, written := range []string{"login/valid login", QuoteTestID("login/valid login")} {
		var run, skip TestIDPatternList
		require.NoError(t, run.Set(written))
		require.NoError(t, skip.Set(written))
		for _, id := range ids {
			t.Run(fmt.Sprintf("%s %s", written, id), func(t *testing.T) {
				named := len(id) == 2 && run.AnyMatch(id, false)
				assert.Equal(t, named, skip.AnyMatch(id, false))
				assert.Equal(t, !named, RegexFilters{MustNotMatch: skip}.Match(id))
			})
		}
	}
}

func TestPatternListKeepsWrittenForm(t *testing.T) {
	var l TestIDPatternList
	require.NoError(t, l.Set("login/valid.*"))
	require.NoError(t, l.Set("search"))
	assert.Equal(t, `"login/valid.*" or "search"`, l.String())

	err := l.Set("search/ok/(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part 3")
	assert.Len(t, l, 2)
}
