package actions

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestInput(t *testing.T) {
	tk := New(&bytes.Buffer{}, envFrom(map[string]string{
		"INPUT_PROJECT":    "  Roadmap ",
		"INPUT_REPO-TOKEN": "ghp_abc",
		"INPUT_MY_INPUT":   "spaced",
	}))

	assert.Equal(t, "Roadmap", tk.Input("project"))
	assert.Equal(t, "ghp_abc", tk.Input("repo-token"))
	assert.Equal(t, "spaced", tk.Input("my input"))
	assert.Equal(t, "", tk.Input("column"))
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"True", true, false},
		{"TRUE", true, false},
		{"false", false, false},
		{"False", false, false},
		{"FALSE", false, false},
		{"", false, false},
		{"yes", false, true},
		{"1", false, true},
		{"tRuE", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseBool("on-new", tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "on-new")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoolInput(t *testing.T) {
	tk := New(&bytes.Buffer{}, envFrom(map[string]string{"INPUT_ON-NEW": "true"}))

	got, err := tk.BoolInput("on-new")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestContextVariables(t *testing.T) {
	tk := New(&bytes.Buffer{}, envFrom(map[string]string{
		"GITHUB_EVENT_NAME":  "pull_request",
		"GITHUB_EVENT_PATH":  "/github/workflow/event.json",
		"GITHUB_GRAPHQL_URL": "https://ghe.example.com/api/graphql",
		"RUNNER_DEBUG":       "1",
		"GITHUB_ACTIONS":     "true",
	}))

	assert.Equal(t, "pull_request", tk.EventName())
	assert.Equal(t, "/github/workflow/event.json", tk.EventPath())
	assert.Equal(t, "https://ghe.example.com/api/graphql", tk.GraphQLURL())
	assert.True(t, tk.RunnerDebug())
	assert.True(t, tk.InActions())
	assert.False(t, New(&bytes.Buffer{}, envFrom(nil)).InActions())
}

func TestFail(t *testing.T) {
	var buf bytes.Buffer
	tk := New(&buf, envFrom(nil))

	tk.Fail(errors.New("Could not find the column \"Done\" in project \"Roadmap\""))

	assert.True(t, strings.HasPrefix(buf.String(), "::error::"))
	assert.Contains(t, buf.String(), "Could not find the column \"Done\" in project \"Roadmap\"")
}

func TestFail_EscapesNewlines(t *testing.T) {
	var buf bytes.Buffer
	tk := New(&buf, envFrom(nil))

	tk.Fail(errors.New("Only pull requests or issues allowed, received:\npush"))

	assert.Contains(t, buf.String(), "::error::Only pull requests or issues allowed, received:%0Apush")
	assert.Equal(t, 1, strings.Count(strings.TrimRight(buf.String(), "\n"), "\n")+1)
}
