// Package actions reads step inputs and the trigger context from the GitHub
// Actions runner environment and reports failures back to it.
package actions

import (
	"fmt"
	"io"
	"os"

	"github.com/sethvargo/go-githubactions"
)

// Toolkit wraps the runner conventions used by the action.
type Toolkit struct {
	action *githubactions.Action
	getenv func(string) string
}

// New creates a Toolkit writing workflow commands to w and reading the
// environment through getenv. Nil arguments default to os.Stdout and os.Getenv.
func New(w io.Writer, getenv func(string) string) *Toolkit {
	if w == nil {
		w = os.Stdout
	}
	if getenv == nil {
		getenv = os.Getenv
	}

	return &Toolkit{
		action: githubactions.New(
			githubactions.WithWriter(w),
			githubactions.WithGetenv(getenv),
		),
		getenv: getenv,
	}
}

// Input returns the trimmed value of a step input ("" when unset).
func (t *Toolkit) Input(name string) string {
	return t.action.GetInput(name)
}

// BoolInput parses a step input as a YAML 1.2 core schema boolean.
// An unset input is false; any other value is an error.
func (t *Toolkit) BoolInput(name string) (bool, error) {
	return ParseBool(name, t.Input(name))
}

// ParseBool accepts true, True, TRUE, false, False, FALSE and "".
func ParseBool(name, value string) (bool, error) {
	switch value {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE", "":
		return false, nil
	}
	return false, fmt.Errorf("input %q does not meet YAML 1.2 \"Core Schema\" specification: %q\n"+
		"Support boolean input list: `true | True | TRUE | false | False | FALSE`", name, value)
}

// EventName returns the name of the triggering event.
func (t *Toolkit) EventName() string {
	return t.getenv("GITHUB_EVENT_NAME")
}

// EventPath returns the path of the event payload file.
func (t *Toolkit) EventPath() string {
	return t.getenv("GITHUB_EVENT_PATH")
}

// GraphQLURL returns the GraphQL endpoint of the current GitHub instance, if set.
func (t *Toolkit) GraphQLURL() string {
	return t.getenv("GITHUB_GRAPHQL_URL")
}

// InActions reports whether the program runs as a workflow step.
func (t *Toolkit) InActions() bool {
	return t.getenv("GITHUB_ACTIONS") == "true"
}

// RunnerDebug reports whether step debug logging is enabled.
func (t *Toolkit) RunnerDebug() bool {
	return t.getenv("RUNNER_DEBUG") == "1"
}

// Fail records err as the step's failure reason.
func (t *Toolkit) Fail(err error) {
	t.action.Errorf("%s", err.Error())
}
