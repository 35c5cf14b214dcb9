package main

import (
	"context"
	"os"

	"github.com/h0rv/ghp-card/internal/actions"
	"github.com/h0rv/ghp-card/internal/auth"
	"github.com/h0rv/ghp-card/internal/event"
	"github.com/h0rv/ghp-card/internal/gh"
	"github.com/h0rv/ghp-card/internal/logging"
	"github.com/h0rv/ghp-card/internal/report"
	"github.com/h0rv/ghp-card/internal/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flags holds the raw CLI flags. Empty values fall back to the step inputs.
type flags struct {
	repoToken   string
	project     string
	column      string
	onNew       string
	eventName   string
	eventPath   string
	graphqlURL  string
	logLevel    string
	open        bool
	concurrency int
	rateLimit   float64
}

// settings is the resolved configuration of a run.
type settings struct {
	run        runner.Config
	eventName  string
	eventPath  string
	graphqlURL string
	logLevel   string
	rateLimit  float64
}

func main() {
	tk := actions.New(os.Stdout, os.Getenv)
	var f flags

	rootCmd := &cobra.Command{
		Use:   "ghp-card",
		Short: "Add or move the project card of an issue or pull request",
		Long: `ghp-card runs as a GitHub Actions step on issues and pull_request events.

It looks up the configured column in the classic project boards of the
repository and of its owner, then adds a card for the issue or pull request
to every matching column, or moves its existing card there.

Settings come from flags or, when a flag is not given, from the step inputs
(repo-token, project, column, on-new). The event is read from
GITHUB_EVENT_NAME and GITHUB_EVENT_PATH unless --event-name/--event-path are set.

Authentication:
  1. repo-token input or --repo-token
  2. Environment variable: GITHUB_TOKEN
  3. GitHub CLI: 'gh auth login' (local runs)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(tk, f)
		},
	}

	rootCmd.Flags().StringVar(&f.repoToken, "repo-token", "", "GitHub token (default: repo-token input, then GITHUB_TOKEN)")
	rootCmd.Flags().StringVar(&f.project, "project", "", "Project name to match exactly (default: project input)")
	rootCmd.Flags().StringVar(&f.column, "column", "", "Column name to match exactly (default: column input)")
	rootCmd.Flags().StringVar(&f.onNew, "on-new", "", "Only act when the card is new: true or false (default: on-new input)")
	rootCmd.Flags().StringVar(&f.eventName, "event-name", "", "Triggering event name (default: GITHUB_EVENT_NAME)")
	rootCmd.Flags().StringVar(&f.eventPath, "event-path", "", "Path of the event payload JSON (default: GITHUB_EVENT_PATH)")
	rootCmd.Flags().StringVar(&f.graphqlURL, "graphql-url", "", "GraphQL endpoint (default: GITHUB_GRAPHQL_URL or api.github.com)")
	rootCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&f.open, "open", false, "Open the matched project boards in a browser")
	rootCmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Max card mutations in flight (0 = no limit)")
	rootCmd.Flags().Float64Var(&f.rateLimit, "rate-limit", 0, "Max GraphQL requests per second (0 = unpaced)")

	if err := rootCmd.Execute(); err != nil {
		if tk.InActions() {
			tk.Fail(err)
		} else {
			report.New(os.Stderr).Failed(err)
		}
		os.Exit(1)
	}
}

// resolve merges flags with the step inputs and the runner environment.
func resolve(tk *actions.Toolkit, f flags) (settings, error) {
	s := settings{
		run: runner.Config{
			Project:     firstNonEmpty(f.project, tk.Input("project")),
			Column:      firstNonEmpty(f.column, tk.Input("column")),
			Open:        f.open,
			Concurrency: f.concurrency,
		},
		eventName:  firstNonEmpty(f.eventName, tk.EventName()),
		eventPath:  firstNonEmpty(f.eventPath, tk.EventPath()),
		graphqlURL: firstNonEmpty(f.graphqlURL, tk.GraphQLURL()),
		logLevel:   f.logLevel,
		rateLimit:  f.rateLimit,
	}

	onNew, err := actions.ParseBool("on-new", firstNonEmpty(f.onNew, tk.Input("on-new")))
	if err != nil {
		return settings{}, err
	}
	s.run.OnNewOnly = onNew

	if tk.RunnerDebug() {
		s.logLevel = "debug"
	}

	if err := s.run.Validate(); err != nil {
		return settings{}, err
	}

	return s, nil
}

// resolveToken is kept apart from resolve so the token never shows up as a
// flag default or in logged settings.
func resolveToken(tk *actions.Toolkit, f flags) (string, error) {
	return auth.GetToken(firstNonEmpty(f.repoToken, tk.Input("repo-token")))
}

func run(tk *actions.Toolkit, f flags) error {
	s, err := resolve(tk, f)
	if err != nil {
		return err
	}

	logger := logging.New(s.logLevel, os.Stderr)
	defer func() { _ = logger.Sync() }()

	// Resolve the event before any network call
	ev, err := event.Load(s.eventName, s.eventPath)
	if err != nil {
		return err
	}
	logger.Debug("resolved event",
		zap.String("event", string(ev.Kind)),
		zap.String("action", ev.Action),
		zap.String("content_id", ev.ContentID),
		zap.String("url", ev.URL),
	)

	token, err := resolveToken(tk, f)
	if err != nil {
		return err
	}

	client := gh.New(token,
		gh.WithEndpoint(s.graphqlURL),
		gh.WithRateLimit(s.rateLimit, 1),
		gh.WithLogger(logging.WithModule(logger, "gh")),
	)

	r := runner.New(client, report.New(os.Stdout), runner.WithLogger(logging.WithModule(logger, "runner")))

	ctx := context.Background()
	if err := r.Run(ctx, s.run, ev); err != nil {
		return err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Compile-time check that the GitHub client satisfies the runner.
var _ runner.API = (*gh.Client)(nil)
