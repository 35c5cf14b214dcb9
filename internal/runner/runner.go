// Package runner wires the column lookup, the card mutations and the status
// line together for one triggering event.
package runner

import (
	"context"
	"errors"

	"github.com/h0rv/ghp-card/internal/domain"
	"github.com/h0rv/ghp-card/internal/locator"
	"github.com/h0rv/ghp-card/internal/mutator"
	"github.com/h0rv/ghp-card/internal/report"
	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// API is everything the runner needs from GitHub.
type API interface {
	FetchResource(ctx context.Context, ev domain.TriggerEvent, project string) (*domain.Resource, error)
	mutator.CardAPI
}

// Config holds the per-run settings.
type Config struct {
	Project     string // Project name, matched exactly
	Column      string // Column name, matched exactly
	OnNewOnly   bool   // Leave an existing card in its column
	Open        bool   // Open the matched boards in a browser afterwards
	Concurrency int    // Max mutations in flight, 0 for no limit
}

// Validate checks the required settings.
func (c Config) Validate() error {
	if c.Project == "" {
		return errors.New("project is required")
	}
	if c.Column == "" {
		return errors.New("column is required")
	}
	return nil
}

// Runner executes runs against an API.
type Runner struct {
	api     API
	printer *report.Printer
	logger  *zap.Logger
	openURL func(string) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithURLOpener replaces the browser launcher used by Config.Open.
func WithURLOpener(open func(string) error) Option {
	return func(r *Runner) {
		r.openURL = open
	}
}

// New creates a Runner printing status lines through printer.
func New(api API, printer *report.Printer, opts ...Option) *Runner {
	r := &Runner{
		api:     api,
		printer: printer,
		logger:  zap.NewNop(),
		openURL: browser.OpenURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run looks up the target columns for ev and adds or moves its card.
// Every error aborts the run and is returned unchanged.
func (r *Runner) Run(ctx context.Context, cfg Config, ev domain.TriggerEvent) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := r.logger.With(
		zap.String("event", string(ev.Kind)),
		zap.String("action", ev.Action),
		zap.String("url", ev.URL),
	)

	res, err := r.api.FetchResource(ctx, ev, cfg.Project)
	if err != nil {
		return err
	}
	log.Debug("fetched projects",
		zap.Int("cards", len(res.Cards)),
		zap.Int("repository_projects", len(res.RepositoryProjects)),
		zap.Int("owner_projects", len(res.OwnerProjects)),
	)

	match, err := locator.Locate(res, cfg.Project, cfg.Column)
	if err != nil {
		return err
	}
	if match.Card != nil {
		log.Info("found existing card", zap.String("card", match.Card.ID))
	}
	log.Info("located columns", zap.Int("count", len(match.Columns)))

	m := mutator.New(r.api,
		mutator.WithConcurrency(cfg.Concurrency),
		mutator.WithLogger(log),
	)
	result, err := m.Apply(ctx, mutator.Request{
		ContentID: ev.ContentID,
		Columns:   match.Columns,
		Card:      match.Card,
		OnNewOnly: cfg.OnNewOnly,
	})
	if err != nil {
		return err
	}

	if result.Skipped {
		r.printer.Unchanged(cfg.Project)
	} else {
		r.printer.Done(ev.Action, cfg.Column, cfg.Project)
	}

	if cfg.Open {
		r.openBoards(log, match.Columns)
	}

	return nil
}

// openBoards opens each distinct project once. Failures are only logged.
func (r *Runner) openBoards(log *zap.Logger, columns []domain.ProjectColumn) {
	seen := make(map[string]bool)
	for _, c := range columns {
		if c.ProjectURL == "" || seen[c.ProjectURL] {
			continue
		}
		seen[c.ProjectURL] = true
		if err := r.openURL(c.ProjectURL); err != nil {
			log.Warn("failed to open project board", zap.String("url", c.ProjectURL), zap.Error(err))
		}
	}
}
