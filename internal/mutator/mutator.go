// Package mutator applies the add or move card mutation to every target column.
//
// All calls for a run are issued concurrently and each one runs to completion.
// The run succeeds only when every call succeeds. Nothing is rolled back: when
// some calls fail, the cards already added or moved by the others stay where
// they are, and the returned PartialFailureError says how many went through.
package mutator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/h0rv/ghp-card/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CardAPI is the subset of the GitHub client the mutator needs.
type CardAPI interface {
	AddProjectCard(ctx context.Context, contentID string, columnID string) error
	MoveProjectCard(ctx context.Context, cardID string, columnID string) error
}

// Op is the mutation applied to each column.
type Op string

const (
	OpNone Op = ""
	OpAdd  Op = "add"
	OpMove Op = "move"
)

// Request describes the mutations for one run.
type Request struct {
	ContentID string                 // Node ID of the issue or PR, used when adding
	Columns   []domain.ProjectColumn // Target columns
	Card      *domain.ProjectCard    // Existing card, moved instead of adding a new one
	OnNewOnly bool                   // Leave an existing card where it is
}

// Result reports what Apply did.
type Result struct {
	Op      Op
	Skipped bool                   // True when an existing card was left untouched
	Columns []domain.ProjectColumn // Columns the mutation was applied to
}

// ColumnFailure is one failed call.
type ColumnFailure struct {
	Column domain.ProjectColumn
	Err    error
}

// PartialFailureError is returned when at least one call failed.
// Succeeded counts the calls whose effects remain in place.
type PartialFailureError struct {
	Op        Op
	Succeeded int
	Failures  []ColumnFailure
}

func (e *PartialFailureError) Error() string {
	if len(e.Failures) == 1 && e.Succeeded == 0 {
		return e.Failures[0].Err.Error()
	}

	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, fmt.Sprintf("column %q: %v", f.Column.Name, f.Err))
	}
	return fmt.Sprintf("%d of %d card %s calls failed (%d applied, not rolled back): %s",
		len(e.Failures), len(e.Failures)+e.Succeeded, e.Op, e.Succeeded, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Mutator issues card mutations through a CardAPI.
type Mutator struct {
	api         CardAPI
	concurrency int
	logger      *zap.Logger
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithConcurrency caps the number of calls in flight. n <= 0 means no cap.
func WithConcurrency(n int) Option {
	return func(m *Mutator) {
		m.concurrency = n
	}
}

// WithLogger sets the mutator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mutator) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Mutator.
func New(api CardAPI, opts ...Option) *Mutator {
	m := &Mutator{
		api:    api,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply moves the existing card into, or adds a new card to, every column of req.
func (m *Mutator) Apply(ctx context.Context, req Request) (Result, error) {
	if req.Card != nil && req.OnNewOnly {
		m.logger.Info("card already on project, leaving it in place", zap.String("card", req.Card.ID))
		return Result{Skipped: true}, nil
	}

	op := OpAdd
	if req.Card != nil {
		op = OpMove
	}

	// Not errgroup.WithContext: one failure must not cancel the other calls.
	var g errgroup.Group
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}

	errs := make([]error, len(req.Columns))
	for i, col := range req.Columns {
		g.Go(func() error {
			errs[i] = m.apply(ctx, op, req, col)
			return errs[i]
		})
	}
	// Every failure is collected from errs below.
	_ = g.Wait()

	var failures []ColumnFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, ColumnFailure{Column: req.Columns[i], Err: err})
		}
	}
	if len(failures) > 0 {
		return Result{Op: op}, &PartialFailureError{
			Op:        op,
			Succeeded: len(req.Columns) - len(failures),
			Failures:  failures,
		}
	}

	return Result{Op: op, Columns: req.Columns}, nil
}

func (m *Mutator) apply(ctx context.Context, op Op, req Request, col domain.ProjectColumn) error {
	fields := []zap.Field{
		zap.String("op", string(op)),
		zap.String("column", col.Name),
		zap.String("column_id", col.ID),
		zap.String("project", col.ProjectName),
		zap.String("scope", string(col.Scope)),
	}

	var err error
	switch op {
	case OpMove:
		err = m.api.MoveProjectCard(ctx, req.Card.ID, col.ID)
	case OpAdd:
		err = m.api.AddProjectCard(ctx, req.ContentID, col.ID)
	default:
		err = errors.New("unknown card operation")
	}

	if err != nil {
		m.logger.Warn("card mutation failed", append(fields, zap.Error(err))...)
		return err
	}
	m.logger.Debug("card mutation applied", fields...)
	return nil
}
