// Package event turns the workflow event that triggered the run into a
// domain.TriggerEvent. The event name and payload are passed in explicitly.
package event

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/go-github/v58/github"
	"github.com/h0rv/ghp-card/internal/domain"
)

// ErrMissingContent indicates the payload has no usable issue or pull request.
var ErrMissingContent = errors.New("payload has no issue or pull request node")

// UnsupportedEventError is returned for any event other than issues or pull_request.
type UnsupportedEventError struct {
	Kind string
}

func (e *UnsupportedEventError) Error() string {
	return fmt.Sprintf("Only pull requests or issues allowed, received:\n%s", e.Kind)
}

// Resolve extracts the trigger tuple from an event payload.
// The kind is checked before the payload is looked at.
func Resolve(kind string, payload []byte) (domain.TriggerEvent, error) {
	switch domain.EventKind(kind) {
	case domain.EventIssues, domain.EventPullRequest:
	default:
		return domain.TriggerEvent{}, &UnsupportedEventError{Kind: kind}
	}

	parsed, err := github.ParseWebHook(kind, payload)
	if err != nil {
		return domain.TriggerEvent{}, fmt.Errorf("failed to parse %s payload: %w", kind, err)
	}

	ev := domain.TriggerEvent{Kind: domain.EventKind(kind)}

	switch p := parsed.(type) {
	case *github.IssuesEvent:
		ev.Action = p.GetAction()
		if p.Issue != nil {
			ev.ContentID = p.Issue.GetNodeID()
			ev.URL = p.Issue.GetHTMLURL()
		}
	case *github.PullRequestEvent:
		ev.Action = p.GetAction()
		if p.PullRequest != nil {
			ev.ContentID = p.PullRequest.GetNodeID()
			ev.URL = p.PullRequest.GetHTMLURL()
		}
	default:
		return domain.TriggerEvent{}, &UnsupportedEventError{Kind: kind}
	}

	if ev.ContentID == "" || ev.URL == "" {
		return domain.TriggerEvent{}, fmt.Errorf("%s event: %w", kind, ErrMissingContent)
	}

	return ev, nil
}

// Load reads the payload file written by the runner and resolves it.
func Load(kind, path string) (domain.TriggerEvent, error) {
	// Reject unsupported events before touching the filesystem.
	switch domain.EventKind(kind) {
	case domain.EventIssues, domain.EventPullRequest:
	default:
		return domain.TriggerEvent{}, &UnsupportedEventError{Kind: kind}
	}

	if path == "" {
		return domain.TriggerEvent{}, errors.New("event payload path is empty (is GITHUB_EVENT_PATH set?)")
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return domain.TriggerEvent{}, fmt.Errorf("failed to read event payload: %w", err)
	}

	return Resolve(kind, payload)
}
