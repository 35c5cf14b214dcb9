// Package domain defines the normalized types for classic GitHub project boards.
// These types represent the core concepts independent of the GitHub GraphQL API structure.
package domain

// EventKind is the name of the workflow event that triggered the run.
type EventKind string

// Supported event kinds.
const (
	EventIssues      EventKind = "issues"
	EventPullRequest EventKind = "pull_request"
)

// Scope tells whether a project belongs to the repository or to its owner.
type Scope string

const (
	ScopeRepository Scope = "repository"
	ScopeOwner      Scope = "owner"
)

// TriggerEvent is the normalized form of the issue or pull request event.
// Exactly one exists per run.
type TriggerEvent struct {
	Kind      EventKind // Event name ("issues" or "pull_request")
	Action    string    // Payload action, passed through as-is (e.g., "opened", "labeled")
	ContentID string    // GraphQL node ID of the issue or pull request
	URL       string    // Canonical html_url of the issue or pull request
}

// Project represents a classic project board and its columns.
type Project struct {
	ID      string          // GitHub Project node ID
	Name    string          // Project name
	URL     string          // Project web URL
	Scope   Scope           // Repository or owner project
	Columns []ProjectColumn // Columns in board order
}

// ProjectColumn represents a lane of a project board.
// Only ID is needed by mutations; the rest is kept for reporting.
type ProjectColumn struct {
	ID          string // GitHub ProjectColumn node ID
	Name        string // Column name (e.g., "To do", "Done")
	ProjectName string // Name of the owning project
	ProjectURL  string // Web URL of the owning project
	Scope       Scope  // Scope of the owning project
}

// ProjectCard represents a card already attached to the issue or pull request.
type ProjectCard struct {
	ID          string // GitHub ProjectCard node ID
	ProjectName string // Name of the project the card lives in
}

// Resource is the normalized result of the column lookup query.
type Resource struct {
	Cards              []ProjectCard // Cards attached to the content, in API order
	RepositoryProjects []Project     // Open projects of the repository matching the search
	OwnerProjects      []Project     // Open projects of the organization or user matching the search
}
