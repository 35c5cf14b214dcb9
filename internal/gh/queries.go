package gh

import (
	"context"
	"errors"

	"github.com/h0rv/ghp-card/internal/domain"
	"github.com/machinebox/graphql"
)

// ErrResourceNotFound indicates the URL did not resolve to an issue or pull request.
var ErrResourceNotFound = errors.New("resource not found or not an issue or pull request")

// Page sizes of the column lookup query.
const (
	maxProjects = 10
	maxColumns  = 100
)

// contentSelection is shared by the Issue and PullRequest fragments.
const contentSelection = `
	projectCards {
		nodes {
			id
			project {
				name
			}
		}
	}
	repository {
		projects(search: $project, first: $maxProjects, states: [OPEN]) {
			...boardFields
		}
		owner {
			... on ProjectOwner {
				projects(search: $project, first: $maxProjects, states: [OPEN]) {
					...boardFields
				}
			}
		}
	}
`

const fetchColumnsQuery = `
	query($url: URI!, $project: String!, $maxProjects: Int!, $maxColumns: Int!) {
		resource(url: $url) {
			... on Issue {` + contentSelection + `}
			... on PullRequest {` + contentSelection + `}
		}
	}

	fragment boardFields on ProjectConnection {
		nodes {
			id
			name
			url
			columns(first: $maxColumns) {
				nodes {
					id
					name
				}
			}
		}
	}
`

type projectConnection struct {
	Nodes []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		URL     string `json:"url"`
		Columns *struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"columns"`
	} `json:"nodes"`
}

// FetchResource runs the single read query for an event: the cards already
// attached to the issue or PR, plus the open projects named like project on
// the repository and on its owner, with their columns.
// The project name is only a search term here; exact matching is left to the caller.
func (c *Client) FetchResource(ctx context.Context, ev domain.TriggerEvent, project string) (*domain.Resource, error) {
	const op = "fetch project columns"

	req := graphql.NewRequest(fetchColumnsQuery)
	req.Var("url", ev.URL)
	req.Var("project", project)
	req.Var("maxProjects", maxProjects)
	req.Var("maxColumns", maxColumns)

	var resp struct {
		Resource *struct {
			ProjectCards *struct {
				Nodes []struct {
					ID      string `json:"id"`
					Project *struct {
						Name string `json:"name"`
					} `json:"project"`
				} `json:"nodes"`
			} `json:"projectCards"`
			Repository *struct {
				Projects *projectConnection `json:"projects"`
				Owner    *struct {
					Projects *projectConnection `json:"projects"`
				} `json:"owner"`
			} `json:"repository"`
		} `json:"resource"`
	}

	if err := c.makeRequest(ctx, op, req, &resp); err != nil {
		return nil, err
	}

	// A URL of another type matches neither fragment and comes back as {}.
	if resp.Resource == nil || resp.Resource.Repository == nil {
		return nil, &TransportError{Op: op, Err: ErrResourceNotFound}
	}

	res := &domain.Resource{}

	if resp.Resource.ProjectCards != nil {
		res.Cards = make([]domain.ProjectCard, 0, len(resp.Resource.ProjectCards.Nodes))
		for _, node := range resp.Resource.ProjectCards.Nodes {
			card := domain.ProjectCard{ID: node.ID}
			// Project is null when the viewer cannot see the board
			if node.Project != nil {
				card.ProjectName = node.Project.Name
			}
			res.Cards = append(res.Cards, card)
		}
	}

	repo := resp.Resource.Repository
	res.RepositoryProjects = toProjects(repo.Projects, domain.ScopeRepository)
	if repo.Owner != nil {
		res.OwnerProjects = toProjects(repo.Owner.Projects, domain.ScopeOwner)
	}

	return res, nil
}

// toProjects normalizes a project connection. Missing nodes yield an empty slice.
func toProjects(conn *projectConnection, scope domain.Scope) []domain.Project {
	if conn == nil {
		return []domain.Project{}
	}

	projects := make([]domain.Project, 0, len(conn.Nodes))
	for _, node := range conn.Nodes {
		p := domain.Project{
			ID:    node.ID,
			Name:  node.Name,
			URL:   node.URL,
			Scope: scope,
		}
		if node.Columns != nil {
			p.Columns = make([]domain.ProjectColumn, 0, len(node.Columns.Nodes))
			for _, col := range node.Columns.Nodes {
				p.Columns = append(p.Columns, domain.ProjectColumn{
					ID:          col.ID,
					Name:        col.Name,
					ProjectName: node.Name,
					ProjectURL:  node.URL,
					Scope:       scope,
				})
			}
		}
		projects = append(projects, p)
	}

	return projects
}
