package gh

import (
	"context"

	"github.com/machinebox/graphql"
)

// AddProjectCard creates a card for an issue or pull request in a column.
func (c *Client) AddProjectCard(ctx context.Context, contentID string, columnID string) error {
	req := graphql.NewRequest(`
		mutation($contentId: ID!, $projectColumnId: ID!) {
			addProjectCard(
				input: {
					contentId: $contentId
					projectColumnId: $projectColumnId
				}
			) {
				clientMutationId
			}
		}
	`)

	req.Var("contentId", contentID)
	req.Var("projectColumnId", columnID)

	var resp struct {
		AddProjectCard struct {
			ClientMutationID *string `json:"clientMutationId"`
		} `json:"addProjectCard"`
	}

	return c.makeRequest(ctx, "add project card", req, &resp)
}

// MoveProjectCard moves an existing card into a column.
// This is used when the issue or PR already has a card on the board.
func (c *Client) MoveProjectCard(ctx context.Context, cardID string, columnID string) error {
	req := graphql.NewRequest(`
		mutation($cardId: ID!, $columnId: ID!) {
			moveProjectCard(
				input: {
					cardId: $cardId
					columnId: $columnId
				}
			) {
				clientMutationId
			}
		}
	`)

	req.Var("cardId", cardID)
	req.Var("columnId", columnID)

	var resp struct {
		MoveProjectCard struct {
			ClientMutationID *string `json:"clientMutationId"`
		} `json:"moveProjectCard"`
	}

	return c.makeRequest(ctx, "move project card", req, &resp)
}
