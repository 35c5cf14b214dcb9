// Command probe runs the column lookup for an issue or pull request URL and
// prints what the action would target, without changing anything.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/h0rv/ghp-card/internal/auth"
	"github.com/h0rv/ghp-card/internal/domain"
	"github.com/h0rv/ghp-card/internal/gh"
	"github.com/h0rv/ghp-card/internal/locator"
	"github.com/spf13/cobra"
)

func main() {
	var project, column, graphqlURL string

	cmd := &cobra.Command{
		Use:   "probe <issue-or-pr-url>",
		Short: "Show the projects, columns and cards visible for an issue or PR",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			probe(args[0], project, column, graphqlURL)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "Project name to search for")
	cmd.Flags().StringVar(&column, "column", "", "Column name to match (optional)")
	cmd.Flags().StringVar(&graphqlURL, "graphql-url", os.Getenv("GITHUB_GRAPHQL_URL"), "GraphQL endpoint")
	_ = cmd.MarkFlagRequired("project")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func probe(url, project, column, graphqlURL string) {
	token, err := auth.GetToken("")
	if err != nil {
		log.Fatal(err)
	}

	client := gh.New(token, gh.WithEndpoint(graphqlURL))
	ctx := context.Background()

	ev := domain.TriggerEvent{Kind: domain.EventIssues, URL: url}
	if strings.Contains(url, "/pull/") {
		ev.Kind = domain.EventPullRequest
	}

	res, err := client.FetchResource(ctx, ev, project)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Cards (%d):\n", len(res.Cards))
	for _, c := range res.Cards {
		fmt.Printf("  %s in %q\n", c.ID, c.ProjectName)
	}

	printProjects("Repository projects", res.RepositoryProjects)
	printProjects("Owner projects", res.OwnerProjects)

	if column == "" {
		return
	}

	match, err := locator.Locate(res, project, column)
	if err != nil {
		fmt.Printf("\n%v\n", err)
		return
	}

	fmt.Printf("\nTarget columns (%d):\n", len(match.Columns))
	for _, c := range match.Columns {
		fmt.Printf("  %s (%s project %s)\n", c.ID, c.Scope, c.ProjectURL)
	}
	if match.Card != nil {
		fmt.Printf("Existing card %s would be moved\n", match.Card.ID)
	} else {
		fmt.Println("A new card would be added")
	}
}

func printProjects(title string, projects []domain.Project) {
	fmt.Printf("\n%s (%d):\n", title, len(projects))
	for _, p := range projects {
		fmt.Printf("  %s (ID=%s) %s\n", p.Name, p.ID, p.URL)
		for _, c := range p.Columns {
			fmt.Printf("      Column: %s (ID=%s)\n", c.Name, c.ID)
		}
	}
}
