// Package locator picks the target columns and the existing card out of the
// column lookup result. It performs no I/O.
package locator

import (
	"fmt"

	"github.com/h0rv/ghp-card/internal/domain"
)

// ColumnNotFoundError is returned when no project named Project has a column named Column.
type ColumnNotFoundError struct {
	Column  string
	Project string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Could not find the column %q in project %q", e.Column, e.Project)
}

// Match is the outcome of a successful lookup.
type Match struct {
	// Columns holds every matching column, repository projects first, then
	// owner projects. Projects sharing the name across scopes all contribute.
	Columns []domain.ProjectColumn

	// Card is the first attached card on a project with the configured name, or nil.
	Card *domain.ProjectCard
}

// Locate filters res down to the columns named column inside projects named
// exactly project. The search on the API side is only a pre-filter, so
// projects with merely similar names are dropped here.
func Locate(res *domain.Resource, project, column string) (Match, error) {
	if res == nil {
		return Match{}, &ColumnNotFoundError{Column: column, Project: project}
	}

	var columns []domain.ProjectColumn
	for _, projects := range [][]domain.Project{res.RepositoryProjects, res.OwnerProjects} {
		for _, p := range projects {
			if p.Name != project {
				continue
			}
			for _, c := range p.Columns {
				if c.Name == column {
					columns = append(columns, c)
				}
			}
		}
	}

	if len(columns) == 0 {
		return Match{}, &ColumnNotFoundError{Column: column, Project: project}
	}

	return Match{
		Columns: columns,
		Card:    ExistingCard(res.Cards, project),
	}, nil
}

// ExistingCard returns the first card whose project is named project.
// Other matches, if any, are ignored.
func ExistingCard(cards []domain.ProjectCard, project string) *domain.ProjectCard {
	for i := range cards {
		if cards[i].ProjectName == project {
			card := cards[i]
			return &card
		}
	}
	return nil
}
