package locator

import (
	"errors"
	"testing"

	"github.com/h0rv/ghp-card/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures
func project(id, name string, scope domain.Scope, columns ...string) domain.Project {
	p := domain.Project{ID: id, Name: name, Scope: scope}
	for _, c := range columns {
		p.Columns = append(p.Columns, domain.ProjectColumn{
			ID:          id + "/" + c,
			Name:        c,
			ProjectName: name,
			Scope:       scope,
		})
	}
	return p
}

func columnIDs(cols []domain.ProjectColumn) []string {
	ids := make([]string, 0, len(cols))
	for _, c := range cols {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestLocate_NoProjectWithExactName(t *testing.T) {
	res := &domain.Resource{
		RepositoryProjects: []domain.Project{
			project("p1", "Roadmap 2024", domain.ScopeRepository, "Done"),
			project("p2", "roadmap", domain.ScopeRepository, "Done"),
		},
		OwnerProjects: []domain.Project{
			project("p3", "Old Roadmap", domain.ScopeOwner, "Done"),
		},
	}

	_, err := Locate(res, "Roadmap", "Done")

	var notFound *ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Done", notFound.Column)
	assert.Equal(t, "Roadmap", notFound.Project)
	assert.Equal(t, `Could not find the column "Done" in project "Roadmap"`, err.Error())
}

func TestLocate_NoColumnWithExactName(t *testing.T) {
	res := &domain.Resource{
		RepositoryProjects: []domain.Project{
			project("p1", "Roadmap", domain.ScopeRepository, "To do", "done", "Done "),
		},
	}

	_, err := Locate(res, "Roadmap", "Done")

	var notFound *ColumnNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestLocate_EmptyResource(t *testing.T) {
	_, err := Locate(&domain.Resource{}, "Roadmap", "Done")

	var notFound *ColumnNotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = Locate(nil, "Roadmap", "Done")
	assert.True(t, errors.As(err, &notFound))
}

func TestLocate_RepositoryBeforeOwner(t *testing.T) {
	res := &domain.Resource{
		RepositoryProjects: []domain.Project{
			project("repo", "Roadmap", domain.ScopeRepository, "To do", "Done"),
		},
		OwnerProjects: []domain.Project{
			project("org", "Roadmap", domain.ScopeOwner, "Done", "Archive"),
		},
	}

	m, err := Locate(res, "Roadmap", "Done")
	require.NoError(t, err)

	require.Len(t, m.Columns, 2)
	assert.Equal(t, []string{"repo/Done", "org/Done"}, columnIDs(m.Columns))
	assert.Equal(t, domain.ScopeRepository, m.Columns[0].Scope)
	assert.Equal(t, domain.ScopeOwner, m.Columns[1].Scope)
}

func TestLocate_KeepsDuplicates(t *testing.T) {
	res := &domain.Resource{
		RepositoryProjects: []domain.Project{
			project("a", "Roadmap", domain.ScopeRepository, "Done"),
			project("b", "Roadmap", domain.ScopeRepository, "Done"),
			project("c", "Other", domain.ScopeRepository, "Done"),
		},
	}
	// Same column listed twice inside one project is kept twice too.
	res.RepositoryProjects[1].Columns = append(res.RepositoryProjects[1].Columns, res.RepositoryProjects[1].Columns[0])

	m, err := Locate(res, "Roadmap", "Done")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/Done", "b/Done", "b/Done"}, columnIDs(m.Columns))
}

func TestLocate_OwnerOnly(t *testing.T) {
	res := &domain.Resource{
		OwnerProjects: []domain.Project{
			project("org", "Roadmap", domain.ScopeOwner, "Done"),
		},
	}

	m, err := Locate(res, "Roadmap", "Done")
	require.NoError(t, err)
	assert.Equal(t, []string{"org/Done"}, columnIDs(m.Columns))
	assert.Nil(t, m.Card)
}

func TestLocate_ExistingCard(t *testing.T) {
	res := &domain.Resource{
		Cards: []domain.ProjectCard{
			{ID: "card-other", ProjectName: "Backlog"},
			{ID: "card-1", ProjectName: "Roadmap"},
			{ID: "card-2", ProjectName: "Roadmap"},
		},
		RepositoryProjects: []domain.Project{
			project("repo", "Roadmap", domain.ScopeRepository, "Done"),
		},
	}

	m, err := Locate(res, "Roadmap", "Done")
	require.NoError(t, err)
	require.NotNil(t, m.Card)
	assert.Equal(t, "card-1", m.Card.ID)
}

func TestExistingCard(t *testing.T) {
	tests := []struct {
		name  string
		cards []domain.ProjectCard
		want  string
	}{
		{"no cards", nil, ""},
		{"no card on project", []domain.ProjectCard{{ID: "x", ProjectName: "Backlog"}}, ""},
		{"hidden project", []domain.ProjectCard{{ID: "x"}}, ""},
		{"first match wins", []domain.ProjectCard{{ID: "a", ProjectName: "Roadmap"}, {ID: "b", ProjectName: "Roadmap"}}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := ExistingCard(tt.cards, "Roadmap")
			if tt.want == "" {
				assert.Nil(t, card)
				return
			}
			require.NotNil(t, card)
			assert.Equal(t, tt.want, card.ID)
		})
	}
}
