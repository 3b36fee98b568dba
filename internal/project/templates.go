package project

import (
	"strings"

	"github.com/devflowhq/devflow/internal/model"
)

// DefaultCatalog returns the built-in project template catalog, keyed
// by template id. Titles and descriptions may carry {{repository}},
// {{organization}}, and {{description}} placeholders.
func DefaultCatalog() map[string]model.ProjectTemplate {
	return map[string]model.ProjectTemplate{
		"team-board": {
			ID:          "team-board",
			Title:       "{{repository}} Development",
			Description: "Development board for {{repository}} ({{organization}})",
			Fields: []model.ProjectField{
				{Name: "Status", Type: "single_select", Options: []string{"Backlog", "In Progress", "In Review", "Done"}},
				{Name: "Priority", Type: "single_select", Options: []string{"Critical", "High", "Medium", "Low"}},
				{Name: "Estimate", Type: "number"},
			},
			Views: []model.ProjectView{
				{Name: "Board", Layout: "board", GroupBy: "Status"},
				{Name: "Priority", Layout: "table", SortBy: "Priority"},
			},
		},
		"learning-board": {
			ID:          "learning-board",
			Title:       "{{repository}} Learning",
			Description: "Course and material tracking for {{repository}}",
			Fields: []model.ProjectField{
				{Name: "Status", Type: "single_select", Options: []string{"Backlog", "In Progress", "Done"}},
				{Name: "Topic", Type: "text"},
			},
			Views: []model.ProjectView{
				{Name: "Board", Layout: "board", GroupBy: "Status"},
			},
			Public: true,
		},
		"ops-board": {
			ID:          "ops-board",
			Title:       "{{repository}} Operations",
			Description: "Infrastructure work for {{repository}} ({{organization}})",
			Fields: []model.ProjectField{
				{Name: "Status", Type: "single_select", Options: []string{"Backlog", "In Progress", "Blocked", "Done"}},
				{Name: "Priority", Type: "single_select", Options: []string{"Critical", "High", "Medium", "Low"}},
				{Name: "Environment", Type: "single_select", Options: []string{"Production", "Staging", "Development"}},
			},
			Views: []model.ProjectView{
				{Name: "Board", Layout: "board", GroupBy: "Status"},
				{Name: "Blocked", Layout: "table", FilterBy: "Status:Blocked"},
			},
		},
	}
}

// Instantiate resolves a template's placeholders for a concrete
// repository.
func Instantiate(tpl model.ProjectTemplate, repo model.RepoRef, description string) model.ProjectTemplate {
	vars := strings.NewReplacer(
		"{{repository}}", repo.Name,
		"{{organization}}", repo.Owner,
		"{{description}}", description,
	)
	tpl.Title = vars.Replace(tpl.Title)
	tpl.Description = vars.Replace(tpl.Description)
	return tpl
}
