package model

// ProjectField describes one field on a project board.
type ProjectField struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// ProjectView describes one saved view on a project board.
type ProjectView struct {
	Name     string `json:"name"`
	Layout   string `json:"layout"`
	GroupBy  string `json:"groupBy,omitempty"`
	SortBy   string `json:"sortBy,omitempty"`
	FilterBy string `json:"filterBy,omitempty"`
}

// ProjectTemplate is a static board blueprint from the template
// catalog. Title and description may contain {{placeholders}} that are
// substituted when the template is instantiated for a repository.
type ProjectTemplate struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Fields      []ProjectField `json:"fields"`
	Views       []ProjectView  `json:"views"`
	Public      bool           `json:"public"`
}

// Project is a created board.
type Project struct {
	ID         string         `json:"id"`
	Number     int            `json:"number,omitempty"`
	Title      string         `json:"title"`
	URL        string         `json:"url,omitempty"`
	Fields     []ProjectField `json:"fields,omitempty"`
	Views      []ProjectView  `json:"views,omitempty"`
	LinkedRepo string         `json:"linkedRepo,omitempty"`
}

// ProjectItem associates an issue with a project board entry.
// There is exactly one item per (project, issue) pair.
type ProjectItem struct {
	ItemID      string            `json:"itemId"`
	IssueID     int64             `json:"issueId"`
	FieldValues map[string]string `json:"fieldValues,omitempty"`
}

// Routing is the outcome of routing an issue into a project. A zero
// Routing (no project for the repository) is not an error.
type Routing struct {
	ProjectID string `json:"projectId,omitempty"`
	ItemID    string `json:"itemId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Routed reports whether the issue actually landed on a board.
func (r Routing) Routed() bool {
	return r.ProjectID != "" && r.ItemID != ""
}
