package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/devflowhq/devflow/internal/model"
)

// FieldOption is one selectable option on a single-select field.
type FieldOption struct {
	ID   string
	Name string
}

// Field is a project field with enough detail to update item values.
type Field struct {
	ID       string
	Name     string
	DataType string
	Options  []FieldOption
}

// OptionID returns the id of the option matching name
// case-insensitively, or "" when absent.
func (f Field) OptionID(name string) string {
	for _, opt := range f.Options {
		if strings.EqualFold(opt.Name, name) {
			return opt.ID
		}
	}
	return ""
}

// ResolveOwnerID resolves an owner login to its GraphQL node id,
// trying organizations first and falling back to users.
func (c *Client) ResolveOwnerID(ctx context.Context, owner string) (string, error) {
	query := `
		query($login: String!) {
			organization(login: $login) { id }
		}`
	data, err := c.graphql(ctx, query, map[string]any{"login": owner})
	if err == nil {
		var result struct {
			Organization struct {
				ID string `json:"id"`
			} `json:"organization"`
		}
		if jsonErr := json.Unmarshal(data, &result); jsonErr == nil && result.Organization.ID != "" {
			return result.Organization.ID, nil
		}
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	query = `
		query($login: String!) {
			user(login: $login) { id }
		}`
	data, err = c.graphql(ctx, query, map[string]any{"login": owner})
	if err != nil {
		return "", fmt.Errorf("failed to resolve owner %s: %w", owner, err)
	}
	var result struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &result); err != nil || result.User.ID == "" {
		return "", fmt.Errorf("%w: owner %s", ErrNotFound, owner)
	}
	return result.User.ID, nil
}

// RepositoryNodeID resolves a repository to its GraphQL node id.
func (c *Client) RepositoryNodeID(ctx context.Context, repo model.RepoRef) (string, error) {
	var nodeID string
	err := c.withRetry(ctx, "get repository", func() error {
		r, _, err := c.client.Repositories.Get(ctx, repo.Owner, repo.Name)
		if err != nil {
			return err
		}
		nodeID = r.GetNodeID()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve repository %s: %w", repo.FullName(), err)
	}
	return nodeID, nil
}

// FindProjectByTitle searches an owner's projects for an exact title
// match. Returns ErrNotFound when no project matches; creation is
// idempotent because callers check here first.
func (c *Client) FindProjectByTitle(ctx context.Context, owner, title string) (model.Project, error) {
	query := `
		query($login: String!, $search: String!) {
			organization(login: $login) {
				projectsV2(query: $search, first: 10) {
					nodes { id number title url }
				}
			}
		}`
	data, err := c.graphql(ctx, query, map[string]any{"login": owner, "search": title})
	if err != nil {
		return model.Project{}, err
	}

	var result struct {
		Organization struct {
			ProjectsV2 struct {
				Nodes []struct {
					ID     string `json:"id"`
					Number int    `json:"number"`
					Title  string `json:"title"`
					URL    string `json:"url"`
				} `json:"nodes"`
			} `json:"projectsV2"`
		} `json:"organization"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project search response: %w", err)
	}

	for _, node := range result.Organization.ProjectsV2.Nodes {
		if strings.EqualFold(node.Title, title) {
			return model.Project{
				ID:     node.ID,
				Number: node.Number,
				Title:  node.Title,
				URL:    node.URL,
			}, nil
		}
	}
	return model.Project{}, fmt.Errorf("%w: project %q", ErrNotFound, title)
}

// CreateProject creates a Projects v2 board under the given owner.
func (c *Client) CreateProject(ctx context.Context, ownerID, title string) (model.Project, error) {
	mutation := `
		mutation($ownerId: ID!, $title: String!) {
			createProjectV2(input: {ownerId: $ownerId, title: $title}) {
				projectV2 { id number title url }
			}
		}`
	data, err := c.graphql(ctx, mutation, map[string]any{"ownerId": ownerID, "title": title})
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to create project %q: %w", title, err)
	}

	var result struct {
		CreateProjectV2 struct {
			ProjectV2 struct {
				ID     string `json:"id"`
				Number int    `json:"number"`
				Title  string `json:"title"`
				URL    string `json:"url"`
			} `json:"projectV2"`
		} `json:"createProjectV2"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse create project response: %w", err)
	}

	p := result.CreateProjectV2.ProjectV2
	return model.Project{ID: p.ID, Number: p.Number, Title: p.Title, URL: p.URL}, nil
}

// UpdateProjectSettings sets the description and visibility on a
// freshly created project.
func (c *Client) UpdateProjectSettings(ctx context.Context, projectID, description string, public bool) error {
	mutation := `
		mutation($projectId: ID!, $readme: String!, $public: Boolean!) {
			updateProjectV2(input: {projectId: $projectId, shortDescription: $readme, public: $public}) {
				projectV2 { id }
			}
		}`
	vars := map[string]any{"projectId": projectID, "readme": description, "public": public}
	if _, err := c.graphql(ctx, mutation, vars); err != nil {
		return fmt.Errorf("failed to update project settings: %w", err)
	}
	return nil
}

// CreateField adds a field to a project. Single-select fields carry
// their options inline.
func (c *Client) CreateField(ctx context.Context, projectID string, field model.ProjectField) (string, error) {
	dataType := strings.ToUpper(field.Type)
	vars := map[string]any{
		"projectId": projectID,
		"dataType":  dataType,
		"name":      field.Name,
	}

	var mutation string
	if dataType == "SINGLE_SELECT" {
		var options []map[string]any
		for _, opt := range field.Options {
			options = append(options, map[string]any{
				"name":        opt,
				"color":       "GRAY",
				"description": "",
			})
		}
		vars["options"] = options
		mutation = `
			mutation($projectId: ID!, $dataType: ProjectV2CustomFieldType!, $name: String!, $options: [ProjectV2SingleSelectFieldOptionInput!]) {
				createProjectV2Field(input: {projectId: $projectId, dataType: $dataType, name: $name, singleSelectOptions: $options}) {
					projectV2Field { ... on ProjectV2FieldCommon { id } }
				}
			}`
	} else {
		mutation = `
			mutation($projectId: ID!, $dataType: ProjectV2CustomFieldType!, $name: String!) {
				createProjectV2Field(input: {projectId: $projectId, dataType: $dataType, name: $name}) {
					projectV2Field { ... on ProjectV2FieldCommon { id } }
				}
			}`
	}

	data, err := c.graphql(ctx, mutation, vars)
	if err != nil {
		return "", fmt.Errorf("failed to create field %q: %w", field.Name, err)
	}

	var result struct {
		CreateProjectV2Field struct {
			ProjectV2Field struct {
				ID string `json:"id"`
			} `json:"projectV2Field"`
		} `json:"createProjectV2Field"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse create field response: %w", err)
	}
	return result.CreateProjectV2Field.ProjectV2Field.ID, nil
}

// CreateView adds a saved view to a project. View creation has limited
// platform support; callers treat failures as warnings.
func (c *Client) CreateView(ctx context.Context, projectID string, view model.ProjectView) error {
	mutation := `
		mutation($projectId: ID!, $name: String!, $layout: ProjectV2ViewLayout!) {
			createProjectV2View(input: {projectId: $projectId, name: $name, layout: $layout}) {
				projectV2View { id }
			}
		}`
	vars := map[string]any{
		"projectId": projectID,
		"name":      view.Name,
		"layout":    strings.ToUpper(view.Layout) + "_LAYOUT",
	}
	if _, err := c.graphql(ctx, mutation, vars); err != nil {
		return fmt.Errorf("failed to create view %q: %w", view.Name, err)
	}
	return nil
}

// ListProjectFields returns a project's fields with option ids, for
// case-insensitive field lookups when routing issues.
func (c *Client) ListProjectFields(ctx context.Context, projectID string) ([]Field, error) {
	query := `
		query($projectId: ID!) {
			node(id: $projectId) {
				... on ProjectV2 {
					fields(first: 50) {
						nodes {
							... on ProjectV2FieldCommon { id name dataType }
							... on ProjectV2SingleSelectField { id name dataType options { id name } }
						}
					}
				}
			}
		}`
	data, err := c.graphql(ctx, query, map[string]any{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list project fields: %w", err)
	}

	var result struct {
		Node struct {
			Fields struct {
				Nodes []struct {
					ID       string `json:"id"`
					Name     string `json:"name"`
					DataType string `json:"dataType"`
					Options  []struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"options"`
				} `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse project fields response: %w", err)
	}

	var fields []Field
	for _, node := range result.Node.Fields.Nodes {
		field := Field{ID: node.ID, Name: node.Name, DataType: node.DataType}
		for _, opt := range node.Options {
			field.Options = append(field.Options, FieldOption{ID: opt.ID, Name: opt.Name})
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// AddProjectItem adds an issue (by node id) to a project and returns
// the item id.
func (c *Client) AddProjectItem(ctx context.Context, projectID, issueNodeID string) (string, error) {
	mutation := `
		mutation($projectId: ID!, $contentId: ID!) {
			addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
				item { id }
			}
		}`
	data, err := c.graphql(ctx, mutation, map[string]any{"projectId": projectID, "contentId": issueNodeID})
	if err != nil {
		return "", fmt.Errorf("failed to add project item: %w", err)
	}

	var result struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to parse add item response: %w", err)
	}
	return result.AddProjectV2ItemByID.Item.ID, nil
}

// UpdateItemSelect sets a single-select field value on a project item.
func (c *Client) UpdateItemSelect(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	mutation := `
		mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $optionId: String!) {
			updateProjectV2ItemFieldValue(input: {projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: {singleSelectOptionId: $optionId}}) {
				projectV2Item { id }
			}
		}`
	vars := map[string]any{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"optionId":  optionID,
	}
	if _, err := c.graphql(ctx, mutation, vars); err != nil {
		return fmt.Errorf("failed to update item field value: %w", err)
	}
	return nil
}

// LinkRepository links a repository to a project so its issues surface
// on the board.
func (c *Client) LinkRepository(ctx context.Context, projectID, repositoryID string) error {
	mutation := `
		mutation($projectId: ID!, $repositoryId: ID!) {
			linkProjectV2ToRepository(input: {projectId: $projectId, repositoryId: $repositoryId}) {
				repository { id }
			}
		}`
	vars := map[string]any{"projectId": projectID, "repositoryId": repositoryID}
	if _, err := c.graphql(ctx, mutation, vars); err != nil {
		return fmt.Errorf("failed to link repository to project: %w", err)
	}
	return nil
}
