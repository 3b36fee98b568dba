package project

import (
	"context"
	"testing"

	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/model"
)

// fakeIssueAPI implements ghclient.IssueAPI for routing tests.
type fakeIssueAPI struct{}

func (fakeIssueAPI) GetIssue(ctx context.Context, repo model.RepoRef, number int) (model.Issue, error) {
	return model.Issue{}, ghclient.ErrNotFound
}

func (fakeIssueAPI) IssueNodeID(ctx context.Context, repo model.RepoRef, number int) (string, error) {
	return "I_node", nil
}

func (fakeIssueAPI) AddLabels(ctx context.Context, repo model.RepoRef, number int, labels []string) error {
	return nil
}

func (fakeIssueAPI) CreateComment(ctx context.Context, repo model.RepoRef, number int, body string) error {
	return nil
}

func (fakeIssueAPI) CreateIssue(ctx context.Context, repo model.RepoRef, title, body string, labels []string) (int, error) {
	return 0, nil
}

func (fakeIssueAPI) ListOpenMilestones(ctx context.Context, repo model.RepoRef) ([]model.Milestone, error) {
	return nil, nil
}

func (fakeIssueAPI) GetMilestone(ctx context.Context, repo model.RepoRef, number int) (model.Milestone, error) {
	return model.Milestone{}, ghclient.ErrNotFound
}

func (fakeIssueAPI) CloseMilestone(ctx context.Context, repo model.RepoRef, number int) error {
	return nil
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		cls  model.Classification
		want string
	}{
		{"bug goes in progress", model.Classification{Type: model.TypeBug, Priority: model.PriorityMedium}, "In Progress"},
		{"critical goes in progress", model.Classification{Type: model.TypeFeature, Priority: model.PriorityCritical}, "In Progress"},
		{"feature goes to backlog", model.Classification{Type: model.TypeFeature, Priority: model.PriorityHigh}, "Backlog"},
		{"docs go to backlog", model.Classification{Type: model.TypeDocumentation, Priority: model.PriorityLow}, "Backlog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.cls); got != tt.want {
				t.Errorf("StatusFor(%+v) = %q, want %q", tt.cls, got, tt.want)
			}
		})
	}
}

func newTestRouter(projects *fakeProjects) *Router {
	svc := NewService(projects, testConfig(), nil)
	return NewRouter(projects, fakeIssueAPI{}, svc)
}

func TestRouteIssueNoBoard(t *testing.T) {
	router := newTestRouter(&fakeProjects{})
	issue := model.Issue{Number: 1, Repo: model.RepoRef{Owner: "octo", Name: "widgets"}}

	routing, err := router.RouteIssue(context.Background(), issue, model.Classification{}, "")
	if err != nil {
		t.Fatalf("missing board must not be an error: %v", err)
	}
	if routing.Routed() {
		t.Errorf("expected a null route, got %+v", routing)
	}
}

func TestRouteIssue(t *testing.T) {
	projects := &fakeProjects{
		boards: map[string]model.Project{
			"octo/widgets Development": {ID: "P_1", Title: "widgets Development"},
		},
		listFields: []ghclient.Field{
			{ID: "F_status", Name: "Status", DataType: "SINGLE_SELECT", Options: []ghclient.FieldOption{
				{ID: "O_backlog", Name: "Backlog"},
				{ID: "O_progress", Name: "In Progress"},
			}},
			{ID: "F_priority", Name: "Priority", DataType: "SINGLE_SELECT", Options: []ghclient.FieldOption{
				{ID: "O_high", Name: "High"},
				{ID: "O_medium", Name: "Medium"},
			}},
		},
	}
	router := newTestRouter(projects)

	issue := model.Issue{Number: 1, Repo: model.RepoRef{Owner: "octo", Name: "widgets"}}
	cls := model.Classification{Type: model.TypeBug, Priority: model.PriorityHigh}

	routing, err := router.RouteIssue(context.Background(), issue, cls, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routing.Routed() {
		t.Fatalf("expected a routed issue, got %+v", routing)
	}
	if routing.Status != "In Progress" {
		t.Errorf("status = %q, want In Progress", routing.Status)
	}
	if len(projects.items) != 1 || projects.items[0] != "I_node" {
		t.Errorf("expected issue node added to board, got %v", projects.items)
	}
	if projects.selectUpdates["F_status"] != "O_progress" {
		t.Errorf("status field = %q, want O_progress", projects.selectUpdates["F_status"])
	}
	if projects.selectUpdates["F_priority"] != "O_high" {
		t.Errorf("priority field = %q, want O_high", projects.selectUpdates["F_priority"])
	}
}

func TestRouteIssueOrganizationOverride(t *testing.T) {
	// A board provisioned under an organization override carries that
	// organization's template title; routing with the same override
	// must find it.
	projects := &fakeProjects{
		boards: map[string]model.Project{
			"octo/widgets Learning": {ID: "P_1", Title: "widgets Learning"},
		},
	}
	router := newTestRouter(projects)
	issue := model.Issue{Number: 1, Repo: model.RepoRef{Owner: "octo", Name: "widgets"}}

	routing, err := router.RouteIssue(context.Background(), issue, model.Classification{}, "DevAcademyHub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routing.Routed() {
		t.Errorf("expected the issue routed onto the override board, got %+v", routing)
	}

	routing, err = router.RouteIssue(context.Background(), issue, model.Classification{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if routing.Routed() {
		t.Errorf("default naming should not find the override board, got %+v", routing)
	}
}

func TestRouteIssueMissingFieldsSkipped(t *testing.T) {
	projects := &fakeProjects{
		boards: map[string]model.Project{
			"octo/widgets Development": {ID: "P_1", Title: "widgets Development"},
		},
		// No fields on the board at all.
	}
	router := newTestRouter(projects)

	issue := model.Issue{Number: 1, Repo: model.RepoRef{Owner: "octo", Name: "widgets"}}
	routing, err := router.RouteIssue(context.Background(), issue, model.Classification{Type: model.TypeFeature, Priority: model.PriorityMedium}, "")
	if err != nil {
		t.Fatalf("missing fields must not be an error: %v", err)
	}
	if !routing.Routed() {
		t.Errorf("issue should still land on the board, got %+v", routing)
	}
	if len(projects.selectUpdates) != 0 {
		t.Errorf("no field updates expected, got %v", projects.selectUpdates)
	}
}
