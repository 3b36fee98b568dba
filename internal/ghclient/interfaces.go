package ghclient

import (
	"context"

	"github.com/devflowhq/devflow/internal/model"
)

// IssueAPI is the issue and milestone capability surface required by
// the classifier pipeline and the milestone tracker.
type IssueAPI interface {
	GetIssue(ctx context.Context, repo model.RepoRef, number int) (model.Issue, error)
	IssueNodeID(ctx context.Context, repo model.RepoRef, number int) (string, error)
	AddLabels(ctx context.Context, repo model.RepoRef, number int, labels []string) error
	CreateComment(ctx context.Context, repo model.RepoRef, number int, body string) error
	CreateIssue(ctx context.Context, repo model.RepoRef, title, body string, labels []string) (int, error)
	ListOpenMilestones(ctx context.Context, repo model.RepoRef) ([]model.Milestone, error)
	GetMilestone(ctx context.Context, repo model.RepoRef, number int) (model.Milestone, error)
	CloseMilestone(ctx context.Context, repo model.RepoRef, number int) error
}

// GitAPI is the ref capability surface required by the workflow
// orchestrator.
type GitAPI interface {
	GetRefSHA(ctx context.Context, repo model.RepoRef, branch string) (string, error)
	CreateRef(ctx context.Context, repo model.RepoRef, branch, sha string) error
	CompareRefs(ctx context.Context, repo model.RepoRef, base, head string) (Comparison, error)
}

// PullAPI is the pull request capability surface.
type PullAPI interface {
	CreatePull(ctx context.Context, repo model.RepoRef, title, head, base, body string, draft bool) (CreatedPull, error)
	ListPullsForHead(ctx context.Context, repo model.RepoRef, branch string) ([]model.PullRequest, error)
	RequestAutoMerge(ctx context.Context, prNodeID string) error
}

// ProjectAPI is the Projects v2 capability surface.
type ProjectAPI interface {
	ResolveOwnerID(ctx context.Context, owner string) (string, error)
	RepositoryNodeID(ctx context.Context, repo model.RepoRef) (string, error)
	FindProjectByTitle(ctx context.Context, owner, title string) (model.Project, error)
	CreateProject(ctx context.Context, ownerID, title string) (model.Project, error)
	UpdateProjectSettings(ctx context.Context, projectID, description string, public bool) error
	CreateField(ctx context.Context, projectID string, field model.ProjectField) (string, error)
	CreateView(ctx context.Context, projectID string, view model.ProjectView) error
	ListProjectFields(ctx context.Context, projectID string) ([]Field, error)
	AddProjectItem(ctx context.Context, projectID, issueNodeID string) (string, error)
	UpdateItemSelect(ctx context.Context, projectID, itemID, fieldID, optionID string) error
	LinkRepository(ctx context.Context, projectID, repositoryID string) error
}

// Ensure Client implements every capability surface.
var (
	_ IssueAPI   = (*Client)(nil)
	_ GitAPI     = (*Client)(nil)
	_ PullAPI    = (*Client)(nil)
	_ ProjectAPI = (*Client)(nil)
)
