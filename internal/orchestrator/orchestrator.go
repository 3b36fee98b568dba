// Package orchestrator wires the devflow components behind a single
// API: issue processing, project provisioning, cross-repository
// workflows, milestone tracking, health, and shutdown. Components
// communicate through the event bus; the orchestrator sequences them.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/bus"
	"github.com/devflowhq/devflow/internal/classify"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/milestone"
	"github.com/devflowhq/devflow/internal/model"
	"github.com/devflowhq/devflow/internal/project"
	"github.com/devflowhq/devflow/internal/workflow"
)

// eventBuffer is the bus queue depth before publishers block.
const eventBuffer = 64

// Clients bundles the platform capability surfaces the orchestrator
// needs. In production all fields are the same *ghclient.Client; tests
// substitute fakes per capability.
type Clients struct {
	Issues   ghclient.IssueAPI
	Git      ghclient.GitAPI
	Pulls    ghclient.PullAPI
	Projects ghclient.ProjectAPI
	Actions  ghclient.ActionsAPI
}

// FromClient builds Clients from a single production client.
func FromClient(c *ghclient.Client) Clients {
	return Clients{Issues: c, Git: c, Pulls: c, Projects: c, Actions: c}
}

// ProcessResult is the outcome of one issue-processing pass.
type ProcessResult struct {
	Issue          model.Issue          `json:"issue"`
	Classification model.Classification `json:"classification"`
	Routing        model.Routing        `json:"routing"`
	Branch         *model.BranchResult  `json:"branch,omitempty"`
	PR             *model.PullRequest   `json:"pr,omitempty"`
	Warnings       []string             `json:"warnings,omitempty"`
}

func (r *ProcessResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Orchestrator is the root component.
type Orchestrator struct {
	cfg        *config.Config
	clients    Clients
	events     *bus.Bus
	classifier *classify.Classifier
	projects   *project.Service
	router     *project.Router
	workflows  *workflow.Orchestrator
	tracker    *milestone.Tracker

	mu          sync.RWMutex
	initialized bool
}

// New wires an Orchestrator from configuration and platform clients.
// The store may be nil to disable milestone analytics.
func New(cfg *config.Config, clients Clients, store *milestone.Store) *Orchestrator {
	events := bus.New(eventBuffer)
	projects := project.NewService(clients.Projects, cfg, nil)

	o := &Orchestrator{
		cfg:        cfg,
		clients:    clients,
		events:     events,
		classifier: classify.New(cfg.GetClassifierSettings()),
		projects:   projects,
		router:     project.NewRouter(clients.Projects, clients.Issues, projects),
		workflows:  workflow.New(clients.Git, clients.Pulls, clients.Issues, clients.Actions, cfg.GetWorkflowSettings()),
		tracker:    milestone.NewTracker(clients.Issues, store, cfg.GetMilestoneSettings()),
	}

	o.events.SubscribeAll(func(e bus.Event) {
		log.Debug("event", "type", e.Type, "repo", e.Repo.FullName(), "issue", e.Issue)
	})

	o.mu.Lock()
	o.initialized = true
	o.mu.Unlock()
	return o
}

// Events exposes the bus for additional subscribers (notification
// sinks, tests).
func (o *Orchestrator) Events() *bus.Bus {
	return o.events
}

func (o *Orchestrator) ready() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.initialized {
		return ghclient.ErrNotInitialized
	}
	return nil
}

// ProcessIssue runs the full pipeline for one issue: classify, label,
// route onto the project board, and - when the organization enables it
// - create a branch and pull request. Label application and routing
// are partial-failure steps recorded as warnings.
func (o *Orchestrator) ProcessIssue(ctx context.Context, issue model.Issue, orgID string) (*ProcessResult, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	if issue.Repo.IsZero() {
		return nil, ghclient.NewValidationError("repository", "owner and name are required")
	}

	if orgID == "" {
		orgID = issue.Repo.Owner
	}
	org := o.cfg.Organization(orgID)

	result := &ProcessResult{Issue: issue}

	result.Classification = o.classifier.Classify(issue, org)
	o.events.Publish(bus.NewIssueClassified(issue.Repo, issue.Number, result.Classification))

	if err := o.clients.Issues.AddLabels(ctx, issue.Repo, issue.Number, result.Classification.Labels); err != nil {
		result.warn(fmt.Sprintf("apply labels: %v", err))
	}

	routing, err := o.router.RouteIssue(ctx, issue, result.Classification, orgID)
	if err != nil {
		result.warn(fmt.Sprintf("route issue: %v", err))
	} else {
		result.Routing = routing
		if routing.Routed() {
			o.events.Publish(bus.NewIssueRouted(issue.Repo, issue.Number, routing))
		}
	}

	if org.AutoBranches {
		branch, err := o.workflows.CreateBranch(ctx, issue)
		if err != nil {
			return result, fmt.Errorf("branch creation failed: %w", err)
		}
		result.Branch = &branch
		o.events.Publish(bus.NewBranchCreated(issue.Repo, issue.Number, branch))

		if org.AutoPRs {
			pr, err := o.workflows.CreatePullRequest(ctx, issue, branch.Plan, workflow.PROptions{})
			if err != nil {
				return result, fmt.Errorf("pull request creation failed: %w", err)
			}
			result.PR = &pr
			o.events.Publish(bus.NewPRCreated(issue.Repo, issue.Number, pr))
		}
	}

	return result, nil
}

// FetchIssue loads a fresh snapshot of an issue from the platform.
func (o *Orchestrator) FetchIssue(ctx context.Context, repo model.RepoRef, number int) (model.Issue, error) {
	if err := o.ready(); err != nil {
		return model.Issue{}, err
	}
	return o.clients.Issues.GetIssue(ctx, repo, number)
}

// CreateProject provisions a project board for a repository.
func (o *Orchestrator) CreateProject(ctx context.Context, repo model.RepoRef, orgID string) (project.Result, error) {
	if err := o.ready(); err != nil {
		return project.Result{}, err
	}

	settings := o.cfg.GetProjectSettings()
	result, err := o.projects.CreateForRepository(ctx, repo, project.Options{
		Organization:   orgID,
		LinkRepository: settings.LinkRepository,
	})
	if err != nil {
		return project.Result{}, err
	}

	o.events.Publish(bus.NewProjectCreated(repo, result.Project))
	return result, nil
}

// CreateProjects provisions boards for several repositories, returning
// the complete per-repository picture.
func (o *Orchestrator) CreateProjects(ctx context.Context, repos []model.RepoRef, orgID string) (project.BulkResult, error) {
	if err := o.ready(); err != nil {
		return project.BulkResult{}, err
	}

	settings := o.cfg.GetProjectSettings()
	bulk := o.projects.CreateForRepositories(ctx, repos, project.Options{
		Organization:   orgID,
		LinkRepository: settings.LinkRepository,
	})
	for _, r := range bulk.Results {
		o.events.Publish(bus.NewProjectCreated(r.Repo, r.Project))
	}
	return bulk, nil
}

// ExecuteWorkflow runs a cross-repository workflow definition.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, def model.WorkflowDefinition, opts workflow.ExecuteOptions) (model.WorkflowResult, error) {
	if err := o.ready(); err != nil {
		return model.WorkflowResult{}, err
	}
	if len(def.Repositories) == 0 {
		return model.WorkflowResult{}, ghclient.NewValidationError("workflow", "no repositories")
	}

	result := o.workflows.OrchestrateCrossRepo(ctx, def, opts)
	o.events.Publish(bus.NewWorkflowCompleted(result))
	return result, nil
}

// DetectConflicts produces an advisory conflict report for a branch
// against its target.
func (o *Orchestrator) DetectConflicts(ctx context.Context, repo model.RepoRef, branch, target string) (model.ConflictReport, error) {
	if err := o.ready(); err != nil {
		return model.ConflictReport{}, err
	}
	return o.workflows.DetectConflicts(ctx, repo, branch, target)
}

// CheckMilestones checks all open milestones in a repository, emitting
// closure events for any that were auto-closed.
func (o *Orchestrator) CheckMilestones(ctx context.Context, repo model.RepoRef) ([]milestone.CheckResult, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}

	results, err := o.tracker.CheckAll(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if r.Record.Closure != nil {
			o.events.Publish(bus.NewMilestoneClosed(repo, r.Record))
		}
	}
	return results, nil
}

// Shutdown drains and stops the event bus.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	o.initialized = false
	o.mu.Unlock()
	o.events.Close()
}
