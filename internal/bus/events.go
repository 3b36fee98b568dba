// Package bus provides the typed in-process event bus connecting the
// devflow components. Components never call each other directly; they
// publish events and subscribe to the types they care about.
package bus

import (
	"time"

	"github.com/devflowhq/devflow/internal/model"
)

// EventType identifies the kind of event flowing through the bus.
type EventType string

const (
	// EventIssueReceived indicates an issue entered the pipeline
	EventIssueReceived EventType = "issue_received"
	// EventIssueClassified indicates the classifier produced a verdict
	EventIssueClassified EventType = "issue_classified"
	// EventIssueRouted indicates the issue was placed on a project board
	EventIssueRouted EventType = "issue_routed"
	// EventBranchCreated indicates a branch was created (or already existed)
	EventBranchCreated EventType = "branch_created"
	// EventPRCreated indicates a pull request was opened
	EventPRCreated EventType = "pr_created"
	// EventProjectCreated indicates a project board was provisioned
	EventProjectCreated EventType = "project_created"
	// EventWorkflowCompleted indicates a cross-repo workflow finished
	EventWorkflowCompleted EventType = "workflow_completed"
	// EventMilestoneClosed indicates the tracker auto-closed a milestone
	EventMilestoneClosed EventType = "milestone_closed"
)

// Event is one message on the bus. Payload holds the type-specific
// data documented on each constructor.
type Event struct {
	Type      EventType
	Repo      model.RepoRef
	Issue     int
	Payload   any
	Timestamp time.Time
}

// NewIssueClassified builds an issue_classified event carrying the
// classification as payload.
func NewIssueClassified(repo model.RepoRef, issue int, cls model.Classification) Event {
	return Event{
		Type:      EventIssueClassified,
		Repo:      repo,
		Issue:     issue,
		Payload:   cls,
		Timestamp: time.Now(),
	}
}

// NewIssueRouted builds an issue_routed event carrying the routing.
func NewIssueRouted(repo model.RepoRef, issue int, routing model.Routing) Event {
	return Event{
		Type:      EventIssueRouted,
		Repo:      repo,
		Issue:     issue,
		Payload:   routing,
		Timestamp: time.Now(),
	}
}

// NewBranchCreated builds a branch_created event carrying the branch
// result.
func NewBranchCreated(repo model.RepoRef, issue int, result model.BranchResult) Event {
	return Event{
		Type:      EventBranchCreated,
		Repo:      repo,
		Issue:     issue,
		Payload:   result,
		Timestamp: time.Now(),
	}
}

// NewPRCreated builds a pr_created event carrying the pull request.
func NewPRCreated(repo model.RepoRef, issue int, pr model.PullRequest) Event {
	return Event{
		Type:      EventPRCreated,
		Repo:      repo,
		Issue:     issue,
		Payload:   pr,
		Timestamp: time.Now(),
	}
}

// NewProjectCreated builds a project_created event carrying the
// project.
func NewProjectCreated(repo model.RepoRef, project model.Project) Event {
	return Event{
		Type:      EventProjectCreated,
		Repo:      repo,
		Payload:   project,
		Timestamp: time.Now(),
	}
}

// NewWorkflowCompleted builds a workflow_completed event carrying the
// workflow result.
func NewWorkflowCompleted(result model.WorkflowResult) Event {
	return Event{
		Type:      EventWorkflowCompleted,
		Payload:   result,
		Timestamp: time.Now(),
	}
}

// NewMilestoneClosed builds a milestone_closed event carrying the
// completion record.
func NewMilestoneClosed(repo model.RepoRef, record model.CompletionRecord) Event {
	return Event{
		Type:      EventMilestoneClosed,
		Repo:      repo,
		Payload:   record,
		Timestamp: time.Now(),
	}
}
