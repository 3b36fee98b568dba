package model

import "time"

// StepType enumerates the supported cross-repository workflow steps.
type StepType string

const (
	StepCreateBranch StepType = "create-branch"
	StepCreatePR     StepType = "create-pr"
	StepRunAction    StepType = "run-action"
)

// WorkflowStep is one step in a repository's workflow sequence.
type WorkflowStep struct {
	Name     string            `json:"name" yaml:"name"`
	Type     StepType          `json:"type" yaml:"type"`
	Config   map[string]string `json:"config,omitempty" yaml:"config,omitempty"`
	Required bool              `json:"required" yaml:"required"`
}

// WorkflowDefinition is a caller-supplied multi-repository workflow.
type WorkflowDefinition struct {
	ID           string         `json:"id" yaml:"id"`
	Repositories []RepoRef      `json:"repositories" yaml:"repositories"`
	Steps        []WorkflowStep `json:"steps" yaml:"steps"`
}

// StepResult records one executed (or skipped) step.
type StepResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RepoWorkflowResult records one repository's pass through the steps.
type RepoWorkflowResult struct {
	Repo    RepoRef      `json:"repo"`
	Success bool         `json:"success"`
	Steps   []StepResult `json:"steps"`
}

// WorkflowResult is the overall outcome of a cross-repository
// workflow. Success is false if any repository failed.
type WorkflowResult struct {
	WorkflowID string               `json:"workflowId"`
	Success    bool                 `json:"success"`
	Repos      []RepoWorkflowResult `json:"repos"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	Duration   time.Duration        `json:"duration"`
}
