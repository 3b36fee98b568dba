// Package workflow implements the issue-driven development workflow:
// branch strategy selection, idempotent branch creation, pull request
// automation, merge-conflict risk detection, and cross-repository
// workflow execution.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// Orchestrator drives branch and PR automation against the platform.
type Orchestrator struct {
	git        ghclient.GitAPI
	pulls      ghclient.PullAPI
	issues     ghclient.IssueAPI
	actions    ghclient.ActionsAPI
	strategies map[model.BranchType]Strategy
	settings   config.WorkflowSettings
	critical   []string
}

// New creates an Orchestrator with the default strategy table and
// critical-file patterns.
func New(git ghclient.GitAPI, pulls ghclient.PullAPI, issues ghclient.IssueAPI, actions ghclient.ActionsAPI, settings config.WorkflowSettings) *Orchestrator {
	return &Orchestrator{
		git:        git,
		pulls:      pulls,
		issues:     issues,
		actions:    actions,
		strategies: DefaultStrategies(),
		settings:   settings,
		critical:   DefaultCriticalFilePatterns(),
	}
}

// PlanBranch derives the branch plan for an issue. Pure: no platform
// calls.
func (o *Orchestrator) PlanBranch(issue model.Issue) model.BranchPlan {
	strategy := o.strategies[BranchTypeFor(issue.Labels)]
	return model.BranchPlan{
		Name:            BranchName(strategy, o.settings.IssuePrefix, issue.Number, issue.Title, o.settings.SlugMaxLen),
		Type:            strategy.Type,
		BaseRef:         strategy.BaseRef,
		ProtectionRules: strategy.ProtectionRules,
		AutoMerge:       strategy.AutoMerge,
	}
}

// CreateBranch creates the planned branch off its base ref. If the ref
// already exists the result carries Exists=true and the call is a
// success, so retried workflows pick up where they left off.
func (o *Orchestrator) CreateBranch(ctx context.Context, issue model.Issue) (model.BranchResult, error) {
	if issue.Repo.IsZero() {
		return model.BranchResult{}, ghclient.NewValidationError("repository", "owner and name are required")
	}

	plan := o.PlanBranch(issue)

	sha, err := o.git.GetRefSHA(ctx, issue.Repo, plan.BaseRef)
	if err != nil {
		return model.BranchResult{}, fmt.Errorf("failed to resolve base %s: %w", plan.BaseRef, err)
	}

	err = o.git.CreateRef(ctx, issue.Repo, plan.Name, sha)
	if errors.Is(err, ghclient.ErrAlreadyExists) {
		log.Info("branch already exists, reusing", "repo", issue.Repo.FullName(), "branch", plan.Name)
		return model.BranchResult{Plan: plan, SHA: sha, Exists: true}, nil
	}
	if err != nil {
		return model.BranchResult{}, err
	}

	log.Info("created branch", "repo", issue.Repo.FullName(), "branch", plan.Name, "base", plan.BaseRef)
	return model.BranchResult{Plan: plan, SHA: sha}, nil
}
