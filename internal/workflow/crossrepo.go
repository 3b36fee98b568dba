package workflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// ExecuteOptions configures a cross-repository workflow run.
type ExecuteOptions struct {
	// ContinueOnError keeps processing remaining repositories after a
	// required step fails in one of them.
	ContinueOnError bool
}

// OrchestrateCrossRepo executes a workflow's steps sequentially for
// each of its repositories. A failed required step aborts that
// repository's remaining steps; unless ContinueOnError is set it also
// aborts the remaining repositories. The result always carries the
// complete per-repository picture.
func (o *Orchestrator) OrchestrateCrossRepo(ctx context.Context, def model.WorkflowDefinition, opts ExecuteOptions) model.WorkflowResult {
	result := model.WorkflowResult{
		WorkflowID: def.ID,
		Success:    true,
		StartedAt:  time.Now(),
	}

	aborted := false
	for _, repo := range def.Repositories {
		if aborted {
			break
		}

		repoResult := model.RepoWorkflowResult{Repo: repo, Success: true}
		var lastBranch *model.BranchResult

		for i, step := range def.Steps {
			stepResult := model.StepResult{Name: step.Name, Success: true}

			branch, err := o.runStep(ctx, repo, step, lastBranch)
			if err != nil {
				stepResult.Success = false
				stepResult.Error = err.Error()
				repoResult.Steps = append(repoResult.Steps, stepResult)

				if !step.Required {
					log.Warn("optional workflow step failed", "workflow", def.ID, "repo", repo.FullName(), "step", step.Name, "error", err)
					continue
				}

				log.Error("required workflow step failed", "workflow", def.ID, "repo", repo.FullName(), "step", step.Name, "error", err)
				repoResult.Success = false
				for _, skipped := range def.Steps[i+1:] {
					repoResult.Steps = append(repoResult.Steps, model.StepResult{Name: skipped.Name, Skipped: true})
				}
				if !opts.ContinueOnError {
					aborted = true
				}
				break
			}

			if branch != nil {
				lastBranch = branch
			}
			repoResult.Steps = append(repoResult.Steps, stepResult)
		}

		if !repoResult.Success {
			result.Success = false
		}
		result.Repos = append(result.Repos, repoResult)
	}

	result.FinishedAt = time.Now()
	result.Duration = result.FinishedAt.Sub(result.StartedAt)
	return result
}

// runStep executes one workflow step. create-branch returns the branch
// result so a later create-pr in the same repository can use its plan.
func (o *Orchestrator) runStep(ctx context.Context, repo model.RepoRef, step model.WorkflowStep, lastBranch *model.BranchResult) (*model.BranchResult, error) {
	switch step.Type {
	case model.StepCreateBranch:
		issue, err := o.stepIssue(ctx, repo, step)
		if err != nil {
			return nil, err
		}
		branch, err := o.CreateBranch(ctx, issue)
		if err != nil {
			return nil, err
		}
		return &branch, nil

	case model.StepCreatePR:
		if lastBranch == nil {
			return nil, fmt.Errorf("step %q requires a prior create-branch step", step.Name)
		}
		issue, err := o.stepIssue(ctx, repo, step)
		if err != nil {
			return nil, err
		}
		_, err = o.CreatePullRequest(ctx, issue, lastBranch.Plan, PROptions{
			Draft: step.Config["draft"] == "true",
		})
		return nil, err

	case model.StepRunAction:
		eventType := step.Config["event"]
		if eventType == "" {
			return nil, ghclient.NewValidationError("step config", "run-action requires an event type")
		}
		return nil, o.actions.DispatchAction(ctx, repo, eventType, step.Config)
	}

	return nil, fmt.Errorf("unsupported step type %q", step.Type)
}

// stepIssue loads the issue a step operates on from its config.
func (o *Orchestrator) stepIssue(ctx context.Context, repo model.RepoRef, step model.WorkflowStep) (model.Issue, error) {
	raw := step.Config["issue"]
	if raw == "" {
		return model.Issue{}, ghclient.NewValidationError("step config", "missing issue number")
	}
	number, err := strconv.Atoi(raw)
	if err != nil {
		return model.Issue{}, ghclient.NewValidationError("step config", "issue must be a number")
	}
	return o.issues.GetIssue(ctx, repo, number)
}
