package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/model"
)

// PROptions tweaks pull request automation for one call.
type PROptions struct {
	Draft bool
	// DisableAutoMerge suppresses the auto-merge request even when
	// the branch plan enables it.
	DisableAutoMerge bool
}

// CreatePullRequest opens a PR for a created branch, copies the issue
// labels onto it, back-links it from the issue, and requests
// auto-merge when the plan allows. Label copy, back-link, and
// auto-merge are partial-failure steps: they log warnings and the PR
// is still returned.
//
// If an open PR already has the branch as its head, that PR is
// returned and no duplicate is created.
func (o *Orchestrator) CreatePullRequest(ctx context.Context, issue model.Issue, plan model.BranchPlan, opts PROptions) (model.PullRequest, error) {
	existing, err := o.pulls.ListPullsForHead(ctx, issue.Repo, plan.Name)
	if err != nil {
		log.Debug("could not check for existing PRs", "branch", plan.Name, "error", err)
	}
	if len(existing) > 0 {
		pr := existing[0]
		pr.LinkedIssue = issue.Number
		log.Info("pull request already open for branch", "repo", issue.Repo.FullName(), "branch", plan.Name, "pr", pr.Number)
		return pr, nil
	}

	title := fmt.Sprintf("%s (#%d)", issue.Title, issue.Number)
	created, err := o.pulls.CreatePull(ctx, issue.Repo, title, plan.Name, plan.BaseRef, prBody(issue, plan), opts.Draft)
	if err != nil {
		return model.PullRequest{}, fmt.Errorf("failed to create pull request for %s: %w", plan.Name, err)
	}
	log.Info("created pull request", "repo", issue.Repo.FullName(), "pr", created.Number, "branch", plan.Name)

	pr := model.PullRequest{
		Number:      created.Number,
		URL:         created.URL,
		Branch:      plan.Name,
		LinkedIssue: issue.Number,
	}

	if len(issue.Labels) > 0 {
		if err := o.issues.AddLabels(ctx, issue.Repo, created.Number, issue.Labels); err != nil {
			log.Warn("failed to copy issue labels to PR", "pr", created.Number, "error", err)
		}
	}

	backlink := fmt.Sprintf("Opened %s for this issue.", created.URL)
	if err := o.issues.CreateComment(ctx, issue.Repo, issue.Number, backlink); err != nil {
		log.Warn("failed to back-link PR on issue", "issue", issue.Number, "error", err)
	}

	if plan.AutoMerge && !opts.DisableAutoMerge {
		if err := o.pulls.RequestAutoMerge(ctx, created.NodeID); err != nil {
			log.Warn("failed to request auto-merge", "pr", created.Number, "error", err)
		} else {
			pr.AutoMerge = true
		}
	}

	return pr, nil
}

// prBody renders the fixed pull request template: summary, closing
// reference, and review checklist.
func prBody(issue model.Issue, plan model.BranchPlan) string {
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	summary := issue.Title
	if issue.Body != "" {
		summary = firstParagraph(issue.Body)
	}
	b.WriteString(summary)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Closes #%d\n\n", issue.Number)

	b.WriteString("## Checklist\n\n")
	b.WriteString("- [ ] Tests added or updated\n")
	b.WriteString("- [ ] Documentation updated\n")
	if plan.Type == model.BranchHotfix {
		b.WriteString("- [ ] Verified against production\n")
	}
	b.WriteString("- [ ] Ready for review\n")

	return b.String()
}

// firstParagraph returns the text up to the first blank line.
func firstParagraph(body string) string {
	if idx := strings.Index(body, "\n\n"); idx > 0 {
		return strings.TrimSpace(body[:idx])
	}
	return strings.TrimSpace(body)
}
