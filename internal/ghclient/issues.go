package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/devflowhq/devflow/internal/model"
)

// issueFromGitHub converts a go-github issue into the core's snapshot.
func issueFromGitHub(repo model.RepoRef, issue *gh.Issue) model.Issue {
	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}
	return model.Issue{
		ID:     issue.GetID(),
		Number: issue.GetNumber(),
		Repo:   repo,
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		Labels: labels,
		State:  issue.GetState(),
	}
}

// milestoneFromGitHub converts a go-github milestone.
func milestoneFromGitHub(ms *gh.Milestone) model.Milestone {
	m := model.Milestone{
		Number:       ms.GetNumber(),
		Title:        ms.GetTitle(),
		State:        ms.GetState(),
		OpenIssues:   ms.GetOpenIssues(),
		ClosedIssues: ms.GetClosedIssues(),
		CreatedAt:    ms.GetCreatedAt().Time,
	}
	if ms.DueOn != nil {
		due := ms.DueOn.Time
		m.DueOn = &due
	}
	return m
}

// GetIssue fetches a single issue snapshot.
func (c *Client) GetIssue(ctx context.Context, repo model.RepoRef, number int) (model.Issue, error) {
	var issue *gh.Issue
	err := c.withRetry(ctx, "get issue", func() error {
		var err error
		issue, _, err = c.client.Issues.Get(ctx, repo.Owner, repo.Name, number)
		return err
	})
	if err != nil {
		return model.Issue{}, fmt.Errorf("failed to get issue %s#%d: %w", repo.FullName(), number, err)
	}
	return issueFromGitHub(repo, issue), nil
}

// IssueNodeID returns the GraphQL node id for an issue, needed to add
// it as a project item.
func (c *Client) IssueNodeID(ctx context.Context, repo model.RepoRef, number int) (string, error) {
	var issue *gh.Issue
	err := c.withRetry(ctx, "get issue node id", func() error {
		var err error
		issue, _, err = c.client.Issues.Get(ctx, repo.Owner, repo.Name, number)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve issue node id for %s#%d: %w", repo.FullName(), number, err)
	}
	return issue.GetNodeID(), nil
}

// AddLabels adds labels to an issue (or PR, which shares the issue
// number space).
func (c *Client) AddLabels(ctx context.Context, repo model.RepoRef, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	err := c.withRetry(ctx, "add labels", func() error {
		_, _, err := c.client.Issues.AddLabelsToIssue(ctx, repo.Owner, repo.Name, number, labels)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add labels to %s#%d: %w", repo.FullName(), number, err)
	}
	return nil
}

// CreateComment posts a comment on an issue.
func (c *Client) CreateComment(ctx context.Context, repo model.RepoRef, number int, body string) error {
	err := c.withRetry(ctx, "create comment", func() error {
		_, _, err := c.client.Issues.CreateComment(ctx, repo.Owner, repo.Name, number, &gh.IssueComment{
			Body: gh.String(body),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to comment on %s#%d: %w", repo.FullName(), number, err)
	}
	return nil
}

// CreateIssue opens a new issue (used for milestone completion
// reports) and returns its number.
func (c *Client) CreateIssue(ctx context.Context, repo model.RepoRef, title, body string, labels []string) (int, error) {
	var created *gh.Issue
	err := c.withRetry(ctx, "create issue", func() error {
		var err error
		created, _, err = c.client.Issues.Create(ctx, repo.Owner, repo.Name, &gh.IssueRequest{
			Title:  gh.String(title),
			Body:   gh.String(body),
			Labels: &labels,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create issue in %s: %w", repo.FullName(), err)
	}
	return created.GetNumber(), nil
}

// ListOpenMilestones lists a repository's open milestones.
func (c *Client) ListOpenMilestones(ctx context.Context, repo model.RepoRef) ([]model.Milestone, error) {
	opts := &gh.MilestoneListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var milestones []model.Milestone
	for {
		var page []*gh.Milestone
		var resp *gh.Response
		err := c.withRetry(ctx, "list milestones", func() error {
			var err error
			page, resp, err = c.client.Issues.ListMilestones(ctx, repo.Owner, repo.Name, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones for %s: %w", repo.FullName(), err)
		}

		for _, ms := range page {
			milestones = append(milestones, milestoneFromGitHub(ms))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return milestones, nil
}

// GetMilestone fetches a single milestone.
func (c *Client) GetMilestone(ctx context.Context, repo model.RepoRef, number int) (model.Milestone, error) {
	var ms *gh.Milestone
	err := c.withRetry(ctx, "get milestone", func() error {
		var err error
		ms, _, err = c.client.Issues.GetMilestone(ctx, repo.Owner, repo.Name, number)
		return err
	})
	if err != nil {
		return model.Milestone{}, fmt.Errorf("failed to get milestone %d in %s: %w", number, repo.FullName(), err)
	}
	return milestoneFromGitHub(ms), nil
}

// CloseMilestone transitions a milestone to the closed state.
func (c *Client) CloseMilestone(ctx context.Context, repo model.RepoRef, number int) error {
	err := c.withRetry(ctx, "close milestone", func() error {
		_, _, err := c.client.Issues.EditMilestone(ctx, repo.Owner, repo.Name, number, &gh.Milestone{
			State: gh.String(model.StateClosed),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to close milestone %d in %s: %w", number, repo.FullName(), err)
	}
	return nil
}
