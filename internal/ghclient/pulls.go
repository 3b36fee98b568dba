package ghclient

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/devflowhq/devflow/internal/model"
)

// CreatedPull carries the fields of a newly created pull request the
// workflow needs, including the GraphQL node id for auto-merge.
type CreatedPull struct {
	Number int
	URL    string
	NodeID string
}

// CreatePull opens a pull request from head into base.
func (c *Client) CreatePull(ctx context.Context, repo model.RepoRef, title, head, base, body string, draft bool) (CreatedPull, error) {
	var pr *gh.PullRequest
	err := c.withRetry(ctx, "create pull", func() error {
		var err error
		pr, _, err = c.client.PullRequests.Create(ctx, repo.Owner, repo.Name, &gh.NewPullRequest{
			Title: gh.String(title),
			Head:  gh.String(head),
			Base:  gh.String(base),
			Body:  gh.String(body),
			Draft: gh.Bool(draft),
		})
		return err
	})
	if err != nil {
		return CreatedPull{}, fmt.Errorf("failed to create pull request in %s: %w", repo.FullName(), err)
	}
	return CreatedPull{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		NodeID: pr.GetNodeID(),
	}, nil
}

// ListPullsForHead returns open PR numbers whose head is the given
// branch. Used to avoid opening a duplicate PR for an existing branch.
func (c *Client) ListPullsForHead(ctx context.Context, repo model.RepoRef, branch string) ([]model.PullRequest, error) {
	var pulls []*gh.PullRequest
	err := c.withRetry(ctx, "list pulls for head", func() error {
		var err error
		pulls, _, err = c.client.PullRequests.List(ctx, repo.Owner, repo.Name, &gh.PullRequestListOptions{
			State:       model.StateOpen,
			Head:        repo.Owner + ":" + branch,
			ListOptions: gh.ListOptions{PerPage: 30},
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pulls for %s in %s: %w", branch, repo.FullName(), err)
	}

	var result []model.PullRequest
	for _, pr := range pulls {
		result = append(result, model.PullRequest{
			Number: pr.GetNumber(),
			URL:    pr.GetHTMLURL(),
			Branch: branch,
		})
	}
	return result, nil
}

// RequestAutoMerge asks the platform to merge the PR automatically
// once requirements pass. Callers treat failures as warnings, not
// errors: repositories without auto-merge enabled reject the mutation.
func (c *Client) RequestAutoMerge(ctx context.Context, prNodeID string) error {
	mutation := `
		mutation($pullRequestId: ID!) {
			enablePullRequestAutoMerge(input: {pullRequestId: $pullRequestId, mergeMethod: SQUASH}) {
				pullRequest { number }
			}
		}`
	vars := map[string]any{"pullRequestId": prNodeID}

	if _, err := c.graphql(ctx, mutation, vars); err != nil {
		return fmt.Errorf("failed to enable auto-merge: %w", err)
	}
	return nil
}
