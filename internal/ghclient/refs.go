package ghclient

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/devflowhq/devflow/internal/model"
)

// ChangedFile is one file from a branch comparison.
type ChangedFile struct {
	Name    string
	Status  string // added, removed, modified, renamed
	Changes int    // additions + deletions
}

// Comparison is the result of comparing two refs.
type Comparison struct {
	AheadBy  int
	BehindBy int
	Files    []ChangedFile
}

// GetRefSHA resolves a branch ref to its current commit SHA.
func (c *Client) GetRefSHA(ctx context.Context, repo model.RepoRef, branch string) (string, error) {
	var ref *gh.Reference
	err := c.withRetry(ctx, "get ref", func() error {
		var err error
		ref, _, err = c.client.Git.GetRef(ctx, repo.Owner, repo.Name, "refs/heads/"+branch)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve ref %s in %s: %w", branch, repo.FullName(), err)
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateRef creates a new branch pointing at the given commit. If the
// platform reports the ref already exists the call returns
// ErrAlreadyExists, which callers treat as success-with-flag.
func (c *Client) CreateRef(ctx context.Context, repo model.RepoRef, branch, sha string) error {
	err := c.withRetry(ctx, "create ref", func() error {
		_, _, err := c.client.Git.CreateRef(ctx, repo.Owner, repo.Name, &gh.Reference{
			Ref:    gh.String("refs/heads/" + branch),
			Object: &gh.GitObject{SHA: gh.String(sha)},
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to create ref %s in %s: %w", branch, repo.FullName(), err)
	}
	return nil
}

// CompareRefs compares head against base and returns ahead/behind
// counts plus the changed-file list.
func (c *Client) CompareRefs(ctx context.Context, repo model.RepoRef, base, head string) (Comparison, error) {
	var cmp *gh.CommitsComparison
	err := c.withRetry(ctx, "compare refs", func() error {
		var err error
		cmp, _, err = c.client.Repositories.CompareCommits(ctx, repo.Owner, repo.Name, base, head, &gh.ListOptions{PerPage: 100})
		return err
	})
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to compare %s...%s in %s: %w", base, head, repo.FullName(), err)
	}

	result := Comparison{
		AheadBy:  cmp.GetAheadBy(),
		BehindBy: cmp.GetBehindBy(),
	}
	for _, f := range cmp.Files {
		result.Files = append(result.Files, ChangedFile{
			Name:    f.GetFilename(),
			Status:  f.GetStatus(),
			Changes: f.GetAdditions() + f.GetDeletions(),
		})
	}
	return result, nil
}
