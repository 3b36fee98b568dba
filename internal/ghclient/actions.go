package ghclient

import (
	"context"
	"encoding/json"
	"fmt"

	gh "github.com/google/go-github/v57/github"

	"github.com/devflowhq/devflow/internal/model"
)

// ActionsAPI is the CI trigger capability used by run-action workflow
// steps.
type ActionsAPI interface {
	DispatchAction(ctx context.Context, repo model.RepoRef, eventType string, payload map[string]string) error
}

var _ ActionsAPI = (*Client)(nil)

// DispatchAction fires a repository_dispatch event so repository
// workflows listening for the event type can run.
func (c *Client) DispatchAction(ctx context.Context, repo model.RepoRef, eventType string, payload map[string]string) error {
	var clientPayload json.RawMessage
	if len(payload) > 0 {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal dispatch payload: %w", err)
		}
		clientPayload = data
	}

	err := c.withRetry(ctx, "dispatch action", func() error {
		_, _, err := c.client.Repositories.Dispatch(ctx, repo.Owner, repo.Name, gh.DispatchRequestOptions{
			EventType:     eventType,
			ClientPayload: &clientPayload,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to dispatch %q in %s: %w", eventType, repo.FullName(), err)
	}
	return nil
}
