package ghclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const graphqlEndpoint = "https://api.github.com/graphql"

// graphqlHTTPClient is a configured HTTP client for GraphQL requests
// with connection pooling and keep-alive for reduced latency.
var graphqlHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     30 * time.Second,
	},
	Timeout: 30 * time.Second,
}

// graphqlRequest represents a GraphQL request payload.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse represents a generic GraphQL response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// graphql executes a query against the GitHub GraphQL endpoint and
// returns the raw data payload. GraphQL-level errors are mapped into
// the same taxonomy as REST failures.
func (c *Client) graphql(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if globalRateLimitState.IsLimited() {
		return nil, ErrRateLimited
	}

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, graphqlEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := graphqlHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		_, _, resetAt := parseRateLimitHeaders(resp)
		globalRateLimitState.SetLimited(true, resetAt)
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request returned status %d: %s", resp.StatusCode, string(body))
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return nil, mapGraphQLError(gqlResp.Errors[0])
	}

	return gqlResp.Data, nil
}

// mapGraphQLError translates GraphQL error types into the error
// taxonomy shared with the REST surface.
func mapGraphQLError(e graphqlError) error {
	msg := strings.ToLower(e.Message)
	switch {
	case e.Type == "RATE_LIMITED":
		return fmt.Errorf("%w: %s", ErrRateLimited, e.Message)
	case e.Type == "NOT_FOUND":
		return fmt.Errorf("%w: %s", ErrNotFound, e.Message)
	case strings.Contains(msg, "already exists"):
		return fmt.Errorf("%w: %s", ErrAlreadyExists, e.Message)
	}
	return fmt.Errorf("GraphQL error: %s", e.Message)
}
