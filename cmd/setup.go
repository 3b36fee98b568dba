package cmd

import (
	"context"
	"fmt"

	"github.com/devflowhq/devflow/config"
	"github.com/devflowhq/devflow/internal/ghclient"
	"github.com/devflowhq/devflow/internal/log"
	"github.com/devflowhq/devflow/internal/milestone"
	"github.com/devflowhq/devflow/internal/orchestrator"
)

// newOrchestrator performs the shared startup sequence: config, client
// with retry policy, analytics store, and wiring.
func newOrchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := ghclient.NewClient(ctx, cfg.GetGitHubToken())
	if err != nil {
		return nil, err
	}
	retry := cfg.GetRetryPolicy()
	client.SetRetryPolicy(retry.MaxAttempts, retry.BaseDelay)

	msSettings := cfg.GetMilestoneSettings()
	store, err := milestone.NewStore(msSettings.RetentionDays)
	if err != nil {
		log.Warn("milestone analytics disabled", "error", err)
		store = nil
	} else if err := store.Purge(); err != nil {
		log.Debug("analytics purge failed", "error", err)
	}

	return orchestrator.New(cfg, orchestrator.FromClient(client), store), nil
}
