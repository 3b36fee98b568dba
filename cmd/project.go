package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devflowhq/devflow/internal/model"
)

// NewCmdProject creates the project command.
func NewCmdProject(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project board automation",
	}
	cmd.AddCommand(NewCmdProjectCreate(opts))
	return cmd
}

// NewCmdProjectCreate creates the project create subcommand.
func NewCmdProjectCreate(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <owner/repo> [owner/repo...]",
		Short: "Provision project boards from the organization template",
		Long: `Creates a project board for each repository from its organization's
template. Creation is idempotent: an existing board with the expected
title is reused. With multiple repositories, failures are collected
per repository and a summary is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectCreate(cmd, args, opts)
		},
	}
}

func runProjectCreate(cmd *cobra.Command, args []string, opts *Options) error {
	var repos []model.RepoRef
	for _, arg := range args {
		repo := model.ParseRepoRef(arg)
		if repo.IsZero() {
			return fmt.Errorf("invalid repository %q, expected owner/repo", arg)
		}
		repos = append(repos, repo)
	}

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	if len(repos) == 1 {
		result, err := orch.CreateProject(ctx, repos[0], opts.Organization)
		if err != nil {
			return err
		}
		verb := "created"
		if result.Reused {
			verb = "reused"
		}
		fmt.Printf("%s project %q for %s\n", verb, result.Project.Title, result.Repo.FullName())
		for _, w := range result.Warnings {
			color.Yellow("  warning: %s", w)
		}
		return nil
	}

	bulk, err := orch.CreateProjects(ctx, repos, opts.Organization)
	if err != nil {
		return err
	}

	for _, r := range bulk.Results {
		fmt.Printf("ok   %s -> %s\n", r.Repo.FullName(), r.Project.Title)
	}
	for _, e := range bulk.Errors {
		color.Red("fail %s: %s", e.Repo.FullName(), e.Error)
	}
	fmt.Printf("%d/%d succeeded (%.0f%%)\n", bulk.Successful, bulk.Total, bulk.SuccessRate*100)
	return nil
}
