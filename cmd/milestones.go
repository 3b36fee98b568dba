package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devflowhq/devflow/internal/model"
)

// NewCmdMilestones creates the milestones command.
func NewCmdMilestones(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Milestone completion tracking",
	}
	cmd.AddCommand(NewCmdMilestonesCheck(opts))
	return cmd
}

// NewCmdMilestonesCheck creates the milestones check subcommand.
func NewCmdMilestonesCheck(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <owner/repo>",
		Short: "Check open milestones and auto-close completed ones",
		Long: `Checks every open milestone in the repository. Fully completed
milestones are closed (when auto-close is enabled) and a completion
report issue is filed. Each check is recorded in the analytics log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMilestonesCheck(cmd, args, opts)
		},
	}
}

func runMilestonesCheck(cmd *cobra.Command, args []string, opts *Options) error {
	repo := model.ParseRepoRef(args[0])
	if repo.IsZero() {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	results, err := orch.CheckMilestones(ctx, repo)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("no open milestones in %s\n", repo.FullName())
		return nil
	}

	for _, r := range results {
		rec := r.Record
		if r.Error != "" {
			color.Red("milestone %d: %s", rec.Milestone, r.Error)
			continue
		}
		status := fmt.Sprintf("%.0f%% (%d/%d closed)", rec.Percentage, rec.Closed, rec.Closed+rec.Open)
		if rec.Closure != nil {
			status = color.GreenString("closed after %d days", rec.Closure.DurationDays)
		}
		fmt.Printf("milestone %d %q: %s\n", rec.Milestone, rec.Title, status)
	}
	return nil
}
