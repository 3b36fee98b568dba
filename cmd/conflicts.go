package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devflowhq/devflow/internal/model"
)

// NewCmdConflicts creates the conflicts command.
func NewCmdConflicts(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts <owner/repo> <branch>",
		Short: "Detect likely merge conflicts for a branch",
		Long: `Compares a branch against its merge target and reports files that look
likely to conflict: modified on both sides, heavily churned, or on a
critical path such as lockfiles and CI workflows. The report is
advisory; it never blocks a merge.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConflicts(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.TargetBranch, "target", "main", "Branch to compare against")
	return cmd
}

func runConflicts(cmd *cobra.Command, args []string, opts *Options) error {
	repo := model.ParseRepoRef(args[0])
	if repo.IsZero() {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}
	branch := args[1]

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	report, err := orch.DetectConflicts(ctx, repo, branch, opts.TargetBranch)
	if err != nil {
		return err
	}

	fmt.Printf("%s is %d ahead, %d behind %s\n", branch, report.AheadBy, report.BehindBy, opts.TargetBranch)
	if !report.HasConflicts {
		color.Green("no likely conflicts")
		return nil
	}

	fmt.Printf("%d file(s) likely to conflict:\n", len(report.Conflicts))
	for _, c := range report.Conflicts {
		fmt.Printf("  %s  %s\n", colorRisk(c.RiskLevel), c.File)
	}
	return nil
}

func colorRisk(risk model.RiskLevel) string {
	switch risk {
	case model.RiskCritical, model.RiskHigh:
		return color.RedString(string(risk))
	case model.RiskMedium:
		return color.YellowString(string(risk))
	}
	return string(risk)
}
