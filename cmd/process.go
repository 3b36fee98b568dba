package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devflowhq/devflow/internal/model"
	"github.com/devflowhq/devflow/internal/orchestrator"
)

// NewCmdProcess creates the process command.
func NewCmdProcess(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "process <owner/repo> <issue-number>",
		Short: "Classify and process a single issue",
		Long: `Runs the full pipeline for one issue: classification, labeling,
project board routing, and (when enabled for the organization) branch
and pull request creation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, opts)
		},
	}
}

func runProcess(cmd *cobra.Command, args []string, opts *Options) error {
	repo := model.ParseRepoRef(args[0])
	if repo.IsZero() {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid issue number %q", args[1])
	}

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	issue, err := orch.FetchIssue(ctx, repo, number)
	if err != nil {
		return err
	}

	result, err := orch.ProcessIssue(ctx, issue, opts.Organization)
	if result != nil {
		printProcessResult(result)
	}
	return err
}

func printProcessResult(result *orchestrator.ProcessResult) {
	cls := result.Classification
	bold := color.New(color.Bold)

	bold.Printf("Issue #%d: %s\n", result.Issue.Number, result.Issue.Title)
	fmt.Printf("  type:       %s\n", cls.Type)
	fmt.Printf("  priority:   %s\n", colorPriority(string(cls.Priority)))
	fmt.Printf("  complexity: %s\n", cls.Complexity)
	fmt.Printf("  estimate:   %dh\n", cls.EstimatedHours)
	fmt.Printf("  confidence: %.2f\n", cls.Confidence)

	if result.Routing.Routed() {
		fmt.Printf("  board:      routed to %s (%s)\n", result.Routing.ProjectID, result.Routing.Status)
	} else {
		fmt.Println("  board:      no project board for repository")
	}
	if result.Branch != nil {
		state := "created"
		if result.Branch.Exists {
			state = "exists"
		}
		fmt.Printf("  branch:     %s (%s)\n", result.Branch.Plan.Name, state)
	}
	if result.PR != nil {
		fmt.Printf("  pr:         #%d %s\n", result.PR.Number, result.PR.URL)
	}
	for _, w := range result.Warnings {
		color.Yellow("  warning: %s", w)
	}
}

func colorPriority(p string) string {
	switch p {
	case "critical":
		return color.RedString(p)
	case "high":
		return color.YellowString(p)
	case "low":
		return color.HiBlackString(p)
	}
	return p
}
