package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devflowhq/devflow/internal/model"
	"github.com/devflowhq/devflow/internal/workflow"
)

// NewCmdWorkflow creates the workflow command.
func NewCmdWorkflow(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Cross-repository workflow execution",
	}
	cmd.AddCommand(NewCmdWorkflowRun(opts))
	return cmd
}

// NewCmdWorkflowRun creates the workflow run subcommand.
func NewCmdWorkflowRun(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <workflow.yaml>",
		Short: "Run a workflow definition across repositories",
		Long: `Reads a YAML workflow definition and executes its steps against each
listed repository in order. A failed required step marks the
repository failed and, unless --continue-on-error is set, aborts the
remaining repositories.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.ContinueOnError, "continue-on-error", false, "Continue with remaining repositories after a failure")
	return cmd
}

func runWorkflow(cmd *cobra.Command, args []string, opts *Options) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read workflow file: %w", err)
	}

	var def model.WorkflowDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("failed to parse workflow file: %w", err)
	}

	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	result, err := orch.ExecuteWorkflow(ctx, def, workflow.ExecuteOptions{
		ContinueOnError: opts.ContinueOnError,
	})
	if err != nil {
		return err
	}

	printWorkflowResult(result)
	if !result.Success {
		return fmt.Errorf("workflow %s failed", result.WorkflowID)
	}
	return nil
}

func printWorkflowResult(result model.WorkflowResult) {
	bold := color.New(color.Bold)
	bold.Printf("Workflow %s (%s)\n", result.WorkflowID, result.Duration.Round(time.Millisecond))

	for _, repo := range result.Repos {
		status := color.GreenString("ok")
		if !repo.Success {
			status = color.RedString("failed")
		}
		fmt.Printf("  %s: %s\n", repo.Repo.FullName(), status)
		for _, step := range repo.Steps {
			switch {
			case step.Skipped:
				fmt.Printf("    - %s: %s\n", step.Name, color.HiBlackString("skipped"))
			case step.Success:
				fmt.Printf("    - %s: ok\n", step.Name)
			default:
				fmt.Printf("    - %s: %s\n", step.Name, color.RedString(step.Error))
			}
		}
	}
}
