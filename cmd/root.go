package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/devflowhq/devflow/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "devflow",
		Short: "GitHub development lifecycle automation",
		Long: `Automates the development lifecycle of GitHub-hosted projects:
classifies incoming issues, provisions project boards, creates branches
and pull requests with conflict awareness, runs multi-repository
workflows, and auto-closes completed milestones.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Initialize(opts.Verbosity, os.Stderr)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")
	rootCmd.PersistentFlags().StringVar(&opts.Organization, "org", "", "Organization for config lookup (defaults to repo owner)")

	// Register subcommands
	rootCmd.AddCommand(NewCmdProcess(opts))
	rootCmd.AddCommand(NewCmdProject(opts))
	rootCmd.AddCommand(NewCmdWorkflow(opts))
	rootCmd.AddCommand(NewCmdMilestones(opts))
	rootCmd.AddCommand(NewCmdConflicts(opts))
	rootCmd.AddCommand(NewCmdHealth(opts))
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
