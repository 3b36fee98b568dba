package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewCmdHealth creates the health command.
func NewCmdHealth(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report component health",
		Long:  `Reports the status of each devflow component and the shared rate limit state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, opts)
		},
	}
}

func runHealth(cmd *cobra.Command, opts *Options) error {
	ctx := cmd.Context()
	orch, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	defer orch.Shutdown()

	report := orch.SystemHealth()

	names := make([]string, 0, len(report.Components))
	for name := range report.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := report.Components[name]
		status := c.Status
		switch c.Status {
		case "ok":
			status = color.GreenString(c.Status)
		case "degraded":
			status = color.YellowString(c.Status)
		default:
			status = color.RedString(c.Status)
		}
		fmt.Printf("%-14s %s", name, status)
		if c.Detail != "" {
			fmt.Printf("  (%s)", c.Detail)
		}
		fmt.Println()
	}

	if !report.Healthy {
		return fmt.Errorf("system unhealthy")
	}
	return nil
}
