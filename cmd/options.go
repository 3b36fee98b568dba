package cmd

// Options holds the shared command-line options for the devflow CLI.
type Options struct {
	Verbosity    int
	Organization string

	// Workflow options
	ContinueOnError bool

	// Conflict detection options
	TargetBranch string
}
