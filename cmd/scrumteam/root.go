package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	project  string
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "scrumteam",
		Short: "Simulated Scrum team that turns requirements into sprint artifacts",
		Long: `scrumteam runs one sprint iteration over a requirements file with an
architect, three developers and three testers, then prints the collected
architecture decisions, plans, scaffolds and test documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	root.PersistentFlags().StringVar(&opts.project, "project", "", "Project directory holding .scrumteam/ (default: working directory)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	root.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		newRunCmd(opts),
		newBrowseCmd(opts),
		newValidateCmd(opts),
		newRosterCmd(opts),
		newInitCmd(opts),
	)
	return root
}
