package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/scrumteam/internal/report"
)

// configuredExportDir is what a bare --export resolves to.
const configuredExportDir = "auto"

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		jsonOut   bool
		followUps []string
		exportDir string
		teamFile  string
	)
	cmd := &cobra.Command{
		Use:   "run <requirements>",
		Short: "Run one sprint iteration and print the report",
		Long: `Run one sprint iteration over a requirements file (one requirement per
line, list markers and headings are stripped) and print the report.

Follow-up instructions are applied in order after the iteration. With
--export the artifacts are also written to disk; a bare --export uses the
configured export directory.`,
		Example: `  scrumteam run requirements.md
  scrumteam run requirements.md --json -f "Improve accessibility"
  scrumteam run requirements.md --export=./sprint-1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tm, err := s.team(teamFile)
			if err != nil {
				return err
			}
			result, err := tm.RunIteration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, instruction := range followUps {
				tm.HandleFollowUp(result, instruction)
			}

			if exportDir != "" {
				dir := exportDir
				if dir == configuredExportDir {
					dir = s.cfg.ExportDir()
				}
				refs, err := tm.Export(result, dir)
				if err != nil {
					return err
				}
				s.logger.Info("artifacts exported", "dir", dir, "count", len(refs))
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				text, err := report.JSON(result)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, text)
				return err
			}
			_, err = fmt.Fprintln(out, report.Format(result))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as indented JSON")
	cmd.Flags().StringArrayVarP(&followUps, "follow-up", "f", nil, "Follow-up instruction to apply after the iteration (repeatable)")
	cmd.Flags().StringVar(&exportDir, "export", "", "Write artifacts below DIR (bare flag: configured export dir)")
	cmd.Flags().Lookup("export").NoOptDefVal = configuredExportDir
	cmd.Flags().StringVar(&teamFile, "team", "", "Team roster YAML (default: configured roster or built-in team)")
	return cmd
}
