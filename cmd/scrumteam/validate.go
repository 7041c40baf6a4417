package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kingrea/scrumteam/internal/artifact"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		teamFile  string
		exportDir string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the project config, roster and provider overrides",
		Long: `Check the project config, roster and provider overrides.

With --export the documents of an earlier export are verified against the
checksums recorded in their frontmatter; a bare --export uses the configured
export directory.`,
		Example: `  scrumteam validate
  scrumteam validate --export=./sprint-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tm, err := s.team(teamFile)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "configuration OK: %d developers, %d testers\n", len(tm.Developers), len(tm.Testers)); err != nil {
				return err
			}
			if exportDir == "" {
				return nil
			}

			dir := exportDir
			if dir == configuredExportDir {
				dir = s.cfg.ExportDir()
			}
			results, err := artifact.NewStore(dir, artifact.WithFs(afero.NewOsFs())).Verify()
			if err != nil {
				return err
			}
			bad := 0
			for _, result := range results {
				if result.State == artifact.StateReady {
					continue
				}
				bad++
				fmt.Fprintf(out, "%s: %s: %v\n", result.State, result.Ref.Rel, result.Err)
			}
			if bad > 0 {
				s.logger.Warn("export verification failed", "dir", dir, "invalid", bad, "documents", len(results))
				return fmt.Errorf("export %s: %d of %d documents failed verification", dir, bad, len(results))
			}
			_, err = fmt.Fprintf(out, "export OK: %d documents verified in %s\n", len(results), dir)
			return err
		},
	}
	cmd.Flags().StringVar(&teamFile, "team", "", "Team roster YAML (default: configured roster or built-in team)")
	cmd.Flags().StringVar(&exportDir, "export", "", "Verify document checksums below DIR (bare flag: configured export dir)")
	cmd.Flags().Lookup("export").NoOptDefVal = configuredExportDir
	return cmd
}
