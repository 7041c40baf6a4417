package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/scrumteam/internal/config"
	"github.com/kingrea/scrumteam/internal/roster"
	"github.com/kingrea/scrumteam/internal/tui"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		withRoster  bool
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .scrumteam/ with a default config",
		Long: `Create .scrumteam/ (config.yaml, logs/, exports/) in the project directory.
An existing config is left untouched. --roster also writes team.yaml with
the built-in team so it can be edited. --interactive asks for provider
overrides and saves them to the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := projectDir(opts)
			if err != nil {
				return err
			}
			if err := config.InitDir(dir); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "initialized %s\n", filepath.Join(dir, config.DirName))
			if withRoster {
				if err := writeRoster(cmd, dir); err != nil {
					return err
				}
			}
			if interactive {
				return configureProviders(cmd, opts)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withRoster, "roster", false, "Also write team.yaml with the built-in team")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for LLM provider overrides")
	return cmd
}

func writeRoster(cmd *cobra.Command, dir string) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(dir, roster.FileName)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "kept existing %s\n", path)
		return nil
	}
	data, err := roster.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write roster: %w", err)
	}
	fmt.Fprintf(out, "wrote %s (set `roster: %s` in %s to use it)\n", path, roster.FileName, config.FileName)
	return nil
}

// configureProviders runs the provider form, checks the answers against the
// configured roster and saves them.
func configureProviders(cmd *cobra.Command, opts *rootOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	var data tui.ProviderFormData
	if err := tui.NewProviderForm(&data).Run(); err != nil {
		return fmt.Errorf("provider setup: %w", err)
	}
	s.cfg.Project.Providers = s.cfg.Project.Providers.Merge(data.Overrides())
	if _, err := s.team(""); err != nil {
		return err
	}
	if err := s.cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved provider overrides to %s\n", s.cfg.ProjectConfigPath())
	return nil
}
