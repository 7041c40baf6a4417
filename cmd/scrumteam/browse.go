package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/scrumteam/internal/tui"
)

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var (
		followUps []string
		teamFile  string
	)
	cmd := &cobra.Command{
		Use:   "browse <requirements>",
		Short: "Run an iteration and browse the result interactively",
		Args:  cobra.ExactArgs(1),
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

			app, err := tui.NewApp(tm, result,
				tui.WithLogbook(s.logbook),
				tui.WithExportDir(s.cfg.ExportDir()),
			)
			if err != nil {
				return err
			}
			p := tea.NewProgram(app,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&followUps, "follow-up", "f", nil, "Follow-up instruction to apply before browsing (repeatable)")
	cmd.Flags().StringVar(&teamFile, "team", "", "Team roster YAML (default: configured roster or built-in team)")
	return cmd
}
