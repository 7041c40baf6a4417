package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRosterCmd(opts *rootOptions) *cobra.Command {
	var (
		teamFile string
		asYAML   bool
	)
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show team members and their LLM providers",
		Long: `Show the team that would run an iteration: the roster from --team or the
project config (built-in team otherwise) with configured provider overrides
applied. --yaml prints the roster file instead, a starting point for a
custom team.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if asYAML {
				r, err := s.roster(teamFile)
				if err != nil {
					return err
				}
				data, err := r.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			tm, err := s.team(teamFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDISCIPLINE\tPROVIDER")
			for _, member := range tm.Roles() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", member.Name(), member.Discipline(), member.Provider().Describe())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&teamFile, "team", "", "Team roster YAML (default: configured roster or built-in team)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the roster as YAML")
	return cmd
}
