package main

import (
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/kingrea/scrumteam/internal/config"
	"github.com/kingrea/scrumteam/internal/logbook"
	"github.com/kingrea/scrumteam/internal/logging"
	"github.com/kingrea/scrumteam/internal/roster"
	"github.com/kingrea/scrumteam/internal/team"
)

// session is the per-command runtime: loaded config, logger and logbook.
type session struct {
	cfg     *config.Config
	logger  *charmlog.Logger
	logbook *logbook.Logbook
	logFile *os.File
}

func projectDir(opts *rootOptions) (string, error) {
	if opts.project != "" {
		return filepath.Abs(opts.project)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

// openSession loads the project config and wires logging. Flags win over
// config file and environment. The file logger and the logbook are only
// opened when the project has been initialised.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	dir, err := projectDir(opts)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Project.Logging.Level = opts.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Project.Logging.JSON = opts.logJSON
	}
	level, err := logging.ParseLevel(cfg.Project.Logging.Level)
	if err != nil {
		return nil, err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.JSON = cfg.Project.Logging.JSON
	logCfg.Output = cmd.ErrOrStderr()

	s := &session{cfg: cfg}
	if info, err := os.Stat(cfg.Dir); err == nil && info.IsDir() {
		f, err := logging.OpenFile(cfg.LogsDir())
		if err != nil {
			return nil, err
		}
		s.logFile = f
		logCfg = logging.Tee(logCfg, f)
		if cfg.LogbookEnabled() {
			book, err := logbook.New(filepath.Join(cfg.LogsDir(), logbook.FileName))
			if err != nil {
				s.Close()
				return nil, err
			}
			s.logbook = book
		}
	}
	s.logger = logging.New(logCfg)
	cmd.SetContext(logging.ContextWithLogger(cmd.Context(), s.logger))
	s.logger.Debug("session opened", "project", cfg.ProjectDir, "level", level)
	return s, nil
}

func (s *session) Close() error {
	if s == nil || s.logFile == nil {
		return nil
	}
	return s.logFile.Close()
}

// roster returns the roster named by the --team flag, the configured roster
// or the built-in seven-member team, in that order.
func (s *session) roster(teamFile string) (*roster.Roster, error) {
	path := teamFile
	if path == "" {
		path = s.cfg.RosterPath()
	}
	if path == "" {
		return roster.Default(), nil
	}
	s.logger.Debug("loading roster", "path", path)
	return roster.Load(afero.NewOsFs(), path)
}

// team builds the team and applies the configured provider overrides.
func (s *session) team(teamFile string) (*team.Team, error) {
	r, err := s.roster(teamFile)
	if err != nil {
		return nil, err
	}
	tm, err := team.FromRoster(r, nil, team.WithLogger(s.logger), team.WithLogbook(s.logbook))
	if err != nil {
		return nil, err
	}
	if !s.cfg.Project.Providers.IsZero() {
		if err := tm.ConfigureProviders(s.cfg.Project.Providers); err != nil {
			return nil, err
		}
	}
	return tm, nil
}
