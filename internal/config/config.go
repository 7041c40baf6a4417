// internal/config/config.go
//
// This package handles configuration and the .scrumteam directory structure.
// A project that runs scrumteam may carry a .scrumteam/ folder in its root
// with a config.yaml, a logs/ directory and an exports/ directory.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/scrumteam/internal/team"
)

const (
	// DirName is the directory created in each project.
	DirName = ".scrumteam"
	// FileName is the project config file inside DirName.
	FileName = "config.yaml"
	// LogsDirName holds the log file and sprint logbook.
	LogsDirName = "logs"
	// ExportsDirName is the default export destination.
	ExportsDirName = "exports"
	// EnvFileName is loaded from the project root when present.
	EnvFileName = ".env"
)

// Environment variables that override the config file.
const (
	EnvLogLevel           = "SCRUMTEAM_LOG_LEVEL"
	EnvArchitectProvider  = "SCRUMTEAM_ARCHITECT_PROVIDER"
	EnvDevelopersProvider = "SCRUMTEAM_DEVELOPERS_PROVIDER"
	EnvTestersProvider    = "SCRUMTEAM_TESTERS_PROVIDER"
	EnvExportDir          = "SCRUMTEAM_EXPORT_DIR"
)

const defaultProjectConfigYAML = `# scrumteam project configuration
version: 1

# Provider overrides per discipline. A single value applies to every member,
# a list assigns one provider per member in roster order.
# providers:
#   architect: openai:gpt-4o
#   developers: [openai:gpt-4o-mini, openai:gpt-4o-mini, ollama:llama3]
#   testers: {provider: ollama, model: llama3}

# Path to a custom team roster, relative to the project root.
# roster: team.yaml

export:
  dir: .scrumteam/exports

logging:
  level: info
  json: false

logbook:
  enabled: true
`

var validate = validator.New(validator.WithRequiredStructEnabled())

// ExportConfig controls artifact export.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error disabled"`
	JSON  bool   `yaml:"json"`
}

// LogbookConfig controls the sprint logbook.
type LogbookConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// ProjectConfig models .scrumteam/config.yaml.
type ProjectConfig struct {
	Version   int            `yaml:"version" validate:"gte=1"`
	Providers team.Overrides `yaml:"providers,omitempty"`
	Roster    string         `yaml:"roster,omitempty"`
	Export    ExportConfig   `yaml:"export"`
	Logging   LoggingConfig  `yaml:"logging"`
	Logbook   LogbookConfig  `yaml:"logbook"`
}

// Config holds the runtime configuration for one project directory.
type Config struct {
	ProjectDir string
	// Dir is ProjectDir/.scrumteam
	Dir     string
	Project ProjectConfig

	fs afero.Fs
}

// Option customizes Load and InitDir.
type Option func(*options)

type options struct {
	fs     afero.Fs
	lookup func(string) (string, bool)
}

// WithFs swaps the filesystem (the OS filesystem by default).
func WithFs(fsys afero.Fs) Option {
	return func(o *options) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithLookupEnv swaps the process environment lookup.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		if lookup != nil {
			o.lookup = lookup
		}
	}
}

func resolve(opts []Option) options {
	o := options{fs: afero.NewOsFs(), lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// InitDir creates the .scrumteam directory structure in projectDir and
// writes a commented default config when none exists.
//
// Structure created:
// .scrumteam/
// ├── config.yaml
// ├── logs/      <- scrumteam.log and sprints.log
// └── exports/   <- default artifact export root
func InitDir(projectDir string, opts ...Option) error {
	o := resolve(opts)
	root := filepath.Join(projectDir, DirName)
	for _, dir := range []string{
		filepath.Join(root, LogsDirName),
		filepath.Join(root, ExportsDirName),
	} {
		if err := o.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(o.fs, filepath.Join(root, FileName))
}

// Load reads .scrumteam/config.yaml below projectDir, fills defaults, then
// applies .env and SCRUMTEAM_* environment overrides. A missing config file
// yields the defaults. Variables already set in the environment win over
// values from .env.
func Load(projectDir string, opts ...Option) (*Config, error) {
	o := resolve(opts)
	cfg := &Config{
		ProjectDir: projectDir,
		Dir:        filepath.Join(projectDir, DirName),
		fs:         o.fs,
	}

	var parsed ProjectConfig
	path := cfg.ProjectConfigPath()
	data, err := afero.ReadFile(o.fs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := mergo.Merge(&parsed, defaultProjectConfig(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}

	env, err := loadDotEnv(o.fs, filepath.Join(projectDir, EnvFileName))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := o.lookup(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	parsed.applyEnv(lookup)
	parsed.normalize()

	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Project = parsed
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Dir, LogsDirName)
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.Dir, FileName)
}

// ExportDir resolves the export directory against the project root.
func (c *Config) ExportDir() string {
	return resolvePath(c.ProjectDir, c.Project.Export.Dir)
}

// RosterPath resolves the configured roster file; empty means the built-in team.
func (c *Config) RosterPath() string {
	return resolvePath(c.ProjectDir, c.Project.Roster)
}

// LogbookEnabled reports whether the sprint logbook should be written.
func (c *Config) LogbookEnabled() bool {
	return c.Project.Logbook.Enabled == nil || *c.Project.Logbook.Enabled
}

// Save writes the project config back to disk.
func (c *Config) Save() error {
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fsys := c.fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if err := fsys.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", c.Dir, err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := afero.WriteFile(fsys, c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	enabled := true
	return ProjectConfig{
		Version: 1,
		Export:  ExportConfig{Dir: filepath.Join(DirName, ExportsDirName)},
		Logging: LoggingConfig{Level: "info"},
		Logbook: LogbookConfig{Enabled: &enabled},
	}
}

func (pc *ProjectConfig) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		pc.Logging.Level = v
	}
	if v, ok := lookup(EnvExportDir); ok && strings.TrimSpace(v) != "" {
		pc.Export.Dir = v
	}
	envOverrides := team.Overrides{}
	if v, ok := lookup(EnvArchitectProvider); ok {
		envOverrides.Architect = team.ParseOverride(v)
	}
	if v, ok := lookup(EnvDevelopersProvider); ok {
		envOverrides.Developers = team.ParseOverride(v)
	}
	if v, ok := lookup(EnvTestersProvider); ok {
		envOverrides.Testers = team.ParseOverride(v)
	}
	pc.Providers = pc.Providers.Merge(envOverrides)
}

func (pc *ProjectConfig) normalize() {
	pc.Logging.Level = strings.ToLower(strings.TrimSpace(pc.Logging.Level))
	pc.Export.Dir = strings.TrimSpace(pc.Export.Dir)
	pc.Roster = strings.TrimSpace(pc.Roster)
}

func (pc *ProjectConfig) validate() error {
	if err := validate.Struct(pc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: invalid value %q (%s)", strings.TrimPrefix(fe.Namespace(), "ProjectConfig."), fmt.Sprint(fe.Value()), fe.Tag())
		}
		return err
	}
	return nil
}

func loadDotEnv(fsys afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	env, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return env, nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(fsys afero.Fs, path string) error {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if exists {
		return nil
	}
	return afero.WriteFile(fsys, path, []byte(defaultProjectConfigYAML), 0o644)
}
