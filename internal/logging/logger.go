// Package logging configures the structured logger shared by the CLI and
// the team orchestrator.
package logging

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// FileName is the log file kept under .scrumteam/logs.
const FileName = "scrumteam.log"

// Level is a textual log level.
type Level string

const (
	DebugLevel    Level = "debug"
	InfoLevel     Level = "info"
	WarnLevel     Level = "warn"
	ErrorLevel    Level = "error"
	DisabledLevel Level = "disabled"
)

// ParseLevel accepts debug, info, warn, error or disabled (case-insensitive).
func ParseLevel(text string) (Level, error) {
	switch level := Level(strings.ToLower(strings.TrimSpace(text))); level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, DisabledLevel:
		return level, nil
	case "":
		return InfoLevel, nil
	default:
		return "", fmt.Errorf("logging: unknown level %q", text)
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case DisabledLevel:
		return charmlog.Level(math.MaxInt32)
	default:
		return charmlog.InfoLevel
	}
}

// Config controls logger construction.
type Config struct {
	Level      Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig logs info and above to stderr so stdout stays free for reports.
func DefaultConfig() Config {
	return Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

// New builds a charm logger from cfg.
func New(cfg Config) *charmlog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = "15:04:05"
	}
	logger := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.charm(),
	})
	if cfg.JSON {
		logger.SetFormatter(charmlog.JSONFormatter)
	}
	return logger
}

// Discard returns a logger that writes nothing.
func Discard() *charmlog.Logger {
	return New(Config{Level: DisabledLevel, Output: io.Discard})
}

// OpenFile opens (or creates) scrumteam.log in logDir for appending.
func OpenFile(logDir string) (*os.File, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return f, nil
}

// Tee returns cfg with its output duplicated into w.
func Tee(cfg Config, w io.Writer) Config {
	if w == nil {
		return cfg
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	cfg.Output = io.MultiWriter(cfg.Output, w)
	return cfg
}

type ctxKey struct{}

// ContextWithLogger attaches logger to ctx.
func ContextWithLogger(ctx context.Context, logger *charmlog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) *charmlog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*charmlog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Discard()
}
