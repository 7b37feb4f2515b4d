// Package log provides structured logging for vaultpick.
//
// Records go to stderr or a log file as text or JSON lines:
//
//	{"ts":"2026-01-15T10:30:00Z","level":"INFO","msg":"run finished","run_id":"…","outcome":"copied"}
//
// Log levels:
//   - debug: Verbose (enabled via --debug or VAULTPICK_DEBUG=1)
//   - info: Run start and outcome
//   - warn: Non-fatal issues (a session source failed, clipboard fallbacks)
//   - error: Failures that end the run
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config configures the structured logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelWarn)
	Level slog.Level

	// Format is FormatText or FormatJSON (default: FormatText)
	Format string

	// Debug enables debug level logging (overrides Level)
	Debug bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelWarn,
		Format: FormatText,
	}
}

// New creates a structured logger. The time key is written as "ts".
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Key = "ts"
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// NewFromEnv creates a logger configured from environment variables.
// VAULTPICK_DEBUG=1 enables debug logging.
func NewFromEnv() *slog.Logger {
	cfg := DefaultConfig()
	if os.Getenv("VAULTPICK_DEBUG") == "1" {
		cfg.Debug = true
	}
	return New(cfg)
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// OpenFile opens path for appending log records, creating its directory.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// RunInfo holds information to log when a launcher run starts.
type RunInfo struct {
	Version       string
	ConfigPath    string
	PickerBackend string
	Sources       []string
	Vault         string
	PID           int
}

// LogRunStart logs launcher startup information.
func LogRunStart(logger *slog.Logger, info RunInfo) {
	logger.Info("run started",
		"version", info.Version,
		"config_path", info.ConfigPath,
		"picker_backend", info.PickerBackend,
		"session_sources", info.Sources,
		"vault", info.Vault,
		"pid", info.PID,
	)
}

// LogRunFinished logs how a run ended. err may be nil.
func LogRunFinished(logger *slog.Logger, outcome string, err error) {
	if err != nil {
		logger.Info("run finished", "outcome", outcome, "error", err)
		return
	}
	logger.Info("run finished", "outcome", outcome)
}

// LogSourceFailed logs a session source that errored rather than coming up empty.
func LogSourceFailed(logger *slog.Logger, source string, err error) {
	logger.Warn("session source failed", "source", source, "error", err)
}
