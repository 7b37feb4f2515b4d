package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runger/vaultpick/internal/clipboard"
	"github.com/runger/vaultpick/internal/config"
	vplog "github.com/runger/vaultpick/internal/log"
	"github.com/runger/vaultpick/internal/picker"
	"github.com/runger/vaultpick/internal/proc"
	"github.com/runger/vaultpick/internal/session"
	"github.com/runger/vaultpick/internal/vault"
)

// Constructors for the pieces that touch the outside world. Tests replace them.
var (
	newRunner    = func() proc.Runner { return proc.ExecRunner{} }
	openKeyring  = session.OpenKeyring
	newPicker    = picker.New
	newClipboard = clipboard.New
	acquireLock  = picker.AcquireLock
)

// app holds what every command needs once config and logging are set up.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	runner proc.Runner

	cfgPath string
	closeFn func()
}

// newApp loads the configuration, applies command-line overrides and
// configures logging. Callers must call close.
func newApp() (*app, error) {
	paths := config.DefaultPaths()
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = paths.ConfigFile()
	}

	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cfg); err != nil {
		return nil, err
	}

	logger, closeFn, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		paths:   paths,
		logger:  logger,
		runner:  newRunner(),
		cfgPath: cfgPath,
		closeFn: closeFn,
	}, nil
}

func (a *app) close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// applyFlags lets command-line flags win over the file and environment.
func applyFlags(cfg *config.Config) error {
	if flagPicker != "" {
		cfg.Picker.Backend = flagPicker
	}
	if flagVault != "" {
		cfg.Vault.Name = flagVault
	}
	if flagDebug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// newLogger builds the logger described by lc. Records go to stderr unless
// a log file is configured.
func newLogger(lc config.LogConfig, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := vplog.ParseLevel(lc.Level)
	if err != nil {
		return nil, nil, err
	}

	out := stderr
	closeFn := func() {}
	if lc.File != "" {
		f, err := vplog.OpenFile(lc.File)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := vplog.New(&vplog.Config{Output: out, Level: level, Format: lc.Format})
	return logger, closeFn, nil
}

// sessionChain builds the configured token sources in order.
func (a *app) sessionChain() session.Chain {
	prefix := a.cfg.Session.Prefix
	sources := make([]session.Source, 0, len(a.cfg.Session.Sources))
	for _, name := range a.cfg.Session.Sources {
		switch name {
		case session.SourceSystemd:
			sources = append(sources, session.SystemdSource{Runner: a.runner, Prefix: prefix})
		case session.SourceEnv:
			sources = append(sources, session.EnvSource{Prefix: prefix})
		case session.SourceKeyring:
			sources = append(sources, session.KeyringSource{Open: a.keyring})
		}
	}
	return session.Chain{Sources: sources, Logger: a.logger}
}

func (a *app) keyring() (session.Store, error) {
	return openKeyring(a.paths.KeyringDir())
}

// vaultClient returns a client for the password manager CLI using token.
func (a *app) vaultClient(token session.Token) vault.Client {
	return vault.NewCLIClient(a.runner, token.Reveal(),
		vault.WithCommand(a.cfg.Vault.Command),
		vault.WithVault(a.cfg.Vault.Name),
		vault.WithAccount(a.cfg.Vault.Account),
		vault.WithLogger(a.logger),
	)
}

func (a *app) interactive() (picker.Interactive, error) {
	argv, err := a.cfg.PickerArgv()
	if err != nil {
		return nil, err
	}
	return newPicker(a.cfg.Picker.Backend, argv, a.cfg.Picker.CaseSensitive, a.logger)
}

func (a *app) clipboardSetter() (clipboard.Setter, error) {
	argv, err := a.cfg.ClipboardArgv()
	if err != nil {
		return nil, err
	}
	return newClipboard(a.cfg.Clipboard.Backend, a.runner, argv)
}

// lock takes the single-picker lock under the runtime directory.
func (a *app) lock() (func(), error) {
	if err := a.paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}
	l, err := acquireLock(a.paths.LockFile())
	if err != nil {
		return nil, err
	}
	return l.Release, nil
}
