// Package config provides configuration management for vaultpick.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for vaultpick.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/vaultpick)
	ConfigDir string

	// DataDir is the directory for data files such as the file keyring
	// (~/.local/share/vaultpick)
	DataDir string

	// RuntimeDir is the directory for the picker lock
	RuntimeDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir:  filepath.Join(appData, "vaultpick"),
			DataDir:    filepath.Join(localAppData, "vaultpick"),
			RuntimeDir: filepath.Join(localAppData, "vaultpick", "run"),
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = filepath.Join(home, ".vaultpick", "run")
	} else {
		runtimeDir = filepath.Join(runtimeDir, "vaultpick")
	}

	return &Paths{
		ConfigDir:  filepath.Join(configHome, "vaultpick"),
		DataDir:    filepath.Join(dataHome, "vaultpick"),
		RuntimeDir: runtimeDir,
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// LockFile returns the path to the single-picker lock file.
func (p *Paths) LockFile() string {
	return filepath.Join(p.RuntimeDir, "picker.lock")
}

// KeyringDir returns the directory used by the encrypted file keyring.
func (p *Paths) KeyringDir() string {
	return filepath.Join(p.DataDir, "keyring")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.ConfigDir,
		p.DataDir,
		p.RuntimeDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
