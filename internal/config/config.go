package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Config represents the vaultpick configuration.
type Config struct {
	Picker    PickerConfig    `yaml:"picker"`
	Vault     VaultConfig     `yaml:"vault"`
	Session   SessionConfig   `yaml:"session"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Log       LogConfig       `yaml:"log"`
}

// PickerConfig holds picker settings.
type PickerConfig struct {
	Backend       string `yaml:"backend"`        // command or builtin
	Command       string `yaml:"command"`        // dmenu-style command line; the prompt is appended
	ItemPrompt    string `yaml:"item_prompt"`    // Prompt for the item picker
	FieldPrompt   string `yaml:"field_prompt"`   // Prompt for the field picker
	CaseSensitive bool   `yaml:"case_sensitive"` // Builtin backend only
}

// VaultConfig holds password manager CLI settings.
type VaultConfig struct {
	Command string `yaml:"command"` // Password manager CLI binary
	Name    string `yaml:"name"`    // Restrict listing to one vault
	Account string `yaml:"account"` // Account shorthand or ID
}

// SessionConfig holds session token discovery settings.
type SessionConfig struct {
	Sources  []string `yaml:"sources"`  // Tried in order: systemd, env, keyring
	Prefix   string   `yaml:"prefix"`   // Environment key prefix
	Validate bool     `yaml:"validate"` // Check the token with whoami before listing
}

// ClipboardConfig holds clipboard settings.
type ClipboardConfig struct {
	Backend string `yaml:"backend"` // command or system
	Command string `yaml:"command"` // Command line that reads the value on stdin
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // Log file path (empty = stderr)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			Backend:     "command",
			Command:     "wofi --dmenu --prompt",
			ItemPrompt:  "🔐 Select item",
			FieldPrompt: "📋 Copy field",
		},
		Vault: VaultConfig{
			Command: "op",
		},
		Session: SessionConfig{
			Sources:  []string{"systemd", "env", "keyring"},
			Prefix:   "OP_SESSION",
			Validate: false,
		},
		Clipboard: ClipboardConfig{
			Backend: "command",
			Command: "wl-copy",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	paths := DefaultPaths()
	return c.SaveToFile(paths.ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key.
// For example: "picker.backend" or "session.sources"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "picker":
		return c.getPickerField(field)
	case "vault":
		return c.getVaultField(field)
	case "session":
		return c.getSessionField(field)
	case "clipboard":
		return c.getClipboardField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "picker":
		return c.setPickerField(field, value)
	case "vault":
		return c.setVaultField(field, value)
	case "session":
		return c.setSessionField(field, value)
	case "clipboard":
		return c.setClipboardField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getPickerField(field string) (string, error) {
	switch field {
	case "backend":
		return c.Picker.Backend, nil
	case "command":
		return c.Picker.Command, nil
	case "item_prompt":
		return c.Picker.ItemPrompt, nil
	case "field_prompt":
		return c.Picker.FieldPrompt, nil
	case "case_sensitive":
		return strconv.FormatBool(c.Picker.CaseSensitive), nil
	default:
		return "", fmt.Errorf("unknown field: picker.%s", field)
	}
}

func (c *Config) setPickerField(field, value string) error {
	switch field {
	case "backend":
		if !isValidPickerBackend(value) {
			return fmt.Errorf("invalid picker backend: %s (must be command or builtin)", value)
		}
		c.Picker.Backend = value
	case "command":
		if _, err := SplitCommand(value); err != nil {
			return fmt.Errorf("invalid value for command: %w", err)
		}
		c.Picker.Command = value
	case "item_prompt":
		c.Picker.ItemPrompt = value
	case "field_prompt":
		c.Picker.FieldPrompt = value
	case "case_sensitive":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for case_sensitive: %w", err)
		}
		c.Picker.CaseSensitive = b
	default:
		return fmt.Errorf("unknown field: picker.%s", field)
	}
	return nil
}

func (c *Config) getVaultField(field string) (string, error) {
	switch field {
	case "command":
		return c.Vault.Command, nil
	case "name":
		return c.Vault.Name, nil
	case "account":
		return c.Vault.Account, nil
	default:
		return "", fmt.Errorf("unknown field: vault.%s", field)
	}
}

func (c *Config) setVaultField(field, value string) error {
	switch field {
	case "command":
		if strings.TrimSpace(value) == "" {
			return errors.New("vault.command must not be empty")
		}
		c.Vault.Command = value
	case "name":
		c.Vault.Name = value
	case "account":
		c.Vault.Account = value
	default:
		return fmt.Errorf("unknown field: vault.%s", field)
	}
	return nil
}

func (c *Config) getSessionField(field string) (string, error) {
	switch field {
	case "sources":
		return strings.Join(c.Session.Sources, ","), nil
	case "prefix":
		return c.Session.Prefix, nil
	case "validate":
		return strconv.FormatBool(c.Session.Validate), nil
	default:
		return "", fmt.Errorf("unknown field: session.%s", field)
	}
}

func (c *Config) setSessionField(field, value string) error {
	switch field {
	case "sources":
		var sources []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		if err := validateSources(sources); err != nil {
			return err
		}
		c.Session.Sources = sources
	case "prefix":
		if value == "" {
			return errors.New("session.prefix must not be empty")
		}
		c.Session.Prefix = value
	case "validate":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for validate: %w", err)
		}
		c.Session.Validate = b
	default:
		return fmt.Errorf("unknown field: session.%s", field)
	}
	return nil
}

func (c *Config) getClipboardField(field string) (string, error) {
	switch field {
	case "backend":
		return c.Clipboard.Backend, nil
	case "command":
		return c.Clipboard.Command, nil
	default:
		return "", fmt.Errorf("unknown field: clipboard.%s", field)
	}
}

func (c *Config) setClipboardField(field, value string) error {
	switch field {
	case "backend":
		if !isValidClipboardBackend(value) {
			return fmt.Errorf("invalid clipboard backend: %s (must be command or system)", value)
		}
		c.Clipboard.Backend = value
	case "command":
		if _, err := SplitCommand(value); err != nil {
			return fmt.Errorf("invalid value for command: %w", err)
		}
		c.Clipboard.Command = value
	default:
		return fmt.Errorf("unknown field: clipboard.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "format":
		return c.Log.Format, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "format":
		if !isValidLogFormat(value) {
			return fmt.Errorf("invalid log format: %s (must be text or json)", value)
		}
		c.Log.Format = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isValidPickerBackend(c.Picker.Backend) {
		return fmt.Errorf("picker.backend must be command or builtin (got: %s)", c.Picker.Backend)
	}
	if _, err := c.PickerArgv(); err != nil {
		return fmt.Errorf("picker.command: %w", err)
	}

	if strings.TrimSpace(c.Vault.Command) == "" {
		return errors.New("vault.command must not be empty")
	}

	if err := validateSources(c.Session.Sources); err != nil {
		return err
	}
	if c.Session.Prefix == "" {
		return errors.New("session.prefix must not be empty")
	}

	if !isValidClipboardBackend(c.Clipboard.Backend) {
		return fmt.Errorf("clipboard.backend must be command or system (got: %s)", c.Clipboard.Backend)
	}
	if _, err := c.ClipboardArgv(); err != nil {
		return fmt.Errorf("clipboard.command: %w", err)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	if !isValidLogFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be text or json (got: %s)", c.Log.Format)
	}

	return nil
}

func validateSources(sources []string) error {
	if len(sources) == 0 {
		return errors.New("session.sources must name at least one source")
	}
	for _, s := range sources {
		switch s {
		case "systemd", "env", "keyring":
		default:
			return fmt.Errorf("session.sources: unknown source %q (must be systemd, env, or keyring)", s)
		}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidLogFormat(format string) bool {
	return format == "text" || format == "json"
}

func isValidPickerBackend(backend string) bool {
	return backend == "command" || backend == "builtin"
}

func isValidClipboardBackend(backend string) bool {
	return backend == "command" || backend == "system"
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("VAULTPICK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("VAULTPICK_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("VAULTPICK_PICKER"); v != "" {
		if isValidPickerBackend(v) {
			c.Picker.Backend = v
		}
	}
	if v := os.Getenv("VAULTPICK_VAULT"); v != "" {
		c.Vault.Name = v
	}
}

// PickerArgv returns the picker command line split into arguments.
func (c *Config) PickerArgv() ([]string, error) {
	return SplitCommand(c.Picker.Command)
}

// ClipboardArgv returns the clipboard command line split into arguments.
func (c *Config) ClipboardArgv() ([]string, error) {
	return SplitCommand(c.Clipboard.Command)
}

// SplitCommand splits a command line with shell quoting rules. An empty
// line yields a nil slice so callers fall back to their default command.
func SplitCommand(line string) ([]string, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", line, err)
	}
	return argv, nil
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"picker.backend",
		"picker.command",
		"picker.item_prompt",
		"picker.field_prompt",
		"picker.case_sensitive",
		"vault.command",
		"vault.name",
		"vault.account",
		"session.sources",
		"session.prefix",
		"session.validate",
		"clipboard.backend",
		"clipboard.command",
		"log.level",
		"log.format",
		"log.file",
	}
}
