// Package session finds the vault session token the launcher authenticates
// with. Tokens come from the systemd user environment, the process
// environment or the OS keyring, tried in a configured order.
package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	vplog "github.com/runger/vaultpick/internal/log"
	"github.com/runger/vaultpick/internal/proc"
)

// DefaultPrefix is the variable name prefix `op signin` exports.
const DefaultPrefix = "OP_SESSION"

// Source names.
const (
	SourceSystemd = "systemd"
	SourceEnv     = "env"
	SourceKeyring = "keyring"
)

// ErrNotSignedIn is returned when no source yields a token.
var ErrNotSignedIn = errors.New("no session token found")

// Token is an opaque session token. It never prints its value.
type Token string

// String implements fmt.Stringer.
func (t Token) String() string {
	return "[redacted]"
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}

// Reveal returns the raw token for passing to the vault CLI.
func (t Token) Reveal() string {
	return string(t)
}

// Source looks up a token. It returns ErrNotSignedIn when it has none.
type Source interface {
	Name() string
	Token(ctx context.Context) (Token, error)
}

// ParseEnvironment scans KEY=VALUE lines and returns the value of the first
// key starting with prefix.
func ParseEnvironment(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(key, prefix) && value != "" {
			return value, true
		}
	}
	return "", false
}

// SystemdSource reads the systemd user manager's environment.
type SystemdSource struct {
	Runner proc.Runner
	Prefix string
}

// Name implements Source.
func (s SystemdSource) Name() string { return SourceSystemd }

// Token implements Source.
func (s SystemdSource) Token(ctx context.Context) (Token, error) {
	out, err := s.Runner.Run(ctx, nil, "systemctl", "--user", "show-environment")
	if err != nil {
		return "", fmt.Errorf("failed to query systemd user environment: %w", err)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read systemd user environment: %w", err)
	}

	if value, ok := ParseEnvironment(lines, prefixOrDefault(s.Prefix)); ok {
		return Token(value), nil
	}
	return "", ErrNotSignedIn
}

// EnvSource reads the launcher's own environment.
type EnvSource struct {
	Prefix  string
	Environ func() []string
}

// Name implements Source.
func (s EnvSource) Name() string { return SourceEnv }

// Token implements Source.
func (s EnvSource) Token(context.Context) (Token, error) {
	environ := s.Environ
	if environ == nil {
		environ = os.Environ
	}
	if value, ok := ParseEnvironment(environ(), prefixOrDefault(s.Prefix)); ok {
		return Token(value), nil
	}
	return "", ErrNotSignedIn
}

// Chain tries sources in order and returns the first token found.
type Chain struct {
	Sources []Source
	Logger  *slog.Logger
}

// Resolve returns the first token and the name of the source it came from.
// Errors other than ErrNotSignedIn are logged and the next source is tried;
// if every source fails, the first such error is reported alongside
// ErrNotSignedIn.
func (c Chain) Resolve(ctx context.Context) (Token, string, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var firstErr error
	for _, src := range c.Sources {
		tok, err := src.Token(ctx)
		if err == nil {
			logger.Debug("session token found", "source", src.Name(), "token", tok)
			return tok, src.Name(), nil
		}
		if errors.Is(err, ErrNotSignedIn) {
			logger.Debug("no session token in source", "source", src.Name())
			continue
		}
		vplog.LogSourceFailed(logger, src.Name(), err)
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return "", "", fmt.Errorf("%w (%v)", ErrNotSignedIn, firstErr)
	}
	return "", "", ErrNotSignedIn
}

func prefixOrDefault(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	return prefix
}
