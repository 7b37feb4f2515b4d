// Package clipboard hands the selected secret to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/runger/vaultpick/internal/proc"
)

// Backend names.
const (
	BackendCommand = "command"
	BackendSystem  = "system"
)

// DefaultCommand is the Wayland clipboard setter.
var DefaultCommand = []string{"wl-copy"}

// Setter copies a value to the clipboard.
type Setter interface {
	Set(ctx context.Context, value string) error
}

// CommandSetter pipes the value into an external command's stdin and waits
// for it to exit.
type CommandSetter struct {
	Runner proc.Runner
	Argv   []string
}

// Set implements Setter.
func (s CommandSetter) Set(ctx context.Context, value string) error {
	argv := s.Argv
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	if _, err := s.Runner.Run(ctx, strings.NewReader(value), argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// SystemSetter uses the platform clipboard helpers (xclip, xsel, wl-copy,
// pbcopy, or the Windows API) through atotto/clipboard.
type SystemSetter struct{}

// Set implements Setter.
func (SystemSetter) Set(_ context.Context, value string) error {
	if clipboard.Unsupported {
		return errors.New("failed to copy to clipboard: no clipboard utility available")
	}
	if err := clipboard.WriteAll(value); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// New returns the setter for backend.
func New(backend string, runner proc.Runner, argv []string) (Setter, error) {
	switch backend {
	case "", BackendCommand:
		return CommandSetter{Runner: runner, Argv: argv}, nil
	case BackendSystem:
		return SystemSetter{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}
