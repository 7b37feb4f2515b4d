package cmd

import (
	"context"
	"errors"

	"github.com/runger/vaultpick/internal/fields"
	"github.com/runger/vaultpick/internal/launcher"
	"github.com/runger/vaultpick/internal/picker"
	"github.com/runger/vaultpick/internal/session"
	"github.com/runger/vaultpick/internal/vault"
)

const (
	ExitOK          = 0
	ExitSystem      = 1
	ExitUser        = 2
	ExitAuth        = 3
	ExitCancelled   = 4
	ExitBusy        = 5
	ExitInterrupted = 130
)

// ExitCode maps a command error to a stable process exit code so that
// window-manager bindings and scripts can tell outcomes apart.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, picker.ErrNoSelection):
		return ExitCancelled
	case errors.Is(err, picker.ErrAlreadyRunning):
		return ExitBusy
	case errors.Is(err, launcher.ErrSessionInvalid):
		return ExitAuth
	case errors.Is(err, session.ErrNotSignedIn),
		errors.Is(err, vault.ErrNoItems),
		errors.Is(err, fields.ErrNoFields),
		errors.Is(err, fields.ErrNoDisplayableFields):
		return ExitUser
	default:
		return ExitSystem
	}
}
