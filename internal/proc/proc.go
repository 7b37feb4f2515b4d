// Package proc runs the external commands vaultpick talks to.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/runger/vaultpick/internal/sanitize"
)

// Runner runs a command to completion and returns its standard output.
// stdin may be nil.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

// Error describes a command that could not be started or exited non-zero.
type Error struct {
	Command  string
	ExitCode int // -1 when the command did not run to completion
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("`%s` failed: %s", e.Command, sanitize.Sanitize(e.Stderr))
	}
	return fmt.Sprintf("`%s` failed: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultWaitDelay is how long Run keeps reading output after the command
// has exited.
const DefaultWaitDelay = 250 * time.Millisecond

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env, when non-nil, replaces the child's environment.
	Env []string
	// WaitDelay bounds how long Run waits for output pipes to close once the
	// command has exited. Clipboard helpers such as xclip fork a server that
	// keeps them open. Zero means DefaultWaitDelay.
	WaitDelay time.Duration
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// Exited successfully; a background child still held the pipes.
		err = nil
	}
	if err != nil {
		perr := &Error{
			Command:  Describe(name, args),
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		return stdout.Bytes(), perr
	}
	return stdout.Bytes(), nil
}

// Describe renders a command for error messages, hiding the value that
// follows any --session flag.
func Describe(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	hide := false
	for _, a := range args {
		switch {
		case hide:
			parts = append(parts, "[redacted]")
			hide = false
		case a == "--session":
			parts = append(parts, a)
			hide = true
		case strings.HasPrefix(a, "--session="):
			parts = append(parts, "--session=[redacted]")
		default:
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
