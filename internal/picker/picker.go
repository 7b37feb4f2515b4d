// Package picker presents lines to the user through an interactive picker
// and returns the line they chose.
//
// A picker is driven as a strict request/response exchange: every line is
// written, the input is closed, and the picker's single output line is read
// after it exits. Backends are an external dmenu-style command (wofi, rofi,
// fzf) or a built-in terminal UI.
package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names.
const (
	BackendCommand = "command"
	BackendBuiltin = "builtin"
)

var (
	// ErrLaunchFailed is returned when the picker cannot be started.
	ErrLaunchFailed = errors.New("failed to launch picker")

	// ErrPickerIO is returned when lines cannot be written to the picker.
	ErrPickerIO = errors.New("picker I/O failed")

	// ErrNonZeroExit is returned when the picker exits unsuccessfully.
	ErrNonZeroExit = errors.New("picker exited non-successfully")

	// ErrNoSelection is returned when the picker was dismissed.
	ErrNoSelection = errors.New("no selection made")

	// ErrAlreadyRunning is returned when another launcher holds the picker lock.
	ErrAlreadyRunning = errors.New("another picker is already running")
)

// ExitError reports the exit status of a picker that did not succeed.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s exited with status %d", ErrNonZeroExit, e.Command, e.Code)
}

// Is makes errors.Is(err, ErrNonZeroExit) hold.
func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}

// Picker shows lines under a prompt and returns the chosen line.
type Picker interface {
	Present(ctx context.Context, prompt string, lines []string) (string, error)
}

// Notifier shows a message the user only needs to acknowledge.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Interactive is a picker that can also show notices.
type Interactive interface {
	Picker
	Notifier
}

// selection trims picker output and maps an empty result to ErrNoSelection.
func selection(out []byte) (string, error) {
	line := strings.TrimSpace(string(out))
	if line == "" {
		return "", ErrNoSelection
	}
	// Some pickers echo multiple lines on multi-select; only the first counts.
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	return line, nil
}
