package picker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// DefaultCommand is the dmenu-style picker used when none is configured.
// The prompt is appended as the final argument.
var DefaultCommand = []string{"wofi", "--dmenu", "--prompt"}

// CommandPicker runs an external dmenu-style program: lines on stdin, the
// chosen line on stdout.
type CommandPicker struct {
	argv   []string
	stderr io.Writer
	logger *slog.Logger
}

// NewCommandPicker creates a picker that runs argv with the prompt appended.
// An empty argv selects DefaultCommand.
func NewCommandPicker(argv []string, logger *slog.Logger) *CommandPicker {
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandPicker{
		argv:   append([]string(nil), argv...),
		stderr: os.Stderr,
		logger: logger,
	}
}

// Present implements Picker.
func (p *CommandPicker) Present(ctx context.Context, prompt string, lines []string) (string, error) {
	out, err := p.exchange(ctx, prompt, lines)
	if err != nil {
		return "", err
	}
	return selection(out)
}

// Notify implements Notifier. The picker is shown with title as its prompt
// and message as its only entry; how the user dismisses it does not matter.
func (p *CommandPicker) Notify(ctx context.Context, title, message string) error {
	_, err := p.exchange(ctx, title, []string{message})
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// exchange spawns the picker, writes lines, closes its input and waits for
// it to exit, returning whatever it printed.
func (p *CommandPicker) exchange(ctx context.Context, prompt string, lines []string) ([]byte, error) {
	argv := append(append([]string(nil), p.argv...), prompt)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = p.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLaunchFailed, argv[0], err)
	}
	p.logger.Debug("picker started", "command", argv[0], "pid", cmd.Process.Pid, "lines", len(lines))

	// The picker only finishes once its input is exhausted, so stdin must be
	// closed before Wait on every path.
	writeErr := writeLines(stdin, lines)
	closeErr := stdin.Close()
	waitErr := cmd.Wait()

	if writeErr != nil {
		return nil, fmt.Errorf("%w: writing to %s: %v", ErrPickerIO, argv[0], writeErr)
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return nil, fmt.Errorf("%w: closing %s input: %v", ErrPickerIO, argv[0], closeErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			p.logger.Debug("picker exited", "command", argv[0], "status", exitErr.ExitCode())
			return nil, &ExitError{Command: argv[0], Code: exitErr.ExitCode()}
		}
		return nil, fmt.Errorf("%w: waiting for %s: %v", ErrPickerIO, argv[0], waitErr)
	}

	p.logger.Debug("picker exited", "command", argv[0], "status", 0, "output_bytes", stdout.Len())
	return stdout.Bytes(), nil
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
