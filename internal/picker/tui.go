package picker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// TUIPicker is the built-in picker. It draws on /dev/tty so that the
// launcher's own stdin and stdout stay free.
type TUIPicker struct {
	caseSensitive bool
	notices       io.Writer
	logger        *slog.Logger

	// openTTY returns the terminal to draw on; the picker closes it.
	openTTY func() (*os.File, error)
}

// NewTUIPicker creates the built-in picker.
func NewTUIPicker(caseSensitive bool, logger *slog.Logger) *TUIPicker {
	if logger == nil {
		logger = slog.Default()
	}
	return &TUIPicker{
		caseSensitive: caseSensitive,
		notices:       os.Stderr,
		logger:        logger,
		openTTY:       openControllingTTY,
	}
}

func openControllingTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Present implements Picker.
func (p *TUIPicker) Present(ctx context.Context, prompt string, lines []string) (string, error) {
	tty, err := p.openTTY()
	if err != nil {
		return "", fmt.Errorf("%w: no TTY available: %v", ErrLaunchFailed, err)
	}
	defer tty.Close()

	if err := checkTTY(tty); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	// Output is the tty rather than stdout, so detect colors from it.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p.logger.Debug("built-in picker started", "lines", len(lines))
	prog := tea.NewProgram(NewModel(prompt, lines, p.caseSensitive),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	final, err := prog.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPickerIO, err)
	}
	m, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("%w: unexpected model type %T", ErrPickerIO, final)
	}
	if m.IsCancelled() {
		p.logger.Debug("built-in picker cancelled")
	}
	return selection([]byte(m.Result()))
}

// Notify implements Notifier by printing the notice to stderr.
func (p *TUIPicker) Notify(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(p.notices, "%s\n%s\n", titleStyle.Render(" "+title+" "), message)
	return err
}

// New returns the picker for backend. argv configures the command backend.
func New(backend string, argv []string, caseSensitive bool, logger *slog.Logger) (Interactive, error) {
	switch backend {
	case "", BackendCommand:
		return NewCommandPicker(argv, logger), nil
	case BackendBuiltin:
		return NewTUIPicker(caseSensitive, logger), nil
	default:
		return nil, fmt.Errorf("unknown picker backend %q", backend)
	}
}
