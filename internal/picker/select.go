package picker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runger/vaultpick/internal/table"
)

// Selector formats rows as a table, presents it and decodes the choice
// back into a row index.
type Selector struct {
	Picker Picker
	Logger *slog.Logger
}

// Select returns the index of the row the user chose.
func (s Selector) Select(ctx context.Context, prompt string, rows [][]string) (int, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lines, err := table.Format(rows)
	if err != nil {
		return 0, err
	}

	logger.Debug("presenting picker", "prompt", prompt, "rows", len(rows))
	raw, err := s.Picker.Present(ctx, prompt, lines)
	if err != nil {
		return 0, err
	}

	index, err := table.Decode(raw, len(rows))
	if err != nil {
		return 0, fmt.Errorf("picker returned unexpected content: %w", err)
	}
	logger.Debug("picker selection", "prompt", prompt, "index", index)
	return index, nil
}
