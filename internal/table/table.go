// Package table renders rows of cells as aligned picker lines and decodes
// the line a picker hands back into the row it came from.
//
// Encoding: every line ends with " ::index:<n>", where <n> is the decimal,
// zero-based position of the row. Decode looks for the last occurrence of
// the token, so cell text that happens to contain "::index:" or the column
// separator never shadows the real index. Format and Decode share IndexToken
// and must stay exact inverses of each other.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// Separator joins padded cells within a line.
	Separator = "  |  "

	// IndexToken introduces the row index at the end of each line.
	IndexToken = "::index:"
)

var (
	// ErrEmptyTable is returned when there are no rows to format.
	ErrEmptyTable = errors.New("no entries to display")

	// ErrArityMismatch is returned when rows of one table differ in length.
	ErrArityMismatch = errors.New("rows have differing column counts")

	// ErrMalformedSelection is returned when a picker line carries no index.
	ErrMalformedSelection = errors.New("failed to parse selected index")

	// ErrIndexOutOfRange is returned when the decoded index has no row.
	ErrIndexOutOfRange = errors.New("selected index out of range")
)

// Widths returns the display width of each column: the widest sanitized
// cell of that column across all rows, measured in terminal cells.
func Widths(rows [][]string) ([]int, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	arity := len(rows[0])
	widths := make([]int, arity)
	for i, row := range rows {
		if len(row) != arity {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrArityMismatch, i, len(row), arity)
		}
		for col, cell := range row {
			if w := runewidth.StringWidth(SanitizeCell(cell)); w > widths[col] {
				widths[col] = w
			}
		}
	}
	return widths, nil
}

// Format pads every cell to its column width, joins the cells with
// Separator and appends the encoded row index. One line is produced per
// row, in input order.
func Format(rows [][]string) ([]string, error) {
	widths, err := Widths(rows)
	if err != nil {
		return nil, err
	}

	lines := make([]string, len(rows))
	padded := make([]string, len(widths))
	for i, row := range rows {
		for col, cell := range row {
			padded[col] = runewidth.FillRight(SanitizeCell(cell), widths[col])
		}
		lines[i] = EncodeIndex(strings.Join(padded, Separator), i)
	}
	return lines, nil
}

// EncodeIndex appends the index suffix for row i to text.
func EncodeIndex(text string, i int) string {
	return text + " " + IndexToken + strconv.Itoa(i)
}

// Decode extracts the row index from a line produced by Format and checks
// it against rowCount.
func Decode(raw string, rowCount int) (int, error) {
	at := strings.LastIndex(raw, IndexToken)
	if at < 0 {
		return 0, fmt.Errorf("%w: no index token in %q", ErrMalformedSelection, raw)
	}

	digits := strings.TrimSpace(raw[at+len(IndexToken):])
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q is not an index", ErrMalformedSelection, digits)
	}

	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedSelection, err)
	}
	if index >= rowCount {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, rowCount)
	}
	return index, nil
}
